package models

// Ingredient codes tradable in the game, mapped to display names.
var ingredients = map[string]string{
	"CRL":  "Cereal 🌾",
	"CHC":  "Chocolate 🍫",
	"BTR":  "Butter 🧈",
	"SUC":  "Sugar 🧂",
	"NOI":  "Walnut 🥜",
	"SEL":  "Salt 🧂",
	"VNL":  "Vanilla 🍶",
	"OEUF": "Eggs 🥚",
}

// ingredientOrder fixes the display order of the catalog.
var ingredientOrder = []string{"CRL", "CHC", "BTR", "SUC", "NOI", "SEL", "VNL", "OEUF"}

// ValidIngredient reports whether code is part of the trading catalog.
func ValidIngredient(code string) bool {
	_, ok := ingredients[code]
	return ok
}

// IngredientName returns the display name for a catalog code, or "" for
// unknown codes.
func IngredientName(code string) string {
	return ingredients[code]
}

// IngredientDisplay returns "CODE Name emoji" for a catalog code.
func IngredientDisplay(code string) string {
	name, ok := ingredients[code]
	if !ok {
		return code
	}
	return code + " " + name
}

// IngredientCodes returns the catalog codes in display order.
func IngredientCodes() []string {
	codes := make([]string, len(ingredientOrder))
	copy(codes, ingredientOrder)
	return codes
}
