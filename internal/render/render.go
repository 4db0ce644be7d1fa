// Package render builds the markdown reports shown in the terminal.
// The menu binary feeds these strings through a glamour renderer; they
// stay readable as plain text when no renderer is available.
package render

import (
	"fmt"
	"strings"

	"github.com/NewLouwa/CookieTrading/internal/ledger"
	"github.com/NewLouwa/CookieTrading/internal/models"
	"github.com/NewLouwa/CookieTrading/internal/pricing"
)

const timeLayout = "2006-01-02 15:04:05"

// plMarker picks the trend marker used next to P/L figures.
func plMarker(v float64) string {
	switch {
	case v > 0:
		return "📈"
	case v < 0:
		return "📉"
	default:
		return "➡️"
	}
}

// Dashboard renders the ledger summary header.
func Dashboard(d *ledger.Dashboard) string {
	var b strings.Builder

	fmt.Fprint(&b, "# 🍪 Cookie Trading Manager\n\n")
	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| 👥 Traders | %d (fee %.0f%%) |\n", d.Traders, d.FeePercent)
	fmt.Fprintf(&b, "| 📊 Open Positions | %d |\n", d.OpenPositions)
	fmt.Fprintf(&b, "| %s Total P/L | %s |\n", plMarker(d.TotalNetPL), pricing.FormatPrice(d.TotalNetPL))
	fmt.Fprintf(&b, "| 🔄 Total Trades | %d |\n", d.TotalTrades)
	fmt.Fprintf(&b, "\n*Updated: %s*\n", d.UpdatedAt.Format(timeLayout))

	return b.String()
}

// OpenPositions renders the open positions table.
func OpenPositions(positions []models.Position) string {
	if len(positions) == 0 {
		return "No open positions.\n"
	}

	var b strings.Builder
	fmt.Fprint(&b, "## Open Positions\n\n")
	fmt.Fprintln(&b, "| ID | Ingredient | Quantity | Entry Price | Opened | Comment |")
	fmt.Fprintln(&b, "|---:|:---|---:|---:|:---|:---|")
	for _, p := range positions {
		fmt.Fprintf(&b, "| %d | %s | %d | %s | %s | %s |\n",
			p.ID,
			p.Display(),
			p.Quantity,
			pricing.FormatPrice(p.EntryPrice),
			p.CreatedAt.Format(timeLayout),
			p.Comment,
		)
	}
	return b.String()
}

// History renders the trading history table.
func History(trades []models.Trade) string {
	if len(trades) == 0 {
		return "No trading history.\n"
	}

	var b strings.Builder
	fmt.Fprint(&b, "## Trading History\n\n")
	fmt.Fprintln(&b, "| ID | Ingredient | Qty | Entry | Exit | P/L | Fee | Closed | Comment |")
	fmt.Fprintln(&b, "|---:|:---|---:|---:|---:|---:|---:|:---|:---|")
	for _, t := range trades {
		fmt.Fprintf(&b, "| %d | %s | %d | %s | %s | %s %s | %s @ %.0f%% | %s | %s |\n",
			t.ID,
			t.Display(),
			t.Quantity,
			pricing.FormatPrice(t.EntryPrice),
			pricing.FormatPrice(t.ExitPrice),
			plMarker(t.NetPL),
			pricing.FormatPrice(t.NetPL),
			pricing.FormatPrice(t.FeeAmount),
			t.FeePercent,
			t.ClosedAt.Format(timeLayout),
			t.Comment,
		)
	}
	return b.String()
}

// Portfolio renders the holding rollup.
func Portfolio(holdings []models.Holding) string {
	if len(holdings) == 0 {
		return "Portfolio is empty.\n"
	}

	var b strings.Builder
	fmt.Fprint(&b, "## Portfolio\n\n")
	fmt.Fprintln(&b, "| Ingredient | Quantity | Avg. Price | Positions |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %d | %s | %d |\n",
			h.Display(),
			h.Quantity,
			pricing.FormatPrice(h.AveragePrice),
			h.Positions,
		)
	}
	return b.String()
}

// Estimate renders a simulation result under the given title.
func Estimate(title string, e *ledger.Estimate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s %s\n\n", plMarker(e.NetPL), title)
	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Ingredient | %s |\n", models.IngredientDisplay(e.Ingredient))
	fmt.Fprintf(&b, "| Quantity | %d |\n", e.Quantity)
	fmt.Fprintf(&b, "| Entry Price | %s |\n", pricing.FormatPrice(e.EntryPrice))
	fmt.Fprintf(&b, "| Exit Price | %s |\n", pricing.FormatPrice(e.ExitPrice))
	fmt.Fprintf(&b, "| Gross P/L | %s |\n", pricing.FormatPrice(e.GrossPL))
	fmt.Fprintf(&b, "| Fee | %s @ %.0f%% |\n", pricing.FormatPrice(e.FeeAmount), e.FeePercent)
	fmt.Fprintf(&b, "| Net P/L | **%s** |\n", pricing.FormatPrice(e.NetPL))
	return b.String()
}

// CloseReceipt renders the confirmation block after a real close.
func CloseReceipt(t *models.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s Position Closed\n\n", plMarker(t.NetPL))
	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Position | %d (%s) |\n", t.PositionID, t.Display())
	fmt.Fprintf(&b, "| Shares Sold | %d |\n", t.Quantity)
	fmt.Fprintf(&b, "| Exit Price | %s |\n", pricing.FormatPrice(t.ExitPrice))
	fmt.Fprintf(&b, "| Gross P/L | %s |\n", pricing.FormatPrice(t.GrossPL))
	fmt.Fprintf(&b, "| Fee | %s @ %.0f%% |\n", pricing.FormatPrice(t.FeeAmount), t.FeePercent)
	fmt.Fprintf(&b, "| Net P/L | **%s** |\n", pricing.FormatPrice(t.NetPL))
	if t.Comment != "" {
		fmt.Fprintf(&b, "| Comment | %s |\n", t.Comment)
	}
	return b.String()
}

// FeeSchedule renders the fee at increasing trader counts.
func FeeSchedule(steps []ledger.FeeStep) string {
	var b strings.Builder
	fmt.Fprint(&b, "## Fee Schedule\n\n")
	fmt.Fprintln(&b, "| Traders | Fee |")
	fmt.Fprintln(&b, "|---:|---:|")
	for _, step := range steps {
		fmt.Fprintf(&b, "| %d | %.0f%% |\n", step.Traders, step.FeePercent)
	}
	return b.String()
}

// Units renders the price suffix table.
func Units(units []pricing.Unit) string {
	var b strings.Builder
	fmt.Fprint(&b, "## Available Units 📏\n\n")
	fmt.Fprintln(&b, "| Code | Name | Power |")
	fmt.Fprintln(&b, "|:---|:---|---:|")
	for _, u := range units {
		fmt.Fprintf(&b, "| %s | %s | 10^%d |\n", u.Code, u.Name, u.Exp)
	}
	return b.String()
}

// Ingredients renders the catalog for the open-position prompt.
func Ingredients() string {
	var b strings.Builder
	fmt.Fprint(&b, "## Available Ingredients\n\n")
	for _, code := range models.IngredientCodes() {
		fmt.Fprintf(&b, "- %s\n", models.IngredientDisplay(code))
	}
	return b.String()
}
