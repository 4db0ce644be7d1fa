package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/NewLouwa/CookieTrading/internal/config"
	"github.com/NewLouwa/CookieTrading/internal/ledger"
	"github.com/NewLouwa/CookieTrading/internal/models"
	"github.com/NewLouwa/CookieTrading/internal/pricing"
	"github.com/NewLouwa/CookieTrading/internal/render"
	"go.uber.org/zap"
)

const menu = `
**Position Actions**

1. 📈 Open Position
2. 📉 Close Position
3. 🔮 Simulate Close
4. 🎯 Simulate Trade

**View Actions**

5. 📊 Show Open Positions
6. 📜 Show Trading History
7. 💼 Show Portfolio
8. 📏 Show Units

**Settings & Exit**

9. 👥 Update Traders Count
10. 🧨 Reset Database
0. ❌ Exit
`

// app drives the interactive menu over a ledger service.
type app struct {
	logger *zap.Logger
	cfg    *config.Config
	svc    *ledger.Service
	in     *bufio.Scanner
	out    io.Writer
	term   *glamour.TermRenderer
	done   bool
}

func newApp(logger *zap.Logger, cfg *config.Config, svc *ledger.Service, in io.Reader, out io.Writer) *app {
	term, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(110),
	)
	if err != nil {
		// Fall back to raw markdown; it stays readable.
		logger.Warn("Could not initialize terminal renderer", zap.Error(err))
		term = nil
	}

	return &app{
		logger: logger,
		cfg:    cfg,
		svc:    svc,
		in:     bufio.NewScanner(in),
		out:    out,
		term:   term,
	}
}

// display renders markdown to the terminal.
func (a *app) display(md string) {
	if a.term != nil {
		if out, err := a.term.Render(md); err == nil {
			fmt.Fprint(a.out, out)
			return
		}
	}
	fmt.Fprint(a.out, md)
}

// prompt reads one line. ok is false when the user typed "cancel" or
// input ended.
func (a *app) prompt(label string) (value string, ok bool) {
	fmt.Fprintf(a.out, "%s: ", label)
	if !a.in.Scan() {
		a.done = true
		return "", false
	}
	value = strings.TrimSpace(a.in.Text())
	if strings.EqualFold(value, "cancel") {
		return "", false
	}
	return value, true
}

// promptPrice keeps asking until a valid price or cancel.
func (a *app) promptPrice(label string) (float64, bool) {
	for {
		s, ok := a.prompt(label + " (e.g. 123.45, $123.45 or 1.5M, 'cancel' to abort)")
		if !ok {
			return 0, false
		}
		price, err := pricing.ParsePrice(s)
		if err != nil {
			fmt.Fprintf(a.out, "%v\n", err)
			continue
		}
		return price, true
	}
}

// promptQuantity keeps asking until a valid share count or cancel.
func (a *app) promptQuantity(label string, max int64) (int64, bool) {
	for {
		s, ok := a.prompt(fmt.Sprintf("%s (max %d, 'max'/'all', 'cancel' to abort)", label, max))
		if !ok {
			return 0, false
		}
		qty, err := pricing.ParseQuantity(s, max)
		if err != nil {
			fmt.Fprintf(a.out, "%v\n", err)
			continue
		}
		return qty, true
	}
}

// promptPositionID shows open positions and asks for one of their IDs.
func (a *app) promptPositionID(label string) (*models.Position, bool) {
	positions, err := a.svc.OpenPositions()
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
		return nil, false
	}
	a.display(render.OpenPositions(positions))
	if len(positions) == 0 {
		return nil, false
	}

	for {
		s, ok := a.prompt(label + " ('cancel' to abort)")
		if !ok {
			return nil, false
		}
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			fmt.Fprintln(a.out, "enter a position ID from the table above")
			continue
		}
		for i := range positions {
			if positions[i].ID == uint(id) {
				return &positions[i], true
			}
		}
		fmt.Fprintf(a.out, "no open position with ID %d\n", id)
	}
}

// pause waits for Enter so tables are not wiped by the next menu.
func (a *app) pause() {
	fmt.Fprint(a.out, "\nPress Enter to continue...")
	if !a.in.Scan() {
		a.done = true
	}
}

func (a *app) run() {
	for !a.done {
		dashboard, err := a.svc.Dashboard()
		if err != nil {
			a.logger.Error("Failed to build dashboard", zap.Error(err))
			return
		}
		a.display(render.Dashboard(dashboard))
		a.display(menu)

		choice, ok := a.prompt("Select an option")
		if !ok {
			if a.done {
				break
			}
			continue
		}

		switch choice {
		case "1":
			a.openPosition()
		case "2":
			a.closePosition()
		case "3":
			a.simulateClose()
		case "4":
			a.simulateTrade()
		case "5":
			a.showOpenPositions()
		case "6":
			a.showHistory()
		case "7":
			a.showPortfolio()
		case "8":
			a.showUnits()
		case "9":
			a.updateTraders()
		case "10":
			a.resetDatabase()
		case "0":
			a.done = true
		default:
			fmt.Fprintln(a.out, "Unknown option")
		}
	}

	fmt.Fprintln(a.out, "Goodbye! 👋")
}

func (a *app) openPosition() {
	a.display(render.Ingredients())

	code, ok := a.prompt(fmt.Sprintf("Enter ingredient code [%s] ('cancel' to abort)",
		strings.Join(models.IngredientCodes(), "/")))
	if !ok {
		return
	}
	qty, ok := a.promptQuantity("Enter number of shares", a.cfg.Trading.MaxQuantity)
	if !ok {
		return
	}
	price, ok := a.promptPrice("Enter entry price")
	if !ok {
		return
	}
	comment, ok := a.prompt("Add a comment (optional)")
	if !ok {
		return
	}

	pos, err := a.svc.OpenPosition(code, qty, price, comment)
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
		a.pause()
		return
	}
	fmt.Fprintf(a.out, "\n📈 Opened position %d: %d × %s at %s\n",
		pos.ID, pos.Quantity, pos.Display(), pricing.FormatPrice(pos.EntryPrice))
	a.pause()
}

func (a *app) closePosition() {
	pos, ok := a.promptPositionID("Enter position ID to close")
	if !ok {
		return
	}
	qty, ok := a.promptQuantity("Enter number of shares to sell", pos.Quantity)
	if !ok {
		return
	}
	exit, ok := a.promptPrice("Enter exit price")
	if !ok {
		return
	}
	comment, ok := a.prompt("Add a comment (optional)")
	if !ok {
		return
	}

	trade, err := a.svc.ClosePosition(pos.ID, qty, exit, comment)
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
		a.pause()
		return
	}
	a.display(render.CloseReceipt(trade))
	a.pause()
}

func (a *app) simulateClose() {
	pos, ok := a.promptPositionID("Enter position ID to simulate")
	if !ok {
		return
	}
	qty, ok := a.promptQuantity("Enter number of shares to simulate", pos.Quantity)
	if !ok {
		return
	}
	exit, ok := a.promptPrice("Enter hypothetical exit price")
	if !ok {
		return
	}

	est, err := a.svc.SimulateClose(pos.ID, qty, exit)
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
		a.pause()
		return
	}
	a.display(render.Estimate("Simulation Results", est))
	a.pause()
}

func (a *app) simulateTrade() {
	a.display(render.Ingredients())

	code, ok := a.prompt(fmt.Sprintf("Enter ingredient code [%s] ('cancel' to abort)",
		strings.Join(models.IngredientCodes(), "/")))
	if !ok {
		return
	}
	qty, ok := a.promptQuantity("Enter number of shares", a.cfg.Trading.MaxQuantity)
	if !ok {
		return
	}
	entry, ok := a.promptPrice("Enter entry price")
	if !ok {
		return
	}
	exit, ok := a.promptPrice("Enter hypothetical exit price")
	if !ok {
		return
	}

	est, err := a.svc.SimulateTrade(code, qty, entry, exit)
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
		a.pause()
		return
	}
	a.display(render.Estimate("Trade Simulation", est))
	a.pause()
}

func (a *app) showOpenPositions() {
	positions, err := a.svc.OpenPositions()
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
	} else {
		a.display(render.OpenPositions(positions))
	}
	a.pause()
}

func (a *app) showHistory() {
	trades, err := a.svc.History()
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
	} else {
		a.display(render.History(trades))
	}
	a.pause()
}

func (a *app) showPortfolio() {
	holdings, err := a.svc.Portfolio()
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
	} else {
		a.display(render.Portfolio(holdings))
	}
	a.pause()
}

func (a *app) showUnits() {
	a.display(render.Units(pricing.Units()))
	a.pause()
}

func (a *app) updateTraders() {
	a.display(render.FeeSchedule(a.svc.FeeSchedule(20)))

	for {
		s, ok := a.prompt("Enter new trader count ('cancel' to abort)")
		if !ok {
			return
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			fmt.Fprintln(a.out, "enter a whole number")
			continue
		}
		fee, err := a.svc.SetTraderCount(n)
		if err != nil {
			fmt.Fprintf(a.out, "%v\n", err)
			continue
		}
		fmt.Fprintf(a.out, "Updated trader count to %d (fee %.0f%%)\n", n, fee)
		a.pause()
		return
	}
}

// resetDatabase wipes everything. Two-step confirmation: the literal
// word RESET, then an explicit yes.
func (a *app) resetDatabase() {
	fmt.Fprintln(a.out, "⚠️  This deletes ALL positions, history and holdings.")
	word, ok := a.prompt("Type RESET to continue ('cancel' to abort)")
	if !ok || word != "RESET" {
		fmt.Fprintln(a.out, "Reset aborted.")
		return
	}
	confirm, ok := a.prompt("Are you sure? [y/N]")
	if !ok || (!strings.EqualFold(confirm, "y") && !strings.EqualFold(confirm, "yes")) {
		fmt.Fprintln(a.out, "Reset aborted.")
		return
	}

	if err := a.svc.Reset(); err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
		a.pause()
		return
	}
	fmt.Fprintln(a.out, "Database reset. Fresh ledger ready.")
	a.pause()
}
