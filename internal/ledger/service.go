package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NewLouwa/CookieTrading/internal/config"
	"github.com/NewLouwa/CookieTrading/internal/database"
	"github.com/NewLouwa/CookieTrading/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrPositionNotFound is returned when a position ID does not exist.
	ErrPositionNotFound = errors.New("position not found")
	// ErrPositionClosed is returned when closing an already-closed position.
	ErrPositionClosed = errors.New("position already closed")
)

// Service implements the trading ledger: positions, closes with fees,
// the portfolio rollup and the trader-count fee schedule.
type Service struct {
	logger *zap.Logger
	cfg    *config.Config
	db     *gorm.DB
}

// NewService creates a new ledger service.
func NewService(logger *zap.Logger, cfg *config.Config, db *gorm.DB) *Service {
	return &Service{
		logger: logger,
		cfg:    cfg,
		db:     db,
	}
}

// Estimate is the outcome of a simulated (or about-to-happen) close.
type Estimate struct {
	Ingredient string  `json:"ingredient"`
	Quantity   int64   `json:"quantity"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	GrossPL    float64 `json:"gross_pl"`
	FeePercent float64 `json:"fee_percent"`
	FeeAmount  float64 `json:"fee_amount"`
	NetPL      float64 `json:"net_pl"`
}

// FeeStep is one row of the fee schedule.
type FeeStep struct {
	Traders    int     `json:"traders"`
	FeePercent float64 `json:"fee_percent"`
}

// Dashboard summarises the ledger for the menu header and the web UI.
type Dashboard struct {
	Traders       int       `json:"traders"`
	FeePercent    float64   `json:"fee_percent"`
	OpenPositions int64     `json:"open_positions"`
	TotalNetPL    float64   `json:"total_net_pl"`
	TotalTrades   int64     `json:"total_trades"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StatsDetail holds calculated statistics for a given period.
type StatsDetail struct {
	TotalTrades      int64   `json:"total_trades"`
	ProfitableTrades int64   `json:"profitable_trades"`
	WinRate          float64 `json:"win_rate"`
	TotalNetPL       float64 `json:"total_net_pl"`
}

// Stats reports trailing-24h and all-time trading statistics.
type Stats struct {
	Since24h StatsDetail `json:"since_24h"`
	AllTime  StatsDetail `json:"all_time"`
}

// feeFor applies the fee schedule for a given trader count.
func (s *Service) feeFor(traders int) float64 {
	fee := s.cfg.Trading.BaseFee - float64(traders)*s.cfg.Trading.FeePerTrader
	if fee < s.cfg.Trading.MinFee {
		fee = s.cfg.Trading.MinFee
	}
	return fee
}

// round2 rounds monetary amounts to cents before they are persisted.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// traderCount reads the singleton row.
func (s *Service) traderCount(tx *gorm.DB) (*models.TraderCount, error) {
	var tc models.TraderCount
	if err := tx.First(&tc).Error; err != nil {
		return nil, fmt.Errorf("could not read trader count: %w", err)
	}
	return &tc, nil
}

// CurrentFee returns the fee percentage in effect right now.
func (s *Service) CurrentFee() (float64, error) {
	tc, err := s.traderCount(s.db)
	if err != nil {
		return 0, err
	}
	return s.feeFor(tc.Count), nil
}

// FeeSchedule returns the fee at every trader count from 0 to upTo.
func (s *Service) FeeSchedule(upTo int) []FeeStep {
	steps := make([]FeeStep, 0, upTo+1)
	for n := 0; n <= upTo; n++ {
		steps = append(steps, FeeStep{Traders: n, FeePercent: s.feeFor(n)})
	}
	return steps
}

// SetTraderCount updates the trader singleton and returns the new fee.
func (s *Service) SetTraderCount(n int) (float64, error) {
	if n < 0 {
		return 0, fmt.Errorf("trader count cannot be negative")
	}

	tc, err := s.traderCount(s.db)
	if err != nil {
		return 0, err
	}
	tc.Count = n
	if err := s.db.Save(tc).Error; err != nil {
		return 0, fmt.Errorf("could not update trader count: %w", err)
	}

	fee := s.feeFor(n)
	s.logger.Info("Updated trader count",
		zap.Int("traders", n),
		zap.Float64("fee_percent", fee))
	return fee, nil
}

// normalizeIngredient validates and upper-cases an ingredient code.
func normalizeIngredient(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !models.ValidIngredient(code) {
		return "", fmt.Errorf("invalid ingredient code %q", code)
	}
	return code, nil
}

// validateOrder checks quantity and price bounds shared by opens and
// simulations.
func (s *Service) validateOrder(qty int64, price float64) error {
	if qty < 1 || qty > s.cfg.Trading.MaxQuantity {
		return fmt.Errorf("quantity must be between 1 and %d", s.cfg.Trading.MaxQuantity)
	}
	if price <= 0 {
		return fmt.Errorf("price must be greater than 0")
	}
	return nil
}

// truncateComment enforces the comment length limit.
func (s *Service) truncateComment(comment string) string {
	limit := s.cfg.Trading.MaxCommentLength
	if limit > 0 && len(comment) > limit {
		return comment[:limit]
	}
	return comment
}

// OpenPosition records a buy and resyncs the portfolio rollup.
func (s *Service) OpenPosition(code string, qty int64, price float64, comment string) (*models.Position, error) {
	code, err := normalizeIngredient(code)
	if err != nil {
		return nil, err
	}
	if err := s.validateOrder(qty, price); err != nil {
		return nil, err
	}

	pos := models.Position{
		Ingredient: code,
		Quantity:   qty,
		EntryPrice: price,
		Status:     models.StatusOpen,
		Comment:    s.truncateComment(comment),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pos).Error; err != nil {
			return fmt.Errorf("could not create position: %w", err)
		}
		return s.syncPortfolio(tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Position opened",
		zap.Uint("position_id", pos.ID),
		zap.String("ingredient", pos.Ingredient),
		zap.Int64("quantity", pos.Quantity),
		zap.Float64("entry_price", pos.EntryPrice))
	return &pos, nil
}

// estimate computes gross/fee/net for a hypothetical or real close.
func (s *Service) estimate(code string, qty int64, entry, exit, feePct float64) *Estimate {
	gross := round2((exit - entry) * float64(qty))
	feeAmt := round2(math.Abs(gross) * feePct / 100)
	return &Estimate{
		Ingredient: code,
		Quantity:   qty,
		EntryPrice: entry,
		ExitPrice:  exit,
		GrossPL:    gross,
		FeePercent: feePct,
		FeeAmount:  feeAmt,
		NetPL:      round2(gross - feeAmt),
	}
}

// ClosePosition sells sellQty shares of an open position at exit price.
// Selling the full quantity closes the position; selling less reduces
// it. One history row is written per close, carrying the sold quantity
// and the fee in effect at close time.
func (s *Service) ClosePosition(id uint, sellQty int64, exit float64, comment string) (*models.Trade, error) {
	if exit <= 0 {
		return nil, fmt.Errorf("exit price must be greater than 0")
	}

	var trade models.Trade
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pos models.Position
		if err := tx.First(&pos, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPositionNotFound
			}
			return fmt.Errorf("could not load position %d: %w", id, err)
		}
		if pos.Status == models.StatusClosed {
			return ErrPositionClosed
		}
		if sellQty < 1 || sellQty > pos.Quantity {
			return fmt.Errorf("sell quantity must be between 1 and %d", pos.Quantity)
		}

		tc, err := s.traderCount(tx)
		if err != nil {
			return err
		}
		est := s.estimate(pos.Ingredient, sellQty, pos.EntryPrice, exit, s.feeFor(tc.Count))

		if sellQty == pos.Quantity {
			pos.Status = models.StatusClosed
		} else {
			pos.Quantity -= sellQty
		}
		if err := tx.Save(&pos).Error; err != nil {
			return fmt.Errorf("could not update position %d: %w", id, err)
		}

		trade = models.Trade{
			PositionID: pos.ID,
			Ingredient: pos.Ingredient,
			Quantity:   est.Quantity,
			EntryPrice: est.EntryPrice,
			ExitPrice:  est.ExitPrice,
			GrossPL:    est.GrossPL,
			FeePercent: est.FeePercent,
			FeeAmount:  est.FeeAmount,
			NetPL:      est.NetPL,
			ClosedAt:   time.Now(),
			Comment:    s.truncateComment(comment),
		}
		if err := tx.Create(&trade).Error; err != nil {
			return fmt.Errorf("could not record trade: %w", err)
		}

		return s.syncPortfolio(tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Position closed",
		zap.Uint("position_id", trade.PositionID),
		zap.String("ingredient", trade.Ingredient),
		zap.Int64("quantity", trade.Quantity),
		zap.Float64("net_pl", trade.NetPL),
		zap.Float64("fee_percent", trade.FeePercent))
	return &trade, nil
}

// SimulateClose computes the outcome of closing an open position without
// writing anything.
func (s *Service) SimulateClose(id uint, sellQty int64, exit float64) (*Estimate, error) {
	if exit <= 0 {
		return nil, fmt.Errorf("exit price must be greater than 0")
	}

	var pos models.Position
	if err := s.db.First(&pos, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, fmt.Errorf("could not load position %d: %w", id, err)
	}
	if pos.Status == models.StatusClosed {
		return nil, ErrPositionClosed
	}
	if sellQty < 1 || sellQty > pos.Quantity {
		return nil, fmt.Errorf("sell quantity must be between 1 and %d", pos.Quantity)
	}

	fee, err := s.CurrentFee()
	if err != nil {
		return nil, err
	}
	return s.estimate(pos.Ingredient, sellQty, pos.EntryPrice, exit, fee), nil
}

// SimulateTrade computes the outcome of a hypothetical round trip on an
// ingredient, with no position involved.
func (s *Service) SimulateTrade(code string, qty int64, entry, exit float64) (*Estimate, error) {
	code, err := normalizeIngredient(code)
	if err != nil {
		return nil, err
	}
	if err := s.validateOrder(qty, entry); err != nil {
		return nil, err
	}
	if exit <= 0 {
		return nil, fmt.Errorf("exit price must be greater than 0")
	}

	fee, err := s.CurrentFee()
	if err != nil {
		return nil, err
	}
	return s.estimate(code, qty, entry, exit, fee), nil
}

// OpenPositions returns open positions, newest first.
func (s *Service) OpenPositions() ([]models.Position, error) {
	var positions []models.Position
	err := s.db.
		Where("status = ?", models.StatusOpen).
		Order("created_at DESC").
		Find(&positions).Error
	if err != nil {
		return nil, fmt.Errorf("could not list open positions: %w", err)
	}
	return positions, nil
}

// History returns closed trades, newest first.
func (s *Service) History() ([]models.Trade, error) {
	var trades []models.Trade
	if err := s.db.Order("closed_at DESC").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("could not list trading history: %w", err)
	}
	return trades, nil
}

// Portfolio returns the holding rollup in catalog order.
func (s *Service) Portfolio() ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Find(&holdings).Error; err != nil {
		return nil, fmt.Errorf("could not list holdings: %w", err)
	}

	byCode := make(map[string]models.Holding, len(holdings))
	for _, h := range holdings {
		byCode[h.Ingredient] = h
	}
	ordered := make([]models.Holding, 0, len(holdings))
	for _, code := range models.IngredientCodes() {
		if h, ok := byCode[code]; ok {
			ordered = append(ordered, h)
		}
	}
	return ordered, nil
}

// holdingRow is the grouped aggregate scanned during a portfolio sync.
type holdingRow struct {
	Ingredient string
	Quantity   int64
	Total      float64
	Positions  int
}

// syncPortfolio rebuilds the holding rollup from open positions inside
// the caller's transaction. Delete-and-rebuild: the table is at most one
// row per catalog ingredient, and a rebuild cannot drift from the
// position ledger.
func (s *Service) syncPortfolio(tx *gorm.DB) error {
	var rows []holdingRow
	err := tx.Model(&models.Position{}).
		Select("ingredient, SUM(quantity) AS quantity, SUM(quantity * entry_price) AS total, COUNT(*) AS positions").
		Where("status = ?", models.StatusOpen).
		Group("ingredient").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("could not aggregate open positions: %w", err)
	}

	err = tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&models.Holding{}).Error
	if err != nil {
		return fmt.Errorf("could not clear holdings: %w", err)
	}

	for _, row := range rows {
		if row.Quantity <= 0 {
			continue
		}
		holding := models.Holding{
			Ingredient:   row.Ingredient,
			Quantity:     row.Quantity,
			AveragePrice: row.Total / float64(row.Quantity),
			Positions:    row.Positions,
		}
		if err := tx.Create(&holding).Error; err != nil {
			return fmt.Errorf("could not write holding for %s: %w", row.Ingredient, err)
		}
	}

	return nil
}

// Dashboard gathers the ledger summary.
func (s *Service) Dashboard() (*Dashboard, error) {
	tc, err := s.traderCount(s.db)
	if err != nil {
		return nil, err
	}

	var openCount int64
	err = s.db.Model(&models.Position{}).
		Where("status = ?", models.StatusOpen).
		Count(&openCount).Error
	if err != nil {
		return nil, fmt.Errorf("could not count open positions: %w", err)
	}

	var totalTrades int64
	if err := s.db.Model(&models.Trade{}).Count(&totalTrades).Error; err != nil {
		return nil, fmt.Errorf("could not count trades: %w", err)
	}

	var totalNet float64
	err = s.db.Model(&models.Trade{}).
		Select("COALESCE(SUM(net_pl), 0)").
		Scan(&totalNet).Error
	if err != nil {
		return nil, fmt.Errorf("could not sum profit/loss: %w", err)
	}

	return &Dashboard{
		Traders:       tc.Count,
		FeePercent:    s.feeFor(tc.Count),
		OpenPositions: openCount,
		TotalNetPL:    round2(totalNet),
		TotalTrades:   totalTrades,
		UpdatedAt:     time.Now(),
	}, nil
}

// Stats calculates trailing-24h and all-time trading statistics.
func (s *Service) Stats() (*Stats, error) {
	var trades []models.Trade
	if err := s.db.Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("could not load trades for statistics: %w", err)
	}

	since24h := time.Now().Add(-24 * time.Hour)
	stats := Stats{}

	for _, trade := range trades {
		stats.AllTime.TotalTrades++
		if trade.NetPL > 0 {
			stats.AllTime.ProfitableTrades++
		}
		stats.AllTime.TotalNetPL += trade.NetPL

		if trade.ClosedAt.After(since24h) {
			stats.Since24h.TotalTrades++
			if trade.NetPL > 0 {
				stats.Since24h.ProfitableTrades++
			}
			stats.Since24h.TotalNetPL += trade.NetPL
		}
	}

	if stats.AllTime.TotalTrades > 0 {
		stats.AllTime.WinRate = float64(stats.AllTime.ProfitableTrades) / float64(stats.AllTime.TotalTrades)
	}
	if stats.Since24h.TotalTrades > 0 {
		stats.Since24h.WinRate = float64(stats.Since24h.ProfitableTrades) / float64(stats.Since24h.TotalTrades)
	}

	stats.AllTime.TotalNetPL = round2(stats.AllTime.TotalNetPL)
	stats.Since24h.TotalNetPL = round2(stats.Since24h.TotalNetPL)

	return &stats, nil
}

// Reset wipes the ledger and reseeds an empty schema. The caller is
// responsible for the two-step confirmation.
func (s *Service) Reset() error {
	if err := database.Reset(s.db); err != nil {
		return err
	}
	s.logger.Warn("Ledger reset: all positions, history and holdings dropped")
	return nil
}
