package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/NewLouwa/CookieTrading/internal/config"
	"github.com/NewLouwa/CookieTrading/internal/database"
	"github.com/NewLouwa/CookieTrading/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Trading: config.Trading{
			BaseFee:          20,
			FeePerTrader:     1,
			MinFee:           0,
			MaxQuantity:      1000,
			MaxCommentLength: 500,
		},
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return NewService(zap.NewNop(), testConfig(), db)
}

func TestCurrentFee(t *testing.T) {
	testCases := []struct {
		name        string
		traders     int
		minFee      float64
		expectedFee float64
	}{
		{name: "No traders pays base fee", traders: 0, expectedFee: 20},
		{name: "Each trader shaves one point", traders: 5, expectedFee: 15},
		{name: "Fee reaches zero", traders: 20, expectedFee: 0},
		{name: "Fee never goes negative", traders: 50, expectedFee: 0},
		{name: "Configured floor holds", traders: 50, minFee: 2, expectedFee: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestService(t)
			s.cfg.Trading.MinFee = tc.minFee

			_, err := s.SetTraderCount(tc.traders)
			require.NoError(t, err)

			fee, err := s.CurrentFee()
			require.NoError(t, err)
			assert.Equal(t, tc.expectedFee, fee)
		})
	}
}

func TestSetTraderCountRejectsNegative(t *testing.T) {
	s := newTestService(t)

	_, err := s.SetTraderCount(-1)
	assert.Error(t, err)

	// The singleton keeps its seeded value.
	fee, err := s.CurrentFee()
	require.NoError(t, err)
	assert.Equal(t, 20.0, fee)
}

func TestFeeSchedule(t *testing.T) {
	s := newTestService(t)

	steps := s.FeeSchedule(20)
	require.Len(t, steps, 21)
	assert.Equal(t, FeeStep{Traders: 0, FeePercent: 20}, steps[0])
	assert.Equal(t, FeeStep{Traders: 20, FeePercent: 0}, steps[20])
}

func TestOpenPositionValidation(t *testing.T) {
	testCases := []struct {
		name    string
		code    string
		qty     int64
		price   float64
		wantErr bool
	}{
		{name: "Valid position", code: "CRL", qty: 10, price: 1.5, wantErr: false},
		{name: "Lowercase code accepted", code: "chc", qty: 1, price: 2, wantErr: false},
		{name: "Unknown ingredient", code: "XXX", qty: 10, price: 1.5, wantErr: true},
		{name: "Zero quantity", code: "CRL", qty: 0, price: 1.5, wantErr: true},
		{name: "Quantity over cap", code: "CRL", qty: 1001, price: 1.5, wantErr: true},
		{name: "Zero price", code: "CRL", qty: 10, price: 0, wantErr: true},
		{name: "Negative price", code: "CRL", qty: 10, price: -1, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestService(t)
			pos, err := s.OpenPosition(tc.code, tc.qty, tc.price, "")

			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.StatusOpen, pos.Status)
			assert.NotEqual(t, uint(0), pos.ID)
			// Codes are stored upper-case regardless of input.
			assert.True(t, models.ValidIngredient(pos.Ingredient))
		})
	}
}

func TestOpenPositionTruncatesComment(t *testing.T) {
	s := newTestService(t)
	s.cfg.Trading.MaxCommentLength = 10

	pos, err := s.OpenPosition("CRL", 1, 1, "this comment is far too long")
	require.NoError(t, err)
	assert.Equal(t, "this comme", pos.Comment)
}

func TestClosePositionFull(t *testing.T) {
	s := newTestService(t)
	_, err := s.SetTraderCount(5) // fee 15%
	require.NoError(t, err)

	pos, err := s.OpenPosition("BTR", 10, 100, "")
	require.NoError(t, err)

	trade, err := s.ClosePosition(pos.ID, 10, 110, "took profit")
	require.NoError(t, err)

	assert.Equal(t, pos.ID, trade.PositionID)
	assert.Equal(t, int64(10), trade.Quantity)
	assert.Equal(t, 100.0, trade.GrossPL) // (110-100)*10
	assert.Equal(t, 15.0, trade.FeePercent)
	assert.Equal(t, 15.0, trade.FeeAmount)
	assert.Equal(t, 85.0, trade.NetPL)
	assert.Equal(t, "took profit", trade.Comment)

	// Position is gone from the open list and the rollup is empty.
	open, err := s.OpenPositions()
	require.NoError(t, err)
	assert.Empty(t, open)

	holdings, err := s.Portfolio()
	require.NoError(t, err)
	assert.Empty(t, holdings)

	history, err := s.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestClosePositionPartial(t *testing.T) {
	s := newTestService(t)

	pos, err := s.OpenPosition("SEL", 10, 50, "")
	require.NoError(t, err)

	trade, err := s.ClosePosition(pos.ID, 4, 60, "")
	require.NoError(t, err)
	assert.Equal(t, int64(4), trade.Quantity)
	assert.Equal(t, 40.0, trade.GrossPL) // (60-50)*4
	assert.Equal(t, 8.0, trade.FeeAmount)
	assert.Equal(t, 32.0, trade.NetPL)

	open, err := s.OpenPositions()
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, int64(6), open[0].Quantity)
	assert.Equal(t, models.StatusOpen, open[0].Status)

	holdings, err := s.Portfolio()
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, int64(6), holdings[0].Quantity)
}

func TestCloseLossFeeAppliesToAbsolutePL(t *testing.T) {
	s := newTestService(t)

	pos, err := s.OpenPosition("VNL", 10, 100, "")
	require.NoError(t, err)

	trade, err := s.ClosePosition(pos.ID, 10, 90, "")
	require.NoError(t, err)
	assert.Equal(t, -100.0, trade.GrossPL)
	assert.Equal(t, 20.0, trade.FeeAmount) // 20% of |gross|
	assert.Equal(t, -120.0, trade.NetPL)   // fee deepens the loss
}

func TestClosePositionErrors(t *testing.T) {
	s := newTestService(t)

	pos, err := s.OpenPosition("NOI", 5, 10, "")
	require.NoError(t, err)

	_, err = s.ClosePosition(9999, 1, 12, "")
	assert.ErrorIs(t, err, ErrPositionNotFound)

	_, err = s.ClosePosition(pos.ID, 6, 12, "")
	assert.Error(t, err) // more shares than held

	_, err = s.ClosePosition(pos.ID, 1, 0, "")
	assert.Error(t, err) // exit price must be positive

	_, err = s.ClosePosition(pos.ID, 5, 12, "")
	require.NoError(t, err)

	_, err = s.ClosePosition(pos.ID, 1, 12, "")
	assert.ErrorIs(t, err, ErrPositionClosed)
}

func TestSimulateCloseDoesNotWrite(t *testing.T) {
	s := newTestService(t)

	pos, err := s.OpenPosition("OEUF", 8, 25, "")
	require.NoError(t, err)

	est, err := s.SimulateClose(pos.ID, 8, 30)
	require.NoError(t, err)
	assert.Equal(t, 40.0, est.GrossPL) // (30-25)*8
	assert.Equal(t, 8.0, est.FeeAmount)
	assert.Equal(t, 32.0, est.NetPL)

	// Nothing changed on disk.
	open, err := s.OpenPositions()
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, int64(8), open[0].Quantity)

	history, err := s.History()
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSimulateTrade(t *testing.T) {
	s := newTestService(t)

	est, err := s.SimulateTrade("crl", 100, 1.25, 1.75)
	require.NoError(t, err)
	assert.Equal(t, "CRL", est.Ingredient)
	assert.Equal(t, 50.0, est.GrossPL)
	assert.Equal(t, 10.0, est.FeeAmount)
	assert.Equal(t, 40.0, est.NetPL)

	_, err = s.SimulateTrade("XXX", 100, 1.25, 1.75)
	assert.Error(t, err)

	_, err = s.SimulateTrade("CRL", 100, 1.25, 0)
	assert.Error(t, err)
}

func TestPortfolioWeightedAverage(t *testing.T) {
	s := newTestService(t)

	_, err := s.OpenPosition("CRL", 10, 100, "")
	require.NoError(t, err)
	_, err = s.OpenPosition("CRL", 30, 200, "")
	require.NoError(t, err)
	_, err = s.OpenPosition("BTR", 5, 40, "")
	require.NoError(t, err)

	holdings, err := s.Portfolio()
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	// Catalog order: CRL before BTR.
	assert.Equal(t, "CRL", holdings[0].Ingredient)
	assert.Equal(t, int64(40), holdings[0].Quantity)
	assert.InDelta(t, 175.0, holdings[0].AveragePrice, 1e-9) // (10*100+30*200)/40
	assert.Equal(t, 2, holdings[0].Positions)

	assert.Equal(t, "BTR", holdings[1].Ingredient)
	assert.Equal(t, int64(5), holdings[1].Quantity)
	assert.InDelta(t, 40.0, holdings[1].AveragePrice, 1e-9)
}

func TestDashboard(t *testing.T) {
	s := newTestService(t)
	_, err := s.SetTraderCount(3)
	require.NoError(t, err)

	p1, err := s.OpenPosition("CRL", 10, 100, "")
	require.NoError(t, err)
	_, err = s.OpenPosition("CHC", 5, 10, "")
	require.NoError(t, err)

	_, err = s.ClosePosition(p1.ID, 10, 110, "")
	require.NoError(t, err)

	d, err := s.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 3, d.Traders)
	assert.Equal(t, 17.0, d.FeePercent)
	assert.Equal(t, int64(1), d.OpenPositions)
	assert.Equal(t, int64(1), d.TotalTrades)
	assert.Equal(t, 83.0, d.TotalNetPL) // 100 gross - 17 fee
}

func TestStats(t *testing.T) {
	s := newTestService(t)

	now := time.Now()
	trades := []models.Trade{
		{PositionID: 1, Ingredient: "CRL", Quantity: 1, NetPL: 50, ClosedAt: now},
		{PositionID: 2, Ingredient: "CHC", Quantity: 1, NetPL: -20, ClosedAt: now},
		{PositionID: 3, Ingredient: "BTR", Quantity: 1, NetPL: 10, ClosedAt: now.Add(-48 * time.Hour)},
	}
	for i := range trades {
		require.NoError(t, s.db.Create(&trades[i]).Error)
	}

	stats, err := s.Stats()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.AllTime.TotalTrades)
	assert.Equal(t, int64(2), stats.AllTime.ProfitableTrades)
	assert.InDelta(t, 2.0/3.0, stats.AllTime.WinRate, 1e-9)
	assert.Equal(t, 40.0, stats.AllTime.TotalNetPL)

	assert.Equal(t, int64(2), stats.Since24h.TotalTrades)
	assert.Equal(t, int64(1), stats.Since24h.ProfitableTrades)
	assert.InDelta(t, 0.5, stats.Since24h.WinRate, 1e-9)
	assert.Equal(t, 30.0, stats.Since24h.TotalNetPL)
}

func TestResetWipesLedger(t *testing.T) {
	s := newTestService(t)
	_, err := s.SetTraderCount(7)
	require.NoError(t, err)

	pos, err := s.OpenPosition("CRL", 10, 100, "")
	require.NoError(t, err)
	_, err = s.ClosePosition(pos.ID, 5, 120, "")
	require.NoError(t, err)

	require.NoError(t, s.Reset())

	open, err := s.OpenPositions()
	require.NoError(t, err)
	assert.Empty(t, open)

	history, err := s.History()
	require.NoError(t, err)
	assert.Empty(t, history)

	holdings, err := s.Portfolio()
	require.NoError(t, err)
	assert.Empty(t, holdings)

	// Trader singleton is reseeded at zero.
	fee, err := s.CurrentFee()
	require.NoError(t, err)
	assert.Equal(t, 20.0, fee)
}
