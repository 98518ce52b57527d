package analyzer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ginjaninja78/estados-de-cuenta/internal/ledger"
	"github.com/ginjaninja78/estados-de-cuenta/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSource is a mock implementation of SheetSource.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) SheetNames() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockSource) Load(name string) (*types.Worksheet, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Worksheet), args.Error(1)
}

func artist(name string, index int, balance float64) *types.Worksheet {
	return types.FromValues(name, index, [][]any{
		{nil, "Nombre Legal:", nil, nil, name + " Legal"},
		{"Fecha", "Concepto", "Monto", "Avance", "Balance"},
		{time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "Factura", 100, nil, 100},
		{time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), "Pago", -30, 10, balance},
	})
}

func defaultConfig() Config {
	return Config{
		SkipSheets:     []string{"Base de datos", "MODELO"},
		MaxConcurrency: 2,
		Options:        ledger.DefaultOptions(),
	}
}

func TestRunSkipsNonArtistSheets(t *testing.T) {
	src := new(MockSource)
	src.On("SheetNames").Return([]string{"Base de datos", "Artist1"})
	src.On("Load", "Artist1").Return(artist("Artist1", 1, 70), nil)

	overview, err := Run(context.Background(), src, defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"Base de datos"}, overview.Skipped)
	require.Len(t, overview.Sheets, 1)
	assert.Equal(t, "Artist1", overview.Sheets[0].Sheet)
	assert.Equal(t, 1, overview.Sheets[0].Index)
	assert.True(t, overview.Totals.Balance.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, 1, overview.Totals.Artists)

	src.AssertExpectations(t)
	src.AssertNotCalled(t, "Load", "Base de datos")
}

func TestRunKeepsWorkbookOrder(t *testing.T) {
	names := make([]string, 12)
	src := new(MockSource)
	for i := range names {
		names[i] = fmt.Sprintf("Artist%02d", i)
		src.On("Load", names[i]).Return(artist(names[i], i, float64(i)), nil)
	}
	src.On("SheetNames").Return(names)

	cfg := defaultConfig()
	cfg.MaxConcurrency = 3

	overview, err := Run(context.Background(), src, cfg)
	require.NoError(t, err)

	require.Len(t, overview.Sheets, len(names))
	for i, r := range overview.Sheets {
		assert.Equal(t, names[i], r.Sheet)
		require.NotNil(t, r.Statement)
		assert.Equal(t, names[i]+" Legal", r.Statement.Info.LegalName())
	}

	// 0 + 1 + ... + 11
	assert.Equal(t, "66", overview.Totals.Balance.String())
	assert.Equal(t, 24, overview.Totals.Transactions)
	assert.Equal(t, "1200", overview.Totals.Income.String())
	assert.Equal(t, "360", overview.Totals.Expenses.String())
	assert.Equal(t, "120", overview.Totals.Advances.String())
}

func TestRunSheetWithoutLedger(t *testing.T) {
	src := new(MockSource)
	src.On("SheetNames").Return([]string{"Artist1", "Notas"})
	src.On("Load", "Artist1").Return(artist("Artist1", 0, 50), nil)
	src.On("Load", "Notas").Return(types.FromValues("Notas", 2, [][]any{{"libre"}}), nil)

	overview, err := Run(context.Background(), src, defaultConfig())
	require.NoError(t, err)

	// A sheet without a ledger still counts as an artist.
	notas := overview.Sheets[1]
	require.NotNil(t, notas.Statement)
	assert.False(t, notas.Statement.HasLedger())
	assert.NotEmpty(t, notas.Warnings)

	assert.Equal(t, 2, overview.Totals.Artists)
	assert.Equal(t, "50", overview.Totals.Balance.String())
	assert.Len(t, overview.Statements(), 2)
}

func TestRunAbortsOnUnreadableSheet(t *testing.T) {
	boom := errors.New("corrupt sheet")

	src := new(MockSource)
	src.On("SheetNames").Return([]string{"Artist1", "Broken", "Artist2"})
	src.On("Load", "Artist1").Return(artist("Artist1", 0, 50), nil)
	src.On("Load", "Broken").Return(nil, boom)

	overview, err := Run(context.Background(), src, defaultConfig())
	require.Error(t, err)
	assert.Nil(t, overview)

	var sheetErr *SheetError
	require.ErrorAs(t, err, &sheetErr)
	assert.Equal(t, "Broken", sheetErr.Sheet)
	assert.ErrorIs(t, err, boom)

	src.AssertNotCalled(t, "Load", "Artist2")
}

func TestRunCancelled(t *testing.T) {
	src := new(MockSource)
	src.On("SheetNames").Return([]string{"Artist1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, src, defaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
	src.AssertNotCalled(t, "Load", mock.Anything)
}

func TestReduceIgnoresMissingBalances(t *testing.T) {
	withBalance := &ledger.Statement{Summary: ledger.FinancialSummary{
		Transactions: 2,
		HasBalance:   true,
		FinalBalance: decimal.NewFromInt(40),
	}}
	withoutBalance := &ledger.Statement{Summary: ledger.FinancialSummary{
		Transactions: 3,
		FinalBalance: decimal.NewFromInt(999),
	}}

	a := Reduce([]SheetResult{{Statement: withBalance}, {Statement: withoutBalance}})
	b := Reduce([]SheetResult{{Statement: withoutBalance}, {Statement: withBalance}})

	assert.Equal(t, a.Transactions, b.Transactions)
	assert.True(t, a.Balance.Equal(b.Balance))
	assert.Equal(t, 5, a.Transactions)
	assert.Equal(t, "40", a.Balance.String())
}
