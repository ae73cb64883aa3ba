package aggregate

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/appetiteclub/medmeal/pkg/enums/diettype"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/apperr"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/catalog"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/ledger"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/patient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartTotal(t *testing.T) {
	tests := []struct {
		name string
		cart ledger.Cart
		want int64
	}{
		{name: "empty", cart: ledger.Cart{}, want: 0},
		{
			name: "mixed",
			cart: ledger.Cart{Lines: []ledger.CartLine{
				{Item: catalog.MenuItem{ID: "m1", Price: 45000}, Quantity: 2},
				{Item: catalog.MenuItem{ID: "m3", Price: 35000}, Quantity: 1},
			}},
			want: 125000,
		},
		{
			name: "saturatesOnOverflow",
			cart: ledger.Cart{Lines: []ledger.CartLine{
				{Item: catalog.MenuItem{ID: "m1", Price: math.MaxInt64 / 2}, Quantity: 1},
				{Item: catalog.MenuItem{ID: "m2", Price: math.MaxInt64 / 2}, Quantity: 2},
			}},
			want: math.MaxInt64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CartTotal(tt.cart))
		})
	}
}

func TestDailyNutritionCompletedOrderOnDay(t *testing.T) {
	f := newFixture()

	// ORD-001 was completed a day before the fixed clock.
	summary, err := f.engine.DailyNutrition("P2", fixedClock().AddDate(0, 0, -1))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Orders)
	assert.InDelta(t, 450, summary.Calories, 0.001)
	assert.InDelta(t, 25, summary.Protein, 0.001)
	assert.InDelta(t, 6, summary.Fiber, 0.001)
	assert.Equal(t, float64(DefaultCalorieGoal), summary.CalorieGoal)
	assert.Equal(t, float64(DefaultProteinGoal), summary.ProteinGoal)
}

func TestDailyNutritionIgnoresOpenOrders(t *testing.T) {
	f := newFixture()

	summary, err := f.engine.DailyNutrition("P2", fixedClock())
	require.NoError(t, err)

	assert.Zero(t, summary.Orders)
	assert.Zero(t, summary.Calories)
	assert.Equal(t, "2025-03-14", summary.Date)
}

func TestDailyNutritionCountsQuantity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o, err := f.ledger.PlaceOrder(ctx, ledger.PlaceOrderRequest{
		PatientID: "P3",
		Lines:     []ledger.LineRequest{{MenuItemID: "m2", Quantity: 2}},
	})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.ledger.Advance(ctx, o.ID)
		require.NoError(t, err)
	}

	summary, err := f.engine.DailyNutrition("P3", fixedClock())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Orders)
	assert.InDelta(t, 840, summary.Calories, 0.001)
	assert.InDelta(t, 44, summary.Protein, 0.001)
	assert.InDelta(t, 11, summary.Fiber, 0.001)
}

func TestDailyNutritionUsesPatientGoal(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.registry.Add(patient.Patient{
		ID:            "P9",
		Name:          "Phạm Văn D",
		Room:          "402",
		Bed:           "B3",
		DietType:      diettype.Diets.LowSodium,
		NutritionGoal: &patient.NutritionGoal{Calories: 1800, Protein: 60},
	}))

	summary, err := f.engine.DailyNutrition("P9", fixedClock())
	require.NoError(t, err)
	assert.Equal(t, 1800.0, summary.CalorieGoal)
	assert.Equal(t, 60.0, summary.ProteinGoal)
}

func TestDailyNutritionUnknownPatient(t *testing.T) {
	f := newFixture()

	_, err := f.engine.DailyNutrition("P404", fixedClock())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestProductionSummary(t *testing.T) {
	f := newFixture()

	lines := f.engine.Production(ledger.Filter{})

	require.Len(t, lines, 3)
	assert.Equal(t, ProductionLine{MenuItemID: "m1", Name: lines[0].Name, Quantity: 2}, lines[0])
	assert.Equal(t, "m2", lines[1].MenuItemID)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, "m3", lines[2].MenuItemID)
	assert.Equal(t, 2, lines[2].Quantity)
}

func TestProductionSummaryEmpty(t *testing.T) {
	lines := ProductionSummary(nil)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestPatientStats(t *testing.T) {
	f := newFixture()

	stats := f.engine.PatientStats()
	assert.Equal(t, PatientStats{Total: 3, Ordered: 2, Pending: 1}, stats)

	_, err := f.ledger.PlaceOrder(context.Background(), ledger.PlaceOrderRequest{
		PatientID: "P3",
		Lines:     []ledger.LineRequest{{MenuItemID: "m3", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, PatientStats{Total: 3, Ordered: 3, Pending: 0}, f.engine.PatientStats())
}
