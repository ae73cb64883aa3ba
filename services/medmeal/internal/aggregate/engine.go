package aggregate

import (
	"math"
	"time"

	"github.com/appetiteclub/medmeal/pkg/enums/orderstatus"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/ledger"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/patient"
)

const (
	DefaultCalorieGoal = 2200
	DefaultProteinGoal = 75

	// FiberPerCarbGram is a rough estimate, not a nutritional fact.
	FiberPerCarbGram = 0.1
)

type Orders interface {
	List(filter ledger.Filter) []ledger.Order
}

type Patients interface {
	Get(id string) (patient.Patient, error)
	List(search string) []patient.Patient
}

// Engine derives read-only views. Nothing is cached; every call recomputes
// from the current state.
type Engine struct {
	orders   Orders
	patients Patients
}

func NewEngine(orders Orders, patients Patients) *Engine {
	return &Engine{orders: orders, patients: patients}
}

type DailyNutrition struct {
	PatientID   string  `json:"patient_id"`
	Date        string  `json:"date"`
	Orders      int     `json:"orders"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Fiber       float64 `json:"fiber"` // estimated
	CalorieGoal float64 `json:"calorie_goal"`
	ProteinGoal float64 `json:"protein_goal"`
}

type ProductionLine struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

type PatientStats struct {
	Total   int `json:"total"`
	Ordered int `json:"ordered"`
	Pending int `json:"pending"`
}

// CartTotal sums price times quantity over the cart lines. A total that does
// not fit in an int64 saturates at math.MaxInt64; checkout rejects such carts.
func CartTotal(cart ledger.Cart) int64 {
	var total int64
	for _, l := range cart.Lines {
		price, qty := l.Item.Price, int64(l.Quantity)
		if price <= 0 || qty <= 0 {
			continue
		}
		if qty > math.MaxInt64/price || total > math.MaxInt64-price*qty {
			return math.MaxInt64
		}
		total += price * qty
	}
	return total
}

// DailyNutrition totals the patient's completed orders created on asOf's
// calendar day, in asOf's location.
func (e *Engine) DailyNutrition(patientID string, asOf time.Time) (DailyNutrition, error) {
	p, err := e.patients.Get(patientID)
	if err != nil {
		return DailyNutrition{}, err
	}

	completed := orderstatus.Statuses.Completed
	orders := e.orders.List(ledger.Filter{PatientID: patientID, Status: &completed})

	result := DailyNutrition{
		PatientID:   p.ID,
		Date:        asOf.Format(time.DateOnly),
		CalorieGoal: DefaultCalorieGoal,
		ProteinGoal: DefaultProteinGoal,
	}
	if p.NutritionGoal != nil {
		result.CalorieGoal = p.NutritionGoal.Calories
		result.ProteinGoal = p.NutritionGoal.Protein
	}

	for _, o := range orders {
		if !sameDay(o.CreatedAt, asOf) {
			continue
		}
		result.Orders++
		for _, li := range o.Items {
			qty := float64(li.Quantity)
			result.Calories += li.Item.Calories * qty
			result.Protein += li.Item.Protein * qty
			result.Fiber += li.Item.Carbs * FiberPerCarbGram * qty
		}
	}
	return result, nil
}

func sameDay(t, asOf time.Time) bool {
	y1, m1, d1 := t.In(asOf.Location()).Date()
	y2, m2, d2 := asOf.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ProductionSummary counts units per menu item across orders, in the order
// items are first seen.
func ProductionSummary(orders []ledger.Order) []ProductionLine {
	index := make(map[string]int)
	lines := make([]ProductionLine, 0)
	for _, o := range orders {
		for _, li := range o.Items {
			if i, ok := index[li.Item.ID]; ok {
				lines[i].Quantity += li.Quantity
				continue
			}
			index[li.Item.ID] = len(lines)
			lines = append(lines, ProductionLine{
				MenuItemID: li.Item.ID,
				Name:       li.Item.Name,
				Quantity:   li.Quantity,
			})
		}
	}
	return lines
}

func ComputePatientStats(patients []patient.Patient) PatientStats {
	stats := PatientStats{Total: len(patients)}
	for _, p := range patients {
		if p.HasOrdered() {
			stats.Ordered++
		}
	}
	stats.Pending = stats.Total - stats.Ordered
	return stats
}

// Production summarizes the orders matching filter.
func (e *Engine) Production(filter ledger.Filter) []ProductionLine {
	return ProductionSummary(e.orders.List(filter))
}

// PatientStats summarizes every registered patient.
func (e *Engine) PatientStats() PatientStats {
	return ComputePatientStats(e.patients.List(""))
}
