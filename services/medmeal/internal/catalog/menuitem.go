package catalog

import (
	"github.com/appetiteclub/medmeal/pkg/enums/diettype"
	"github.com/appetiteclub/medmeal/pkg/enums/mealtype"
)

// MenuItem is a dish served by the hospital kitchen. Only InStock and Price
// change after seeding.
type MenuItem struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Calories    float64       `json:"calories"`
	Protein     float64       `json:"protein"`
	Carbs       float64       `json:"carbs"`
	Fat         float64       `json:"fat"`
	Price       int64         `json:"price"` // VND
	Image       string        `json:"image"`
	DietType    diettype.Diet `json:"diet_type"`
	MealType    mealtype.Meal `json:"meal_type"`
	Available   bool          `json:"available"`
	InStock     bool          `json:"in_stock"`
}

// Orderable reports whether the item can be put in a cart right now.
func (m MenuItem) Orderable() bool {
	return m.Available && m.InStock
}
