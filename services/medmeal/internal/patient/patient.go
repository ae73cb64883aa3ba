package patient

import "github.com/appetiteclub/medmeal/pkg/enums/diettype"

const (
	OrderStatusNone    = "NONE"
	OrderStatusOrdered = "ORDERED"
)

// Patient is a person receiving meals on a ward.
type Patient struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Room          string         `json:"room"`
	Bed           string         `json:"bed"`
	DietType      diettype.Diet  `json:"diet_type"`
	WardID        string         `json:"ward_id"`
	OrderStatus   string         `json:"order_status"`
	Allergies     []string       `json:"allergies,omitempty"`
	MedicalNote   string         `json:"medical_note,omitempty"`
	NutritionGoal *NutritionGoal `json:"nutrition_goal,omitempty"`
}

// NutritionGoal overrides the default daily targets for a patient.
type NutritionGoal struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

type Ward struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p Patient) HasOrdered() bool {
	return p.OrderStatus == OrderStatusOrdered
}

func (p Patient) clone() Patient {
	c := p
	if p.Allergies != nil {
		c.Allergies = append([]string(nil), p.Allergies...)
	}
	if p.NutritionGoal != nil {
		goal := *p.NutritionGoal
		c.NutritionGoal = &goal
	}
	return c
}
