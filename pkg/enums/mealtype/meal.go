package mealtype

type Meal struct {
	Name string
}

func (m Meal) Code() string {
	return m.Name
}

func (m Meal) Label() string {
	switch m.Name {
	case "ALL":
		return "Tất cả"
	case "BREAKFAST":
		return "Bữa sáng"
	case "LUNCH":
		return "Bữa trưa"
	case "DINNER":
		return "Bữa tối"
	case "SNACK":
		return "Bữa phụ"
	}
	return m.Name
}

// Matches reports whether an item of category m passes filter f.
// The ALL filter and the zero value match every category.
func (m Meal) Matches(f Meal) bool {
	if f.Name == "" || f == Meals.All {
		return true
	}
	return m == f
}

type Enum struct {
	All       Meal
	Breakfast Meal
	Lunch     Meal
	Dinner    Meal
	Snack     Meal
}

var Meals = Enum{
	All:       Meal{Name: "ALL"},
	Breakfast: Meal{Name: "BREAKFAST"},
	Lunch:     Meal{Name: "LUNCH"},
	Dinner:    Meal{Name: "DINNER"},
	Snack:     Meal{Name: "SNACK"},
}

var All = []Meal{
	Meals.All,
	Meals.Breakfast,
	Meals.Lunch,
	Meals.Dinner,
	Meals.Snack,
}

// ByName returns the meal category for a given name, or nil if not found
func ByName(name string) *Meal {
	for _, m := range All {
		if m.Name == name {
			return &m
		}
	}
	return nil
}

func (m Meal) MarshalText() ([]byte, error) {
	return []byte(m.Name), nil
}

// UnmarshalText keeps unknown names as-is; use ByName to validate.
func (m *Meal) UnmarshalText(text []byte) error {
	m.Name = string(text)
	return nil
}
