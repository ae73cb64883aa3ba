package diettype

type Diet struct {
	Name string
}

func (d Diet) Code() string {
	return d.Name
}

func (d Diet) Label() string {
	switch d.Name {
	case "STANDARD":
		return "Cơm thường"
	case "DIABETIC":
		return "Tiểu đường"
	case "LIQUID":
		return "Ăn lỏng / Cháo"
	case "LOW_SODIUM":
		return "Ít muối / Thận"
	}
	return d.Name
}

type Enum struct {
	Standard  Diet
	Diabetic  Diet
	Liquid    Diet
	LowSodium Diet
}

var Diets = Enum{
	Standard:  Diet{Name: "STANDARD"},
	Diabetic:  Diet{Name: "DIABETIC"},
	Liquid:    Diet{Name: "LIQUID"},
	LowSodium: Diet{Name: "LOW_SODIUM"},
}

var All = []Diet{
	Diets.Standard,
	Diets.Diabetic,
	Diets.Liquid,
	Diets.LowSodium,
}

// ByName returns the diet for a given name, or nil if not found
func ByName(name string) *Diet {
	for _, d := range All {
		if d.Name == name {
			return &d
		}
	}
	return nil
}

func (d Diet) MarshalText() ([]byte, error) {
	return []byte(d.Name), nil
}

// UnmarshalText keeps unknown names as-is; use ByName to validate.
func (d *Diet) UnmarshalText(text []byte) error {
	d.Name = string(text)
	return nil
}
