package orderstatus

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	if label, ok := labels[s.Name]; ok {
		return label
	}
	return s.Name
}

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == Statuses.Completed || s == Statuses.Cancelled
}

type Enum struct {
	Pending    Status
	Cooking    Status
	Delivering Status
	Completed  Status
	Cancelled  Status
}

var Statuses = Enum{
	Pending:    Status{Name: "PENDING"},
	Cooking:    Status{Name: "COOKING"},
	Delivering: Status{Name: "DELIVERING"},
	Completed:  Status{Name: "COMPLETED"},
	Cancelled:  Status{Name: "CANCELLED"},
}

var All = []Status{
	Statuses.Pending,
	Statuses.Cooking,
	Statuses.Delivering,
	Statuses.Completed,
	Statuses.Cancelled,
}

var labels = map[string]string{
	"PENDING":    "Chờ xác nhận",
	"COOKING":    "Đang chế biến",
	"DELIVERING": "Đang giao",
	"COMPLETED":  "Hoàn thành",
	"CANCELLED":  "Đã hủy",
}

// transitions lists the allowed edges. Anything absent is rejected.
var transitions = map[Status][]Status{
	Statuses.Pending:    {Statuses.Cooking, Statuses.Cancelled},
	Statuses.Cooking:    {Statuses.Delivering, Statuses.Cancelled},
	Statuses.Delivering: {Statuses.Completed, Statuses.Cancelled},
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

// CanTransition reports whether from -> to is an edge of the lifecycle.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next returns the following status on the linear path, or false when s is
// terminal.
func Next(s Status) (Status, bool) {
	switch s {
	case Statuses.Pending:
		return Statuses.Cooking, true
	case Statuses.Cooking:
		return Statuses.Delivering, true
	case Statuses.Delivering:
		return Statuses.Completed, true
	default:
		return Status{}, false
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.Name), nil
}

// UnmarshalText keeps unknown names as-is; use ByName to validate.
func (s *Status) UnmarshalText(text []byte) error {
	s.Name = string(text)
	return nil
}
