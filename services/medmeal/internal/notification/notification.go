package notification

import "time"

type Type string

const (
	TypeOrder   Type = "ORDER"
	TypeMedical Type = "MEDICAL"
	TypeSystem  Type = "SYSTEM"
)

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}
