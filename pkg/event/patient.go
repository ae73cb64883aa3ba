package event

import "time"

const (
	PatientsTopic           = "medmeal.patients"
	EventPatientDietChanged = "patient.diet.changed"
)

type PatientDietChangedEvent struct {
	EventType    string    `json:"event_type"`
	OccurredAt   time.Time `json:"occurred_at"`
	PatientID    string    `json:"patient_id"`
	PatientName  string    `json:"patient_name,omitempty"`
	NewDiet      string    `json:"new_diet"`
	PreviousDiet string    `json:"previous_diet"`
}
