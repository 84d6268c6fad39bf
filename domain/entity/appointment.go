package entity

// Appointment statuses as reported by the backend.
const (
	AppointmentPending   = "en_attente"
	AppointmentConfirmed = "confirme"
	AppointmentCancelled = "annule"
)

// Appointment is a scheduled consultation with an advisor.
type Appointment struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Conseiller string `json:"conseiller"`
	Date       string `json:"date"`
	Creneau    string `json:"creneau"`
	Motif      string `json:"motif"`
	Statut     string `json:"statut"`
	Notes      string `json:"notes,omitempty"`
}

func (a *Appointment) IsCancelled() bool {
	return a.Statut == AppointmentCancelled
}

// Slot is one bookable time window on a given day.
type Slot struct {
	Creneau    string `json:"creneau"`
	Disponible bool   `json:"disponible"`
}
