package model

// LinkRequest asks for a click-to-chat link for one patient. Date and Time
// override the values taken from the appointment.
type LinkRequest struct {
	PatientID     int64
	AppointmentID *int64
	Template      string
	Custom        string
	Date          string
	Time          string
}

// ChatLink is a prepared link. It is derived on demand and never stored.
type ChatLink struct {
	URL      string `json:"url"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	Template string `json:"template"`
}
