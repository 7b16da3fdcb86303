package model

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	ID               int64             `json:"id"`
	PatientID        int64             `json:"patient_id"`
	ProfessionalName string            `json:"professional_name"`
	StartsAt         time.Time         `json:"starts_at"`
	Status           AppointmentStatus `json:"status"`
}
