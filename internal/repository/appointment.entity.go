package repository

import (
	"time"

	"github.com/nimasrn/clinic-whatsapp/internal/model"
)

type AppointmentEntity struct {
	ID               int64          `db:"id"                gorm:"primaryKey;autoIncrement;column:id"`
	PatientID        int64          `db:"patient_id"        gorm:"column:patient_id;not null;index"`
	Patient          *PatientEntity `gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE"`
	ProfessionalName string         `db:"professional_name" gorm:"column:professional_name;not null;default:''"`
	StartsAt         time.Time      `db:"starts_at"         gorm:"column:starts_at;not null"`
	Status           string         `db:"status"            gorm:"column:status;not null;default:'scheduled'"`
}

func (AppointmentEntity) TableName() string {
	return "appointments"
}

func toAppointmentEntity(m *model.Appointment) *AppointmentEntity {
	if m == nil {
		return nil
	}
	status := string(m.Status)
	if status == "" {
		status = string(model.AppointmentScheduled)
	}
	return &AppointmentEntity{
		ID:               m.ID,
		PatientID:        m.PatientID,
		ProfessionalName: m.ProfessionalName,
		StartsAt:         m.StartsAt,
		Status:           status,
	}
}

func toAppointmentModel(e *AppointmentEntity) *model.Appointment {
	if e == nil {
		return nil
	}
	return &model.Appointment{
		ID:               e.ID,
		PatientID:        e.PatientID,
		ProfessionalName: e.ProfessionalName,
		StartsAt:         e.StartsAt,
		Status:           model.AppointmentStatus(e.Status),
	}
}
