package repository

import (
	"time"

	"github.com/nimasrn/clinic-whatsapp/internal/model"
)

type PatientEntity struct {
	ID        int64      `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name      string     `db:"name"       gorm:"column:name;not null"`
	Phone     string     `db:"phone"      gorm:"column:phone;not null;default:''"`
	BirthDate *time.Time `db:"birth_date" gorm:"column:birth_date"`
	CreatedAt time.Time  `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (PatientEntity) TableName() string {
	return "patients"
}

func toPatientEntity(m *model.Patient) *PatientEntity {
	if m == nil {
		return nil
	}
	return &PatientEntity{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		BirthDate: m.BirthDate,
		CreatedAt: m.CreatedAt,
	}
}

func toPatientModel(e *PatientEntity) *model.Patient {
	if e == nil {
		return nil
	}
	return &model.Patient{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		BirthDate: e.BirthDate,
		CreatedAt: e.CreatedAt,
	}
}
