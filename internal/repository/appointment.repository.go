package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/clinic-whatsapp/internal/model"
	"github.com/nimasrn/clinic-whatsapp/pkg/pg"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	*pg.DB
}

func NewAppointmentRepository(db *pg.DB) *AppointmentRepository {
	return &AppointmentRepository{
		db,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) (*model.Appointment, error) {
	entity := toAppointmentEntity(a)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toAppointmentModel(entity), nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	var entity AppointmentEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAppointmentModel(&entity), nil
}
