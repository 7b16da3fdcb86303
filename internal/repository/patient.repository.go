package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/clinic-whatsapp/internal/model"
	"github.com/nimasrn/clinic-whatsapp/pkg/pg"
	"gorm.io/gorm"
)

type PatientRepository struct {
	*pg.DB
}

func NewPatientRepository(db *pg.DB) *PatientRepository {
	return &PatientRepository{
		db,
	}
}

func (r *PatientRepository) Create(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	entity := toPatientEntity(p)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toPatientModel(entity), nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id int64) (*model.Patient, error) {
	var entity PatientEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toPatientModel(&entity), nil
}
