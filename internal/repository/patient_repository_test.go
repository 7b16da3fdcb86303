package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/clinic-whatsapp/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPatientRepository(db)
	ctx := context.Background()

	birth := time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, &model.Patient{Name: "Ana Souza", Phone: "(11) 98765-4321", BirthDate: &birth})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotZero(t, created.CreatedAt)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", got.Name)
	assert.Equal(t, "(11) 98765-4321", got.Phone)
	require.NotNil(t, got.BirthDate)
	assert.True(t, birth.Equal(*got.BirthDate))
}

func TestPatientRepository_GetByID_NotFound(t *testing.T) {
	repo := NewPatientRepository(setupTestDB(t))

	got, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)
}

func TestPatientRepository_WithinTransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPatientRepository(db)
	ctx := context.Background()

	var id int64
	err := db.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := repo.Create(ctx, &model.Patient{Name: "Temp"})
		if err != nil {
			return err
		}
		id = p.ID
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
