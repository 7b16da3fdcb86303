package repository

import (
	"context"
	"testing"

	"github.com/nimasrn/clinic-whatsapp/internal/model"
	"github.com/nimasrn/clinic-whatsapp/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *pg.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, otherwise every new connection sees an empty :memory: db
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return pg.New(db, db)
}

func createTestPatient(t *testing.T, db *pg.DB, name, phone string) *model.Patient {
	t.Helper()
	p, err := NewPatientRepository(db).Create(context.Background(), &model.Patient{Name: name, Phone: phone})
	require.NoError(t, err)
	return p
}
