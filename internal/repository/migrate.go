package repository

import "gorm.io/gorm"

// AutoMigrate creates the tables from the entities. Production schemas are
// managed by the goose migrations, this is for sqlite-backed tests and local
// tooling.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&PatientEntity{}, &AppointmentEntity{}, &MessageEntity{})
}
