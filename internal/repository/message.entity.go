package repository

import (
	"time"

	"github.com/nimasrn/clinic-whatsapp/internal/model"
)

type MessageEntity struct {
	ID        int64          `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	PatientID int64          `db:"patient_id" gorm:"column:patient_id;not null;index"`
	Patient   *PatientEntity `gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE"`
	Direction string         `db:"direction"  gorm:"column:direction;not null;default:'outbound'"`
	Template  string         `db:"template"   gorm:"column:template;not null;default:''"`
	Body      string         `db:"body"       gorm:"column:body;not null"`
	SentAt    time.Time      `db:"sent_at"    gorm:"column:sent_at;not null;index"`
}

func (MessageEntity) TableName() string {
	return "messages"
}

// sentAtLayout is how send times leave the storage layer.
const sentAtLayout = time.RFC3339Nano

func toMessageEntity(m *model.MessageRecord, sentAt time.Time) *MessageEntity {
	if m == nil {
		return nil
	}
	direction := string(m.Direction)
	if direction == "" {
		direction = string(model.DirectionOutbound)
	}
	return &MessageEntity{
		ID:        m.ID,
		PatientID: m.PatientID,
		Direction: direction,
		Template:  m.Template,
		Body:      m.Body,
		SentAt:    sentAt,
	}
}

func toMessageModel(e *MessageEntity) model.MessageRecord {
	return model.MessageRecord{
		ID:        e.ID,
		PatientID: e.PatientID,
		Direction: model.MessageDirection(e.Direction),
		Template:  e.Template,
		Body:      e.Body,
		SentAt:    e.SentAt.UTC().Format(sentAtLayout),
	}
}

func toMessageModels(entities []*MessageEntity) []model.MessageRecord {
	models := make([]model.MessageRecord, len(entities))
	for i, e := range entities {
		models[i] = toMessageModel(e)
	}
	return models
}
