package repository

import (
	"context"
	"time"

	"github.com/nimasrn/clinic-whatsapp/internal/model"
	"github.com/nimasrn/clinic-whatsapp/pkg/pg"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
)

type MessageRepository struct {
	*pg.DB
	now func() time.Time
}

func NewMessageRepository(db *pg.DB) *MessageRepository {
	return &MessageRepository{
		DB:  db,
		now: time.Now,
	}
}

// Create stores msg. SentAt is parsed when given, otherwise the current time
// is used.
func (r *MessageRepository) Create(ctx context.Context, msg *model.MessageRecord) (*model.MessageRecord, error) {
	sentAt := r.now().UTC()
	if msg.SentAt != "" {
		t, err := time.Parse(sentAtLayout, msg.SentAt)
		if err != nil {
			return nil, err
		}
		sentAt = t.UTC()
	}

	entity := toMessageEntity(msg, sentAt)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	created := toMessageModel(entity)
	return &created, nil
}

// List returns one page of a patient's messages. Rows come back newest
// first so that pages are stable, callers still apply the display order.
func (r *MessageRepository) List(ctx context.Context, f model.MessageFilter) ([]model.MessageRecord, error) {
	q := r.filtered(ctx, f)

	limit := f.Limit
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*MessageEntity
	if err := q.Order("sent_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, err
	}
	return toMessageModels(entities), nil
}

// Count returns how many messages match f, ignoring its page bounds.
func (r *MessageRepository) Count(ctx context.Context, f model.MessageFilter) (int64, error) {
	var total int64
	err := r.filtered(ctx, f).Count(&total).Error
	return total, err
}

func (r *MessageRepository) filtered(ctx context.Context, f model.MessageFilter) *gorm.DB {
	q := r.Read(ctx).Model(&MessageEntity{}).Where("patient_id = ?", f.PatientID)
	if f.Direction != nil {
		q = q.Where("direction = ?", string(*f.Direction))
	}
	return q
}
