package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nimasrn/clinic-whatsapp/internal/model"
	"github.com/nimasrn/clinic-whatsapp/internal/repository"
	"github.com/nimasrn/clinic-whatsapp/internal/whatsapp"
	"github.com/nimasrn/clinic-whatsapp/pkg/logger"
	"github.com/nimasrn/clinic-whatsapp/pkg/prom"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDuplicateClick      = errors.New("message was already recorded moments ago")
	ErrEmptyBody           = errors.New("message body is empty")
	ErrInvalidRequest      = errors.New("invalid request")
)

const (
	dateLayout = "02/01"
	timeLayout = "15:04"
)

type PatientRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Patient, error)
}

type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *model.MessageRecord) (*model.MessageRecord, error)
	List(ctx context.Context, f model.MessageFilter) ([]model.MessageRecord, error)
	Count(ctx context.Context, f model.MessageFilter) (int64, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ClickGuard reports whether key was free and claims it. Release frees a
// claim whose write did not go through.
type ClickGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type Options struct {
	ClinicName string
	Location   *time.Location
	Links      *whatsapp.LinkBuilder

	// HistoryLimit caps the page size of History.
	HistoryLimit int
}

type WhatsAppService struct {
	patients     PatientRepository
	appointments AppointmentRepository
	messages     MessageRepository
	tx           Transactor
	guard        ClickGuard
	clinicName   string
	location     *time.Location
	links        *whatsapp.LinkBuilder
	historyLimit int
}

// NewWhatsAppService wires the service. guard may be nil, in which case
// every click is recorded.
func NewWhatsAppService(patients PatientRepository, appointments AppointmentRepository, messages MessageRepository, tx Transactor, guard ClickGuard, opts Options) *WhatsAppService {
	s := &WhatsAppService{
		patients:     patients,
		appointments: appointments,
		messages:     messages,
		tx:           tx,
		guard:        guard,
		clinicName:   opts.ClinicName,
		location:     opts.Location,
		links:        opts.Links,
		historyLimit: opts.HistoryLimit,
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.links == nil {
		s.links, _ = whatsapp.NewLinkBuilder("")
	}
	return s
}

// PrepareLink renders the requested template for the patient and returns the
// click-to-chat link. Nothing is stored.
func (s *WhatsAppService) PrepareLink(ctx context.Context, req model.LinkRequest) (*model.ChatLink, error) {
	tt, err := whatsapp.ParseTemplateType(req.Template)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	patient, err := s.patient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	tctx := whatsapp.Context{
		PatientName: patient.FirstName(),
		ClinicName:  s.clinicName,
		Custom:      req.Custom,
	}
	if req.AppointmentID != nil {
		appt, err := s.appointment(ctx, *req.AppointmentID, patient.ID)
		if err != nil {
			return nil, err
		}
		startsAt := appt.StartsAt.In(s.location)
		tctx.Date = startsAt.Format(dateLayout)
		tctx.Time = startsAt.Format(timeLayout)
		tctx.ProfessionalName = appt.ProfessionalName
	}
	if req.Date != "" {
		tctx.Date = req.Date
	}
	if req.Time != "" {
		tctx.Time = req.Time
	}

	message := whatsapp.Render(tt, tctx)

	phone, err := s.NormalizePhone(patient.Phone)
	if err != nil {
		logger.Warn("patient phone cannot be normalized", "patient_id", patient.ID, "error", err)
		return nil, err
	}

	url, err := s.links.Build(phone, message)
	if err != nil {
		return nil, err
	}

	prom.IncLinkPrepared(tt.String())
	logger.Debug("whatsapp link prepared", "patient_id", patient.ID, "template", tt.String())

	return &model.ChatLink{
		URL:      url,
		Phone:    phone,
		Message:  message,
		Template: tt.String(),
	}, nil
}

// NormalizePhone exposes the phone normalizer and counts failures by reason.
func (s *WhatsAppService) NormalizePhone(raw string) (string, error) {
	phone, err := whatsapp.Normalize(raw)
	if err != nil {
		var nerr *whatsapp.NormalizationError
		if errors.As(err, &nerr) {
			prom.IncNormalizationFailure(nerr.Reason)
		}
		return "", err
	}
	return phone, nil
}

// RecordOutbound stores a message the staff has just sent through a chat
// link. The same body for the same patient is recorded once per guard window.
func (s *WhatsAppService) RecordOutbound(ctx context.Context, req model.MessageRecordCreateRequest) (*model.MessageRecord, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, ErrEmptyBody
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	var template string
	if strings.TrimSpace(req.Template) != "" {
		tt, err := whatsapp.ParseTemplateType(req.Template)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		template = tt.String()
	}

	key := clickKey(req.PatientID, req.Body)
	claimed := false
	if s.guard != nil {
		ok, err := s.guard.Acquire(ctx, key)
		switch {
		case err != nil:
			// recording twice is better than not recording
			logger.Warn("click guard unavailable", "patient_id", req.PatientID, "error", err)
		case !ok:
			prom.IncDuplicateClick()
			return nil, ErrDuplicateClick
		default:
			claimed = true
		}
	}

	var created *model.MessageRecord
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.patient(ctx, req.PatientID); err != nil {
			return err
		}
		msg, err := s.messages.Create(ctx, &model.MessageRecord{
			PatientID: req.PatientID,
			Direction: model.DirectionOutbound,
			Template:  template,
			Body:      req.Body,
		})
		if err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		created = msg
		return nil
	})
	if err != nil {
		if claimed {
			if rerr := s.guard.Release(ctx, key); rerr != nil {
				logger.Warn("click guard release failed", "patient_id", req.PatientID, "error", rerr)
			}
		}
		return nil, err
	}

	prom.IncMessageRecorded()
	logger.Info("outbound message recorded", "patient_id", req.PatientID, "message_id", created.ID, "template", template)
	return created, nil
}

// History returns one page of the patient's messages, most recent first.
// A record with an unparsable send time fails the whole call with a
// *whatsapp.TimestampParseError.
func (s *WhatsAppService) History(ctx context.Context, f model.MessageFilter) ([]model.MessageRecord, int64, error) {
	if _, err := s.patient(ctx, f.PatientID); err != nil {
		return nil, 0, err
	}

	if s.historyLimit > 0 && (f.Limit <= 0 || f.Limit > s.historyLimit) {
		f.Limit = s.historyLimit
	}

	records, err := s.messages.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	total, err := s.messages.Count(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	sorted, err := whatsapp.SortDescending(records)
	if err != nil {
		prom.IncHistoryDataError()
		logger.Error("message history has invalid data", "patient_id", f.PatientID, "error", err)
		return nil, 0, err
	}
	return sorted, total, nil
}

// Templates lists the names accepted by PrepareLink.
func (s *WhatsAppService) Templates() []string {
	types := whatsapp.TemplateTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

func (s *WhatsAppService) patient(ctx context.Context, id int64) (*model.Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (s *WhatsAppService) appointment(ctx context.Context, id, patientID int64) (*model.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if a.PatientID != patientID {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

func clickKey(patientID int64, body string) string {
	sum := sha256.Sum256([]byte(body))
	return fmt.Sprintf("click:%d:%s", patientID, hex.EncodeToString(sum[:8]))
}
