package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/nimasrn/clinic-whatsapp/internal/model"
	"github.com/nimasrn/clinic-whatsapp/internal/services"
	"github.com/nimasrn/clinic-whatsapp/internal/whatsapp"
	xhttp "github.com/nimasrn/clinic-whatsapp/pkg/http"
	"github.com/nimasrn/clinic-whatsapp/pkg/logger"
)

type WhatsAppService interface {
	PrepareLink(ctx context.Context, req model.LinkRequest) (*model.ChatLink, error)
	RecordOutbound(ctx context.Context, req model.MessageRecordCreateRequest) (*model.MessageRecord, error)
	History(ctx context.Context, f model.MessageFilter) ([]model.MessageRecord, int64, error)
	NormalizePhone(raw string) (string, error)
	Templates() []string
}

type WhatsAppHandler struct {
	svc WhatsAppService
}

func RegisterWhatsAppRoutes(e *router.Group, h *WhatsAppHandler) {
	e.POST("/whatsapp/normalize", h.NormalizePhone)
	e.GET("/whatsapp/templates", h.ListTemplates)
	e.POST("/patients/{id}/whatsapp/link", h.PrepareLink)
	e.POST("/patients/{id}/messages", h.RecordMessage)
	e.GET("/patients/{id}/messages", h.ListMessages)
}

func NewWhatsAppHandler(svc WhatsAppService) *WhatsAppHandler {
	return &WhatsAppHandler{
		svc: svc,
	}
}

type normalizeRequest struct {
	Phone string `json:"phone"`
}

type normalizeResponse struct {
	Phone string `json:"phone"`
}

type templatesResponse struct {
	Items []string `json:"items"`
}

type linkRequest struct {
	Template      string `json:"template"`
	AppointmentID *int64 `json:"appointment_id,omitempty"`
	Custom        string `json:"custom,omitempty"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
}

type recordMessageRequest struct {
	Template string `json:"template,omitempty"`
	Body     string `json:"body"`
}

type listResponse struct {
	Items []model.MessageRecord `json:"items"`
	Total int64                 `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *WhatsAppHandler) NormalizePhone(ctx *xhttp.RequestCtx) {
	var req normalizeRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	phone, err := h.svc.NormalizePhone(req.Phone)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, normalizeResponse{Phone: phone})
}

func (h *WhatsAppHandler) ListTemplates(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, xhttp.StatusOK, templatesResponse{Items: h.svc.Templates()})
}

func (h *WhatsAppHandler) PrepareLink(ctx *xhttp.RequestCtx) {
	patientID, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	var req linkRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	link, err := h.svc.PrepareLink(ctx, model.LinkRequest{
		PatientID:     patientID,
		AppointmentID: req.AppointmentID,
		Template:      req.Template,
		Custom:        req.Custom,
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, link)
}

func (h *WhatsAppHandler) RecordMessage(ctx *xhttp.RequestCtx) {
	patientID, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	var req recordMessageRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	msg, err := h.svc.RecordOutbound(ctx, model.MessageRecordCreateRequest{
		PatientID: patientID,
		Template:  req.Template,
		Body:      req.Body,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, msg)
}

func (h *WhatsAppHandler) ListMessages(ctx *xhttp.RequestCtx) {
	patientID, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	f := model.MessageFilter{PatientID: patientID}
	if v := query(ctx, "direction"); v != "" {
		d := model.MessageDirection(v)
		if d != model.DirectionOutbound && d != model.DirectionInbound {
			writeError(ctx, xhttp.StatusBadRequest, "invalid direction "+strconv.Quote(v))
			return
		}
		f.Direction = &d
	}
	if f.Limit, err = queryInt(ctx, "limit"); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	if f.Offset, err = queryInt(ctx, "offset"); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.svc.History(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if items == nil {
		items = []model.MessageRecord{}
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse{Items: items, Total: total})
}

// writeServiceError maps service and core errors to a status code. Anything
// unknown is a storage or data failure and is not echoed to the client.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	var (
		nerr *whatsapp.NormalizationError
		lerr *whatsapp.LinkBuildError
		terr *whatsapp.TimestampParseError
	)
	switch {
	case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, services.ErrEmptyBody):
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrPatientNotFound), errors.Is(err, services.ErrAppointmentNotFound):
		writeError(ctx, xhttp.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateClick):
		writeError(ctx, xhttp.StatusConflict, err.Error())
	case errors.As(err, &nerr), errors.As(err, &lerr):
		writeError(ctx, xhttp.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &terr):
		logger.Error("history data error", "request_id", xhttp.RequestID(ctx), "error", err)
		writeError(ctx, xhttp.StatusInternalServerError, "message history contains an invalid timestamp")
	default:
		logger.Error("request failed", "request_id", xhttp.RequestID(ctx), "path", string(ctx.Path()), "error", err)
		writeError(ctx, xhttp.StatusInternalServerError, xhttp.StatusText(xhttp.StatusInternalServerError))
	}
}

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	v, _ := ctx.UserValue(name).(string)
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return id, nil
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

// queryInt returns 0 for an absent key and rejects anything but a
// non-negative integer.
func queryInt(ctx *xhttp.RequestCtx, key string) (int, error) {
	v := query(ctx, key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}
