package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bobarin/voicescript/internal/models"
	"github.com/bobarin/voicescript/internal/payment"
	"github.com/bobarin/voicescript/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// PaymentGateway is what the checkout route needs from a payment integration.
type PaymentGateway interface {
	Status() models.PaymentStatus
	Checkout(ctx context.Context, order payment.Order) (redirectURL string, err error)
}

type Handler struct {
	generator *services.Generator
	payments  PaymentGateway
	validate  *validator.Validate
	demoMode  bool
	log       logrus.FieldLogger
}

func NewHandler(gen *services.Generator, payments PaymentGateway, demoMode bool, log logrus.FieldLogger) *Handler {
	return &Handler{
		generator: gen,
		payments:  payments,
		validate:  validator.New(),
		demoMode:  demoMode,
		log:       log.WithField("component", "api"),
	}
}

// Health handles GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthResponse{OK: true, Demo: h.demoMode})
}

// GenerateScript handles POST /api/generate-script
func (h *Handler) GenerateScript(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateScriptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badRequest(w, r, "Invalid request body", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, "language and topic are required", err)
		return
	}

	outcome, err := h.generator.GenerateScript(r.Context(), req.GenerationRequest, req.MaxTokens)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if !outcome.Parsed() {
		respondJSON(w, http.StatusOK, models.UnparsedScriptResponse{
			OK:      false,
			Raw:     outcome.Raw,
			Message: outcome.Message,
		})
		return
	}

	respondJSON(w, http.StatusOK, models.ScriptResponse{OK: true, Data: *outcome.Result})
}

// GenerateVoice handles POST /api/generate-voice
func (h *Handler) GenerateVoice(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateVoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badRequest(w, r, "Invalid request body", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, services.ErrTextRequired.Error(), err)
		return
	}

	voice, err := h.generator.GenerateVoice(r.Context(), req.Text, req.Language, req.Voice)
	if err != nil {
		h.generationError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.VoiceResponse{OK: true, URL: voice.URL})
}

// Generate handles POST /api/generate. The route is closed outright when demo
// mode is off, before the body is read.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if !h.demoMode {
		h.requestLog(r, nil).Warn("combined generation refused outside demo mode")
		respondError(w, http.StatusForbidden, "payment required")
		return
	}

	var req models.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badRequest(w, r, "Invalid request body", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, "language and topic are required", err)
		return
	}

	outcome, err := h.generator.Generate(r.Context(), req.GenerationRequest, req.Voice)
	if err != nil {
		h.generationError(w, r, err)
		return
	}

	if outcome.Result == nil {
		respondJSON(w, http.StatusOK, models.UnparsedScriptResponse{
			OK:      false,
			Raw:     outcome.Script.Raw,
			Message: outcome.Script.Message,
		})
		return
	}

	respondJSON(w, http.StatusOK, models.GenerateResponse{OK: true, Data: *outcome.Result})
}

// Checkout handles POST /api/payment/checkout. It never succeeds.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	status := h.payments.Status()
	if status == models.PaymentStatusDisabled {
		respondJSON(w, http.StatusOK, models.PaymentResponse{
			OK:      false,
			Status:  status,
			Message: "Payments are disabled",
		})
		return
	}

	orderID := uuid.NewString()
	_, err := h.payments.Checkout(r.Context(), payment.Order{ID: orderID})
	if err != nil && !errors.Is(err, payment.ErrNotImplemented) {
		h.serverError(w, r, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"request_id": RequestID(r.Context()),
		"order_id":   orderID,
	}).Warn("checkout requested but gateway is not implemented")

	respondJSON(w, http.StatusOK, models.PaymentResponse{
		OK:      false,
		Status:  status,
		Message: "Payment gateway integration is not implemented yet",
		OrderID: orderID,
	})
}

// generationError maps generator errors: missing text is the caller's fault,
// anything else is a server error.
func (h *Handler) generationError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrTextRequired) {
		h.badRequest(w, r, services.ErrTextRequired.Error(), err)
		return
	}
	h.serverError(w, r, err)
}

// badRequest logs why the request was rejected and answers 400 with message.
func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.requestLog(r, err).Warn("request rejected")
	respondError(w, http.StatusBadRequest, message)
}

// serverError logs the full error and returns a generic message.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.requestLog(r, err).Error("request failed")
	respondError(w, http.StatusInternalServerError, "server error")
}

func (h *Handler) requestLog(r *http.Request, err error) logrus.FieldLogger {
	fields := logrus.Fields{
		"request_id": RequestID(r.Context()),
		"route":      r.URL.Path,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return h.log.WithFields(fields)
}

// decodeJSON reads the request body into v. An empty body decodes as {} so
// that field validation reports what is missing.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{OK: false, Error: message})
}
