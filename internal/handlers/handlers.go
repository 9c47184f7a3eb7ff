package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/booking"
	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/cx-tal-miterani/table-booking/internal/validation"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	bookingService booking.Service
	logger         *zap.Logger
	location       *time.Location
	now            func() time.Time
}

// NewHandler creates a new Handler instance. loc decides which calendar day
// "today" is when a request does not name one.
func NewHandler(bookingService booking.Service, logger *zap.Logger, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		bookingService: bookingService,
		logger:         logger,
		location:       loc,
		now:            time.Now,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// GetAvailability handles GET /api/availability
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	date := h.today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := models.ParseDate(raw, h.location)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Date must be formatted as YYYY-MM-DD")
			return
		}
		date = parsed
	}

	resp, err := h.bookingService.Availability(r.Context(), date, r.URL.Query().Get("selected"))
	if err != nil {
		h.logger.Error("Failed to load availability",
			zap.String("date", date.Format(models.DateLayout)),
			zap.Error(err))
		respondError(w, http.StatusBadGateway, "Availability is temporarily unavailable")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	form := models.NewBookingForm(h.today())
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	confirmed, err := h.bookingService.Submit(r.Context(), form)
	if err != nil {
		if fe, ok := validation.AsFieldErrors(err); ok {
			h.logger.Debug("Booking failed validation", zap.Error(err))
			respondJSON(w, http.StatusUnprocessableEntity, models.ValidationErrorResponse{
				Error:  "Validation failed",
				Fields: fe,
			})
			return
		}
		if errors.Is(err, booking.ErrSubmissionRejected) {
			respondError(w, http.StatusBadGateway, booking.MessageSubmitRejected)
			return
		}
		h.logger.Error("Error submitting booking", zap.Error(err))
		respondError(w, http.StatusBadGateway, booking.MessageSubmitErrored)
		return
	}

	respondJSON(w, http.StatusCreated, models.BookingResponse{
		Booking:  confirmed,
		Redirect: booking.ConfirmationPath,
		Message:  booking.MessageSubmitted,
	})
}

// GetBookings handles GET /api/bookings
func (h *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ConfirmedBookings(r.Context())
	if err != nil {
		h.logger.Error("Failed to list bookings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to load bookings")
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   h.now().Format(time.RFC3339),
	})
}

func (h *Handler) today() time.Time {
	now := h.now().In(h.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.location)
}
