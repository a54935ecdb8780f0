package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ragchat/database/repository/bookingRepo"
	"ragchat/models"
	"ragchat/services/booking"
	"ragchat/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingCommitter persists a validated booking.
type BookingCommitter interface {
	Commit(ctx context.Context, validated booking.ValidatedBooking) (*models.BookingRecord, error)
}

type BookingHandler struct {
	Committer BookingCommitter
	Repo      bookingRepo.BookingRepository
}

func NewBookingHandler(committer BookingCommitter, repo bookingRepo.BookingRepository) *BookingHandler {
	return &BookingHandler{Committer: committer, Repo: repo}
}

// CreateBookingHandler books an interview directly, bypassing the chat.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := getLogger(c)

	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	validated, err := booking.ExtractAndValidate(booking.Ready{
		Name:  input.Name,
		Email: input.Email,
		Date:  input.Date,
		Time:  input.Time,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking", "fields": invalidFields(err), "details": err.Error()})
		return
	}

	record, err := h.Committer.Commit(c.Request.Context(), validated)
	if err != nil {
		var perr *booking.PersistenceError
		if errors.As(err, &perr) && perr.Duplicate() {
			c.JSON(http.StatusConflict, gin.H{"error": "booking already exists for this email, date and time"})
			return
		}
		logger.Error("Failed to create booking", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "booking was not created", err.Error())
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetBookingHandler returns one booking by ID.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	id := c.Param("id")
	record, err := h.Repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if err != nil {
		getLogger(c).Error("Failed to fetch booking", zap.String("booking_id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListBookingsHandler lists the bookings held by ?email=.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}
	records, err := h.Repo.GetByEmail(c.Request.Context(), email)
	if err != nil {
		getLogger(c).Error("Failed to list bookings", zap.String("email", email), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings", err.Error())
		return
	}
	if records == nil {
		records = []models.BookingRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"email": email, "bookings": records})
}

func invalidFields(err error) []string {
	var (
		missing *booking.MissingFieldsError
		invalid *booking.InvalidFieldsError
		badTime *booking.UnparseableTimeError
	)
	switch {
	case errors.As(err, &missing):
		return missing.Fields
	case errors.As(err, &invalid):
		return invalid.Fields
	case errors.As(err, &badTime):
		return []string{"time"}
	}
	return nil
}
