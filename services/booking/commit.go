package booking

import (
	"context"

	"ragchat/database/repository/bookingRepo"
	"ragchat/models"

	"go.uber.org/zap"
)

// Committer persists validated bookings. It never retries.
type Committer struct {
	repo   bookingRepo.BookingRepository
	logger *zap.Logger
}

func NewCommitter(repo bookingRepo.BookingRepository, logger *zap.Logger) *Committer {
	return &Committer{repo: repo, logger: logger}
}

// Commit creates exactly one record or returns a *PersistenceError.
func (c *Committer) Commit(ctx context.Context, validated ValidatedBooking) (*models.BookingRecord, error) {
	record, err := c.repo.Create(ctx, validated.Name, validated.Email, validated.Date, validated.Time)
	if err != nil {
		c.logger.Error("Failed to persist booking",
			zap.String("email", validated.Email),
			zap.String("date", validated.Date),
			zap.String("time", validated.Time),
			zap.Error(err))
		return nil, &PersistenceError{Err: err}
	}
	c.logger.Info("Booking committed", zap.String("bookingID", record.ID))
	return record, nil
}
