// File: database/repository/bookingRepo/interface.go
package bookingRepo

import (
	"context"
	"errors"

	"ragchat/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateBooking is returned when the same email already holds the slot.
	ErrDuplicateBooking = errors.New("booking already exists for this email, date and time")
	// ErrInvalidBooking is returned when the input fails the store's own checks.
	ErrInvalidBooking = errors.New("invalid booking input")
	// ErrBookingNotFound is returned by lookups that match nothing.
	ErrBookingNotFound = errors.New("booking not found")
)

type BookingRepository interface {
	Create(ctx context.Context, name, email, date, clock string) (*models.BookingRecord, error)
	GetByID(ctx context.Context, id string) (*models.BookingRecord, error)
	GetByEmail(ctx context.Context, email string) ([]models.BookingRecord, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{
		coll: db.Collection("interview_bookings"),
	}
}
