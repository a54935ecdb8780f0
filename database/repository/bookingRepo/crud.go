// File: database/repository/bookingRepo/crud.go
package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ragchat/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var validate = validator.New()

type bookingRow struct {
	Name  string `validate:"required,min=2"`
	Email string `validate:"required,email"`
	Date  string `validate:"required,datetime=2006-01-02"`
	Time  string `validate:"required,len=8,datetime=15:04:05"`
}

// Create validates and inserts one booking, returning the stored record.
func (r *mongoBookingRepo) Create(ctx context.Context, name, email, date, clock string) (*models.BookingRecord, error) {
	if err := validate.Struct(bookingRow{Name: name, Email: email, Date: date, Time: clock}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}

	record := models.BookingRecord{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Date:      date,
		Time:      clock,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return &record, nil
}

// GetByID returns a booking by its ID.
func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.BookingRecord, error) {
	var record models.BookingRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByEmail lists every booking held by an email, oldest first.
func (r *mongoBookingRepo) GetByEmail(ctx context.Context, email string) ([]models.BookingRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.BookingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
