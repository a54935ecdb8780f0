package models

import "time"

// BookingRecord represents a committed interview booking.
type BookingRecord struct {
	ID        string    `bson:"id" json:"id"`                 // Unique booking identifier (UUID)
	Name      string    `bson:"name" json:"name"`             // Candidate name
	Email     string    `bson:"email" json:"email"`           // Candidate email
	Date      string    `bson:"date" json:"date"`             // Interview date in "YYYY-MM-DD" format
	Time      string    `bson:"time" json:"time"`             // Interview time in "HH:MM:SS" 24-hour format
	CreatedAt time.Time `bson:"created_at" json:"created_at"` // Timestamp when booking was created
}

// BookingInput is the payload of the direct booking endpoint.
type BookingInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Date  string `json:"date" binding:"required"`
	Time  string `json:"time" binding:"required"`
}
