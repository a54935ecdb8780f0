// File: services/conversation/messages.go
package conversation

import (
	"fmt"
	"strings"

	"ragchat/models"
)

const (
	msgParseFailure = "Sorry, I couldn't read your booking details. " +
		"Please send your name, email, date (YYYY-MM-DD) and time (HH:MM:SS) again."
	msgTimeFormat   = "Please give the interview time in 24-hour HH:MM:SS format, for example 15:00:00."
	msgNotPersisted = "Sorry, your booking was NOT confirmed because it could not be saved. Please try again later."
	msgApology      = "Sorry, something went wrong while processing your message. Please try again."
)

func missingFieldsMessage(fields []string) string {
	return fmt.Sprintf("To book your interview I still need your %s.", strings.Join(fields, ", "))
}

func invalidFieldsMessage(fields []string) string {
	return fmt.Sprintf("Some booking details look invalid: %s. Please check them and send them again.", strings.Join(fields, ", "))
}

func duplicateMessage(date, clock string) string {
	return fmt.Sprintf("Your booking was NOT confirmed: you already have an interview booked on %s at %s.", date, clock)
}

func confirmationMessage(record *models.BookingRecord) string {
	return fmt.Sprintf("Your interview is booked, %s, on %s at %s. Booking ID: %s.",
		record.Name, record.Date, record.Time, record.ID)
}
