// File: ragchat/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	JWTSecret string

	// Chat endpoints
	ChatQueryHandler      gin.HandlerFunc
	GetHistoryHandler     gin.HandlerFunc
	ClearHistoryHandler   gin.HandlerFunc
	GetLastBookingHandler gin.HandlerFunc
	GetTranscriptHandler  gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler gin.HandlerFunc
	GetBookingHandler    gin.HandlerFunc
	ListBookingsHandler  gin.HandlerFunc

	// Ingestion endpoints
	UploadDocumentHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}
