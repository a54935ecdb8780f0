package routes

import (
	"time"

	"ragchat/handlers"
	"ragchat/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the chat endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chat")
	{
		api.POST("/query", hb.ChatQueryHandler)
		api.GET("/:sessionID/history", hb.GetHistoryHandler)
		api.GET("/:sessionID/booking", hb.GetLastBookingHandler)
		api.GET("/:sessionID/transcript", hb.GetTranscriptHandler)
	}

	admin := r.Group("/api/chat")
	{
		admin.Use(middleware.JWTAuthAdminMiddleware(hb.JWTSecret))
		admin.DELETE("/:sessionID/history", hb.ClearHistoryHandler)
	}
}

// RegisterBookingRoutes sets up the direct booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.POST("", hb.CreateBookingHandler)
		bookingGroup.GET("", hb.ListBookingsHandler)
		bookingGroup.GET("/:id", hb.GetBookingHandler)
	}
}

// RegisterIngestionRoutes sets up document upload, restricted to admins.
func RegisterIngestionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	ingestGroup := r.Group("/api/ingest")
	{
		ingestGroup.Use(middleware.JWTAuthAdminMiddleware(hb.JWTSecret))
		ingestGroup.POST("/upload", hb.UploadDocumentHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterIngestionRoutes(r, hb)
}
