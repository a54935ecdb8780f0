// Command tests seeds a local database with sample interview bookings and
// prints an admin token for the ingestion endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ragchat/config"
	"ragchat/database"
	"ragchat/database/repository/bookingRepo"
	"ragchat/utils"
)

var samples = []struct {
	name, email string
	dayOffset   int
	clock       string
}{
	{"Ann Achieng", "ann@example.com", 1, "09:00:00"},
	{"Brian Otieno", "brian@example.com", 1, "11:30:00"},
	{"Cleo Wanjiru", "cleo@example.com", 2, "15:00:00"},
}

func main() {
	config.LoadConfig()
	database.InitDB()
	repo := bookingRepo.NewMongoBookingRepo(database.Database())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure booking indexes: %v", err)
	}

	for _, s := range samples {
		date := time.Now().AddDate(0, 0, s.dayOffset).Format("2006-01-02")
		rec, err := repo.Create(ctx, s.name, s.email, date, s.clock)
		if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
			log.Printf("Skipping %s on %s %s: already booked", s.email, date, s.clock)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to seed booking for %s: %v", s.email, err)
		}
		log.Printf("Seeded booking %s for %s on %s at %s", rec.ID, rec.Name, rec.Date, rec.Time)
	}

	if config.AppConfig.JWTSecret == "" {
		log.Println("JWT_SECRET is empty; no admin token issued")
		return
	}
	token, err := utils.GenerateToken([]byte(config.AppConfig.JWTSecret), "seed", "admin", 24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to sign admin token: %v", err)
	}
	fmt.Println(token)
}
