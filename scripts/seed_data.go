//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/campusops/tigerpatrol/internal/config"
	"github.com/campusops/tigerpatrol/internal/database"
	"github.com/campusops/tigerpatrol/internal/models"
	"github.com/campusops/tigerpatrol/internal/repository"
	"github.com/campusops/tigerpatrol/internal/service"
)

var (
	names = []string{"Alice Carter", "Ben Osei", "Chloe Tran", "Dev Patel", "Emma Ruiz",
		"Felix Wong", "Grace Kim", "Hassan Ali", "Ivy Chen", "Jake Miller"}
	spots = []string{"Library", "Dorm A", "Dorm B", "Science Hall", "Student Center",
		"Gym", "North Lot", "Art Building", "Dining Commons", "Stadium"}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBMaxIdleConnections)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	rideRepo := repository.NewRideRepository(db.DB)
	accountRepo := repository.NewAccountRepository(db.DB)
	authService := service.NewAuthService(accountRepo, cfg.JWTSigningKey, cfg.JWTIssuer, time.Hour)

	// Create a few officer accounts
	log.Println("Creating 3 officers...")
	for i := 1; i <= 3; i++ {
		username := fmt.Sprintf("officer%d", i)
		if _, err := authService.Register(ctx, username, "patrol-pass-123", models.RoleOfficer); err != nil {
			log.Printf("Failed to create %s: %v", username, err)
		}
	}

	// Create sample rides across the canonical statuses
	log.Println("Creating 25 rides...")
	created := 0
	for i := 0; i < 25; i++ {
		name := names[rand.Intn(len(names))]
		pickup := spots[rand.Intn(len(spots))]
		dropoff := spots[rand.Intn(len(spots))]
		for dropoff == pickup {
			dropoff = spots[rand.Intn(len(spots))]
		}

		ride := &models.Ride{
			Name:          name,
			Email:         fmt.Sprintf("student%d@example.edu", i),
			Pickup:        pickup,
			Dropoff:       dropoff,
			RequestedTime: time.Now().Add(time.Duration(rand.Intn(72)) * time.Hour).Format("2006-01-02T15:04"),
			Status:        models.RideStatusPending,
		}

		if err := rideRepo.Create(ctx, ride); err != nil {
			log.Printf("Failed to create ride: %v", err)
			continue
		}
		created++

		// Move some rides past Pending
		if rand.Intn(2) == 0 {
			status := models.KnownStatuses[1+rand.Intn(len(models.KnownStatuses)-1)]
			if _, err := rideRepo.UpdateStatus(ctx, ride.ID, status); err != nil {
				log.Printf("Failed to update ride %d: %v", ride.ID, err)
			}
		}
	}

	log.Printf("Created %d rides", created)
}
