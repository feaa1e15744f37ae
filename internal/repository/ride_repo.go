package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/campusops/tigerpatrol/internal/models"
	"github.com/jmoiron/sqlx"
)

type RideRepository interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id int64) (*models.Ride, error)
	ListAll(ctx context.Context) ([]*models.Ride, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Ride, error)
}

type rideRepository struct {
	db *sqlx.DB
}

func NewRideRepository(db *sqlx.DB) RideRepository {
	return &rideRepository{db: db}
}

// Create inserts a new ride and fills in the generated id. The id column is
// BIGSERIAL, so identifiers are monotonically increasing and never reused.
func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = ride.CreatedAt
	if ride.Status == "" {
		ride.Status = models.RideStatusPending
	}

	query := `
		INSERT INTO rides (name, email, phone, pickup, dropoff, requested_time, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.db.QueryRowxContext(ctx, query,
		ride.Name, ride.Email, ride.Phone, ride.Pickup, ride.Dropoff,
		ride.RequestedTime, ride.Reason, ride.Status, ride.CreatedAt, ride.UpdatedAt).
		Scan(&ride.ID)
}

func (r *rideRepository) GetByID(ctx context.Context, id int64) (*models.Ride, error) {
	var ride models.Ride
	query := `SELECT * FROM rides WHERE id = $1`
	err := r.db.GetContext(ctx, &ride, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &ride, err
}

func (r *rideRepository) ListAll(ctx context.Context) ([]*models.Ride, error) {
	rides := []*models.Ride{}
	query := `SELECT * FROM rides ORDER BY created_at DESC, id DESC`
	err := r.db.SelectContext(ctx, &rides, query)
	return rides, err
}

// UpdateStatus sets the status in a single statement and returns the updated
// row, or nil when the id does not exist. Setting the same status again is a
// successful no-op; concurrent writers are last-writer-wins.
func (r *rideRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Ride, error) {
	var ride models.Ride
	query := `UPDATE rides SET status = $1, updated_at = $2 WHERE id = $3 RETURNING *`
	err := r.db.GetContext(ctx, &ride, query, status, time.Now(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &ride, err
}
