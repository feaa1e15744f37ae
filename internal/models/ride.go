package models

import (
	"time"
)

// Canonical ride statuses. These are what the dashboards offer, but the
// status column is an open string: officers may set any non-empty value
// and the store never validates against a closed set.
const (
	RideStatusPending   = "Pending"
	RideStatusAccepted  = "Accepted"
	RideStatusCompleted = "Completed"
	RideStatusCancelled = "Cancelled"
	RideStatusRejected  = "Rejected"
)

// KnownStatuses lists the canonical values in dashboard order.
var KnownStatuses = []string{
	RideStatusPending,
	RideStatusAccepted,
	RideStatusCompleted,
	RideStatusCancelled,
	RideStatusRejected,
}

type Ride struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Pickup        string    `db:"pickup" json:"pickup"`
	Dropoff       string    `db:"dropoff" json:"dropoff"`
	RequestedTime string    `db:"requested_time" json:"requested_time"`
	Reason        *string   `db:"reason" json:"reason,omitempty"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type SubmitRideRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Pickup        string `json:"pickup" validate:"required,min=1,max=200"`
	Dropoff       string `json:"dropoff" validate:"required,min=1,max=200"`
	RequestedTime string `json:"requested_time" validate:"required,min=1,max=64"`
	Phone         string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Reason        string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,min=1,max=64"`
}

type RideResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	Pickup        string    `json:"pickup"`
	Dropoff       string    `json:"dropoff"`
	RequestedTime string    `json:"requested_time"`
	Reason        *string   `json:"reason,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r *Ride) ToResponse() *RideResponse {
	return &RideResponse{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Pickup:        r.Pickup,
		Dropoff:       r.Dropoff,
		RequestedTime: r.RequestedTime,
		Reason:        r.Reason,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
