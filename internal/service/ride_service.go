package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/campusops/tigerpatrol/internal/errors"
	"github.com/campusops/tigerpatrol/internal/models"
	"github.com/campusops/tigerpatrol/internal/notify"
	"github.com/campusops/tigerpatrol/internal/repository"
)

type RideService interface {
	Submit(ctx context.Context, req *models.SubmitRideRequest) (*models.Ride, error)
	Get(ctx context.Context, id int64) (*models.Ride, error)
	List(ctx context.Context) ([]*models.Ride, error)
	Transition(ctx context.Context, id int64, newStatus, actorRole string) (*models.Ride, error)
}

type rideService struct {
	rideRepo repository.RideRepository
	notifier notify.Notifier
}

func NewRideService(rideRepo repository.RideRepository, notifier notify.Notifier) RideService {
	return &rideService{
		rideRepo: rideRepo,
		notifier: notifier,
	}
}

// Submit creates a new ride request in status Pending and sends the
// requester a "request received" notification once the row is durable.
func (s *rideService) Submit(ctx context.Context, req *models.SubmitRideRequest) (*models.Ride, error) {
	required := []struct {
		field string
		value string
	}{
		{"name", req.Name},
		{"email", req.Email},
		{"pickup", req.Pickup},
		{"dropoff", req.Dropoff},
		{"requested_time", req.RequestedTime},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, apperrors.BadRequest(fmt.Sprintf("%s is required", f.field))
		}
	}

	ride := &models.Ride{
		Name:          req.Name,
		Email:         req.Email,
		Pickup:        req.Pickup,
		Dropoff:       req.Dropoff,
		RequestedTime: req.RequestedTime,
		Status:        models.RideStatusPending,
	}
	if req.Phone != "" {
		ride.Phone = &req.Phone
	}
	if req.Reason != "" {
		ride.Reason = &req.Reason
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, ride.Email,
		"Tiger Patrol Request Received",
		fmt.Sprintf("Your ride request #%d from %s to %s has been received and is pending review.",
			ride.ID, ride.Pickup, ride.Dropoff))

	return ride, nil
}

func (s *rideService) Get(ctx context.Context, id int64) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, apperrors.NotFound("ride")
	}
	return ride, nil
}

func (s *rideService) List(ctx context.Context) ([]*models.Ride, error) {
	return s.rideRepo.ListAll(ctx)
}

// Transition sets a ride's status on behalf of an officer or admin and
// notifies the requester. The status domain is open: any non-empty string
// is accepted, transitions between any pair of values are allowed, and
// re-applying the current status is a successful no-op. The notification
// is dispatched only after the new status is persisted and its failure
// never reverses the write.
func (s *rideService) Transition(ctx context.Context, id int64, newStatus, actorRole string) (*models.Ride, error) {
	if actorRole != models.RoleOfficer && actorRole != models.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if strings.TrimSpace(newStatus) == "" {
		return nil, apperrors.BadRequest("status is required")
	}

	ride, err := s.rideRepo.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, apperrors.NotFound("ride")
	}

	s.notifier.Notify(ctx, ride.Email,
		"Tiger Patrol Request Updated",
		fmt.Sprintf("Your ride request #%d is now %s.", ride.ID, ride.Status))

	return ride, nil
}
