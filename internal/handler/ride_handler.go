package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "github.com/campusops/tigerpatrol/internal/errors"
	"github.com/campusops/tigerpatrol/internal/middleware"
	"github.com/campusops/tigerpatrol/internal/models"
	"github.com/campusops/tigerpatrol/internal/service"
	"github.com/campusops/tigerpatrol/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type RideHandler struct {
	rideService service.RideService
	validate    *validator.Validate
}

func NewRideHandler(rideService service.RideService) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		validate:    validator.New(),
	}
}

// RegisterPublicRoutes mounts the student-facing submission endpoint.
func (h *RideHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/rides", h.SubmitRide)
}

// RegisterStaffRoutes mounts the officer/admin dashboard endpoints. The
// caller wraps these in the role middleware; none of them may be reachable
// without a session.
func (h *RideHandler) RegisterStaffRoutes(r chi.Router) {
	r.Get("/rides", h.ListRides)
	r.Get("/rides/{id}", h.GetRide)
	r.Post("/rides/{id}/status", h.UpdateStatus)
}

// POST /v1/rides
func (h *RideHandler) SubmitRide(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ride, err := h.rideService.Submit(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, ride.ToResponse())
}

// GET /v1/rides
func (h *RideHandler) ListRides(w http.ResponseWriter, r *http.Request) {
	rides, err := h.rideService.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	responses := make([]*models.RideResponse, 0, len(rides))
	for _, ride := range rides {
		responses = append(responses, ride.ToResponse())
	}

	utils.Success(w, http.StatusOK, responses)
}

// GET /v1/rides/{id}
func (h *RideHandler) GetRide(w http.ResponseWriter, r *http.Request) {
	id, err := parseRideID(r)
	if err != nil {
		utils.BadRequest(w, "invalid ride id")
		return
	}

	ride, err := h.rideService.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, ride.ToResponse())
}

// POST /v1/rides/{id}/status
func (h *RideHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseRideID(r)
	if err != nil {
		utils.BadRequest(w, "invalid ride id")
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())

	ride, err := h.rideService.Transition(r.Context(), id, req.Status, claims.Role)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, ride.ToResponse())
}

func parseRideID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*apperrors.APIError); ok {
		utils.Error(w, apiErr)
		return
	}

	switch err {
	case apperrors.ErrForbidden:
		utils.Error(w, apperrors.Forbidden("officer or admin role required"))
	case apperrors.ErrDuplicateUsername:
		utils.Error(w, apperrors.DuplicateUsername())
	case apperrors.ErrInvalidCredentials:
		utils.Error(w, apperrors.InvalidCredentials())
	case apperrors.ErrNotFound:
		utils.NotFound(w, "resource")
	default:
		utils.InternalError(w, "internal server error")
	}
}
