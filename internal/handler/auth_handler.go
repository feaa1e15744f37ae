package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campusops/tigerpatrol/internal/models"
	"github.com/campusops/tigerpatrol/internal/service"
	"github.com/campusops/tigerpatrol/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
}

// POST /v1/auth/register
//
// Self-registration is for officers only. Admin accounts are provisioned
// from config at startup and never through this endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	account, err := h.authService.Register(r.Context(), req.Username, req.Password, models.RoleOfficer)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, account.ToResponse())
}

// POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	token, err := h.authService.Login(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, token)
}
