package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campusops/tigerpatrol/internal/auth"
	"github.com/campusops/tigerpatrol/internal/middleware"
	"github.com/campusops/tigerpatrol/internal/models"
	"github.com/campusops/tigerpatrol/internal/service"
	"github.com/go-chi/chi/v5"
)

type memRideRepo struct {
	rides  map[int64]*models.Ride
	nextID int64
}

func (f *memRideRepo) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = f.nextID
	f.nextID++
	stored := *ride
	f.rides[ride.ID] = &stored
	return nil
}

func (f *memRideRepo) GetByID(ctx context.Context, id int64) (*models.Ride, error) {
	ride, ok := f.rides[id]
	if !ok {
		return nil, nil
	}
	copied := *ride
	return &copied, nil
}

func (f *memRideRepo) ListAll(ctx context.Context) ([]*models.Ride, error) {
	out := make([]*models.Ride, 0, len(f.rides))
	for _, ride := range f.rides {
		copied := *ride
		out = append(out, &copied)
	}
	return out, nil
}

func (f *memRideRepo) UpdateStatus(ctx context.Context, id int64, status string) (*models.Ride, error) {
	ride, ok := f.rides[id]
	if !ok {
		return nil, nil
	}
	ride.Status = status
	copied := *ride
	return &copied, nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, contact, subject, body string) {}

const (
	testKey    = "test-signing-key"
	testIssuer = "tigerpatrol-test"
)

func newTestRouter(t *testing.T) (*chi.Mux, *memRideRepo) {
	t.Helper()

	repo := &memRideRepo{rides: make(map[int64]*models.Ride), nextID: 1}
	rideHandler := NewRideHandler(service.NewRideService(repo, noopNotifier{}))

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		rideHandler.RegisterPublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(testKey, testIssuer, models.RoleOfficer, models.RoleAdmin))
			rideHandler.RegisterStaffRoutes(r)
		})
	})
	return r, repo
}

func officerToken(t *testing.T) string {
	t.Helper()
	token, _, err := auth.Issue("officer1", models.RoleOfficer, testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func TestSubmitRide(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			"valid submission",
			`{"name":"Alice","email":"alice@example.edu","pickup":"Library","dropoff":"Dorm A","requested_time":"2024-01-01T20:00"}`,
			http.StatusCreated,
		},
		{
			"bad json",
			`{"name":`,
			http.StatusBadRequest,
		},
		{
			"missing pickup",
			`{"name":"Alice","email":"alice@example.edu","dropoff":"Dorm A","requested_time":"2024-01-01T20:00"}`,
			http.StatusBadRequest,
		},
		{
			"invalid email",
			`{"name":"Alice","email":"not-an-email","pickup":"Library","dropoff":"Dorm A","requested_time":"2024-01-01T20:00"}`,
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t)

			req := httptest.NewRequest(http.MethodPost, "/v1/rides", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantStatus == http.StatusCreated {
				var resp models.RideResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("response did not decode: %v", err)
				}
				if resp.Status != models.RideStatusPending {
					t.Errorf("status = %q, want Pending", resp.Status)
				}
				if resp.ID == 0 {
					t.Error("response has no id")
				}
			}
		})
	}
}

func TestStaffRoutesRequireSession(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/v1/rides", "/v1/rides/1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without session: status = %d, want 401", path, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/rides/1/status", strings.NewReader(`{"status":"Accepted"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status update without session: status = %d, want 401", rec.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	router, repo := newTestRouter(t)
	token := officerToken(t)

	// Seed one ride through the public endpoint
	submit := httptest.NewRequest(http.MethodPost, "/v1/rides",
		strings.NewReader(`{"name":"Alice","email":"alice@example.edu","pickup":"Library","dropoff":"Dorm A","requested_time":"2024-01-01T20:00"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, submit)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed submit failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/rides/1/status", strings.NewReader(`{"status":"Accepted"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if repo.rides[1].Status != "Accepted" {
		t.Errorf("persisted status = %q, want Accepted", repo.rides[1].Status)
	}

	// Unknown ride id surfaces as 404, not success
	req = httptest.NewRequest(http.MethodPost, "/v1/rides/999/status", strings.NewReader(`{"status":"Accepted"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}

	// Non-numeric id is a bad request
	req = httptest.NewRequest(http.MethodPost, "/v1/rides/abc/status", strings.NewReader(`{"status":"Accepted"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", rec.Code)
	}
}

func TestListRides(t *testing.T) {
	router, _ := newTestRouter(t)
	token := officerToken(t)

	for i := 0; i < 3; i++ {
		submit := httptest.NewRequest(http.MethodPost, "/v1/rides",
			strings.NewReader(`{"name":"Alice","email":"alice@example.edu","pickup":"Library","dropoff":"Dorm A","requested_time":"2024-01-01T20:00"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, submit)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/rides", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var rides []models.RideResponse
	if err := json.NewDecoder(rec.Body).Decode(&rides); err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	if len(rides) != 3 {
		t.Errorf("len(rides) = %d, want 3", len(rides))
	}
}
