package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cabinet-portal/internal/delivery/http/handler"
	"cabinet-portal/internal/delivery/http/middleware"
	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/usecase"
	"cabinet-portal/pkg/jwt"
	"cabinet-portal/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type patientOnly struct{}

func (patientOnly) ResolveSession(ctx context.Context, token string) (entity.RoleView, *jwt.Claims, error) {
	if token != "patient-token" {
		return nil, nil, usecase.ErrSessionExpired
	}
	return entity.PatientView{User: entity.User{ID: "p1", Role: entity.RolePatient}}, &jwt.Claims{TokenID: "t1"}, nil
}

func newTestRouter(rateLimit int) *mux.Router {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	v := validator.NewValidator()

	return NewRouter(
		handler.NewAuthHandler(nil, v, log),
		handler.NewAppointmentHandler(nil, v, log),
		handler.NewDashboardHandler(nil, log),
		handler.NewDirectoryHandler(nil, v, log),
		handler.NewAuditLogHandler(nil, log),
		handler.NewMedecinWorkspaceHandler(nil, nil, v, log),
		middleware.NewAuthMiddleware(patientOnly{}, log),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggerMiddleware(log),
		rateLimit,
	).Setup()
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_AuthRateLimit(t *testing.T) {
	router := newTestRouter(2)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		// an invalid body is rejected before any backend call
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`)))
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, statuses)
}

func TestRouter_RoleAreas(t *testing.T) {
	router := newTestRouter(0)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"anonymous admin area", http.MethodGet, "/api/v1/admin/dashboard", "", http.StatusUnauthorized},
		{"patient in admin area", http.MethodGet, "/api/v1/admin/dashboard", "patient-token", http.StatusForbidden},
		{"patient in medecin area", http.MethodPut, "/api/v1/medecin/rendezvous/r1/valider", "patient-token", http.StatusForbidden},
		{"patient in prescription templates", http.MethodGet, "/api/v1/medecin/ordonnances", "patient-token", http.StatusForbidden},
		{"patient blocking a slot", http.MethodPost, "/api/v1/medecin/creneaux-bloques", "patient-token", http.StatusForbidden},
		{"expired session", http.MethodGet, "/api/v1/patient/dashboard", "old-token", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/api/v1/nowhere", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
