package handler

import (
	"net/http"

	"cabinet-portal/internal/delivery/http/middleware"
	"cabinet-portal/internal/usecase"
	"cabinet-portal/pkg/response"

	"github.com/sirupsen/logrus"
)

// DashboardHandler serves one dashboard per role. Partial results are still 200: failed
// aggregates are null and listed under errors.
type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
	log              *logrus.Logger
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase, log *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
		log:              log,
	}
}

func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	dashboard, err := h.dashboardUsecase.Admin(r.Context(), admin)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *DashboardHandler) Medecin(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	dashboard, err := h.dashboardUsecase.Medecin(r.Context(), medecin, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *DashboardHandler) Patient(w http.ResponseWriter, r *http.Request) {
	patient, ok := middleware.PatientFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	dashboard, err := h.dashboardUsecase.Patient(r.Context(), patient)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}
