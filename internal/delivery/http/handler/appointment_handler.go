package handler

import (
	"net/http"

	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/delivery/http/middleware"
	"cabinet-portal/internal/usecase"
	"cabinet-portal/pkg/response"
	"cabinet-portal/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
	log                *logrus.Logger
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator, log *logrus.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
		log:                log,
	}
}

// Book creates a rendez-vous request for the logged-in patient
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	patient, ok := middleware.PatientFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	var req dto.BookRendezVousRequest
	if err := decodeBody(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rdv, err := h.appointmentUsecase.Book(r.Context(), patient, &req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusCreated, "Rendez-vous requested", rdv)
}

func (h *AppointmentHandler) ListPatientAppointments(w http.ResponseWriter, r *http.Request) {
	patient, ok := middleware.PatientFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	list, err := h.appointmentUsecase.ListPatientAppointments(r.Context(), patient)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Rendez-vous retrieved successfully", list)
}

// Cancel withdraws a rendez-vous of the logged-in patient
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	patient, ok := middleware.PatientFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	req, ok := h.reason(w, r)
	if !ok {
		return
	}

	rdv, err := h.appointmentUsecase.Cancel(r.Context(), patient, mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Rendez-vous cancelled", rdv)
}

// ListDoctorAppointments returns the agenda of one day, today when ?date is absent
func (h *AppointmentHandler) ListDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	list, err := h.appointmentUsecase.ListDoctorAppointments(r.Context(), medecin, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Rendez-vous retrieved successfully", list)
}

func (h *AppointmentHandler) Validate(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	rdv, err := h.appointmentUsecase.Validate(r.Context(), medecin, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Rendez-vous validated", rdv)
}

func (h *AppointmentHandler) Refuse(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	req, ok := h.reason(w, r)
	if !ok {
		return
	}

	rdv, err := h.appointmentUsecase.Refuse(r.Context(), medecin, mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Rendez-vous refused", rdv)
}

func (h *AppointmentHandler) RecordConsultation(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	var req dto.ConsultationRequest
	if err := decodeBody(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rdv, err := h.appointmentUsecase.RecordConsultation(r.Context(), medecin, mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Consultation saved", rdv)
}

// Complete closes a validated rendez-vous, saving any diagnostic or notes sent along first
func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	var req dto.CompleteRendezVousRequest
	if err := decodeBody(r, &req, true); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rdv, err := h.appointmentUsecase.Complete(r.Context(), medecin, mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Rendez-vous completed", rdv)
}

// GetAppointment is shared by the owner patient, the owner medecin and admins
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	view := middleware.ViewFromContext(r.Context())
	if view == nil {
		response.Unauthorized(w, "")
		return
	}

	rdv, err := h.appointmentUsecase.GetAppointment(r.Context(), view, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Rendez-vous retrieved successfully", rdv)
}

func (h *AppointmentHandler) reason(w http.ResponseWriter, r *http.Request) (*dto.ReasonRequest, bool) {
	var req dto.ReasonRequest
	if err := decodeBody(r, &req, true); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return nil, false
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}
	return &req, true
}
