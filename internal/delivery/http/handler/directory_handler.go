package handler

import (
	"net/http"
	"strconv"

	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/delivery/http/middleware"
	"cabinet-portal/internal/usecase"
	"cabinet-portal/pkg/response"
	"cabinet-portal/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type DirectoryHandler struct {
	directoryUsecase usecase.DirectoryUsecase
	validator        *validator.CustomValidator
	log              *logrus.Logger
}

func NewDirectoryHandler(directoryUsecase usecase.DirectoryUsecase, validator *validator.CustomValidator, log *logrus.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directoryUsecase: directoryUsecase,
		validator:        validator,
		log:              log,
	}
}

func (h *DirectoryHandler) GetAllMedecins(w http.ResponseWriter, r *http.Request) {
	list, err := h.directoryUsecase.ListMedecins(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Medecins retrieved successfully", list)
}

func (h *DirectoryHandler) GetMedecin(w http.ResponseWriter, r *http.Request) {
	medecin, err := h.directoryUsecase.GetMedecin(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Medecin retrieved successfully", medecin)
}

func (h *DirectoryHandler) CreateMedecin(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	var req dto.CreateMedecinRequest
	if err := decodeBody(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	medecin, err := h.directoryUsecase.CreateMedecin(r.Context(), admin, &req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusCreated, "Medecin created successfully", medecin)
}

func (h *DirectoryHandler) UpdateMedecin(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	var req dto.UpdateMedecinRequest
	if err := decodeBody(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	medecin, err := h.directoryUsecase.UpdateMedecin(r.Context(), admin, mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Medecin updated successfully", medecin)
}

// DeleteMedecin requires ?confirm=true and answers with the refreshed list
func (h *DirectoryHandler) DeleteMedecin(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	list, err := h.directoryUsecase.DeleteMedecin(r.Context(), admin, mux.Vars(r)["id"], confirmed(r))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Medecin deleted successfully", list)
}

func (h *DirectoryHandler) GetAllPatients(w http.ResponseWriter, r *http.Request) {
	list, err := h.directoryUsecase.ListPatients(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", list)
}

func (h *DirectoryHandler) GetLastPatients(w http.ResponseWriter, r *http.Request) {
	list, err := h.directoryUsecase.LastPatients(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", list)
}

func (h *DirectoryHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.directoryUsecase.GetPatient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *DirectoryHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	var req dto.CreatePatientRequest
	if err := decodeBody(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.directoryUsecase.CreatePatient(r.Context(), admin, &req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

func (h *DirectoryHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	var req dto.UpdatePatientRequest
	if err := decodeBody(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.directoryUsecase.UpdatePatient(r.Context(), admin, mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *DirectoryHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	list, err := h.directoryUsecase.DeletePatient(r.Context(), admin, mux.Vars(r)["id"], confirmed(r))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", list)
}

func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}
