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

// MedecinWorkspaceHandler serves the records a medecin keeps in the portal itself:
// prescription templates and blocked slots.
type MedecinWorkspaceHandler struct {
	templateUsecase  usecase.PrescriptionTemplateUsecase
	slotBlockUsecase usecase.SlotBlockUsecase
	validator        *validator.CustomValidator
	log              *logrus.Logger
}

func NewMedecinWorkspaceHandler(
	templateUsecase usecase.PrescriptionTemplateUsecase,
	slotBlockUsecase usecase.SlotBlockUsecase,
	validator *validator.CustomValidator,
	log *logrus.Logger,
) *MedecinWorkspaceHandler {
	return &MedecinWorkspaceHandler{
		templateUsecase:  templateUsecase,
		slotBlockUsecase: slotBlockUsecase,
		validator:        validator,
		log:              log,
	}
}

func (h *MedecinWorkspaceHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	list, err := h.templateUsecase.ListTemplates(r.Context(), medecin)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Prescription templates retrieved successfully", list)
}

func (h *MedecinWorkspaceHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}
	id, ok := pathID(w, r, "Invalid prescription template ID")
	if !ok {
		return
	}

	template, err := h.templateUsecase.GetTemplate(r.Context(), medecin, id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Prescription template retrieved successfully", template)
}

func (h *MedecinWorkspaceHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	var req dto.CreatePrescriptionTemplateRequest
	if err := decodeBody(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	template, err := h.templateUsecase.CreateTemplate(r.Context(), medecin, &req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusCreated, "Prescription template created successfully", template)
}

func (h *MedecinWorkspaceHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}
	id, ok := pathID(w, r, "Invalid prescription template ID")
	if !ok {
		return
	}

	var req dto.UpdatePrescriptionTemplateRequest
	if err := decodeBody(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	template, err := h.templateUsecase.UpdateTemplate(r.Context(), medecin, id, &req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Prescription template updated successfully", template)
}

func (h *MedecinWorkspaceHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}
	id, ok := pathID(w, r, "Invalid prescription template ID")
	if !ok {
		return
	}

	if err := h.templateUsecase.DeleteTemplate(r.Context(), medecin, id); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Prescription template deleted successfully", nil)
}

// ListSlotBlocks accepts ?date=YYYY-MM-DD
func (h *MedecinWorkspaceHandler) ListSlotBlocks(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	list, err := h.slotBlockUsecase.ListBlocks(r.Context(), medecin, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Slot blocks retrieved successfully", list)
}

func (h *MedecinWorkspaceHandler) BlockSlot(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}

	var req dto.CreateSlotBlockRequest
	if err := decodeBody(r, &req, false); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	block, err := h.slotBlockUsecase.BlockSlot(r.Context(), medecin, &req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusCreated, "Slot blocked", block)
}

func (h *MedecinWorkspaceHandler) UnblockSlot(w http.ResponseWriter, r *http.Request) {
	medecin, ok := middleware.MedecinFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "")
		return
	}
	id, ok := pathID(w, r, "Invalid slot block ID")
	if !ok {
		return
	}

	if err := h.slotBlockUsecase.UnblockSlot(r.Context(), medecin, id); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Slot unblocked", nil)
}

// pathID parses the numeric {id} route variable, answering 400 when it is not one.
func pathID(w http.ResponseWriter, r *http.Request, message string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		response.Error(w, http.StatusBadRequest, message, nil)
		return 0, false
	}
	return id, true
}
