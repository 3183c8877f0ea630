package http

import (
	"net/http"
	"time"

	"cabinet-portal/internal/delivery/http/handler"
	"cabinet-portal/internal/delivery/http/middleware"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	appointmentHandler *handler.AppointmentHandler
	dashboardHandler   *handler.DashboardHandler
	directoryHandler   *handler.DirectoryHandler
	auditLogHandler    *handler.AuditLogHandler
	workspaceHandler   *handler.MedecinWorkspaceHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	loggerMiddleware   *middleware.LoggerMiddleware
	authRateLimit      int
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	dashboardHandler *handler.DashboardHandler,
	directoryHandler *handler.DirectoryHandler,
	auditLogHandler *handler.AuditLogHandler,
	workspaceHandler *handler.MedecinWorkspaceHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggerMiddleware *middleware.LoggerMiddleware,
	authRateLimit int,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		appointmentHandler: appointmentHandler,
		dashboardHandler:   dashboardHandler,
		directoryHandler:   directoryHandler,
		auditLogHandler:    auditLogHandler,
		workspaceHandler:   workspaceHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		loggerMiddleware:   loggerMiddleware,
		authRateLimit:      authRateLimit,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public, rate limited per client IP)
	auth := api.PathPrefix("/auth").Subrouter()
	if r.authRateLimit > 0 {
		auth.Use(httprate.LimitByIP(r.authRateLimit, time.Minute))
	}
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	authProtected.HandleFunc("/home", r.authHandler.Home).Methods(http.MethodGet)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/dashboard", r.dashboardHandler.Admin).Methods(http.MethodGet)

	admin.HandleFunc("/medecins", r.directoryHandler.GetAllMedecins).Methods(http.MethodGet)
	admin.HandleFunc("/medecins", r.directoryHandler.CreateMedecin).Methods(http.MethodPost)
	admin.HandleFunc("/medecins/{id}", r.directoryHandler.GetMedecin).Methods(http.MethodGet)
	admin.HandleFunc("/medecins/{id}", r.directoryHandler.UpdateMedecin).Methods(http.MethodPut)
	admin.HandleFunc("/medecins/{id}", r.directoryHandler.DeleteMedecin).Methods(http.MethodDelete)

	// "last" is registered before {id} so it is not taken for an id
	admin.HandleFunc("/patients/last", r.directoryHandler.GetLastPatients).Methods(http.MethodGet)
	admin.HandleFunc("/patients", r.directoryHandler.GetAllPatients).Methods(http.MethodGet)
	admin.HandleFunc("/patients", r.directoryHandler.CreatePatient).Methods(http.MethodPost)
	admin.HandleFunc("/patients/{id}", r.directoryHandler.GetPatient).Methods(http.MethodGet)
	admin.HandleFunc("/patients/{id}", r.directoryHandler.UpdatePatient).Methods(http.MethodPut)
	admin.HandleFunc("/patients/{id}", r.directoryHandler.DeletePatient).Methods(http.MethodDelete)

	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Medecin routes
	medecin := api.PathPrefix("/medecin").Subrouter()
	medecin.Use(r.authMiddleware.Authenticate)
	medecin.Use(middleware.RequireMedecin)
	medecin.HandleFunc("/dashboard", r.dashboardHandler.Medecin).Methods(http.MethodGet)
	medecin.HandleFunc("/rendezvous", r.appointmentHandler.ListDoctorAppointments).Methods(http.MethodGet)
	medecin.HandleFunc("/rendezvous/{id}/valider", r.appointmentHandler.Validate).Methods(http.MethodPut)
	medecin.HandleFunc("/rendezvous/{id}/refuser", r.appointmentHandler.Refuse).Methods(http.MethodPut)
	medecin.HandleFunc("/rendezvous/{id}/terminer", r.appointmentHandler.Complete).Methods(http.MethodPut)
	medecin.HandleFunc("/rendezvous/{id}/consultation", r.appointmentHandler.RecordConsultation).Methods(http.MethodPut)

	medecin.HandleFunc("/ordonnances", r.workspaceHandler.ListTemplates).Methods(http.MethodGet)
	medecin.HandleFunc("/ordonnances", r.workspaceHandler.CreateTemplate).Methods(http.MethodPost)
	medecin.HandleFunc("/ordonnances/{id}", r.workspaceHandler.GetTemplate).Methods(http.MethodGet)
	medecin.HandleFunc("/ordonnances/{id}", r.workspaceHandler.UpdateTemplate).Methods(http.MethodPut)
	medecin.HandleFunc("/ordonnances/{id}", r.workspaceHandler.DeleteTemplate).Methods(http.MethodDelete)

	medecin.HandleFunc("/creneaux-bloques", r.workspaceHandler.ListSlotBlocks).Methods(http.MethodGet)
	medecin.HandleFunc("/creneaux-bloques", r.workspaceHandler.BlockSlot).Methods(http.MethodPost)
	medecin.HandleFunc("/creneaux-bloques/{id}", r.workspaceHandler.UnblockSlot).Methods(http.MethodDelete)

	// Patient routes
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/dashboard", r.dashboardHandler.Patient).Methods(http.MethodGet)
	patient.HandleFunc("/rendezvous", r.appointmentHandler.ListPatientAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/rendezvous", r.appointmentHandler.Book).Methods(http.MethodPost)
	patient.HandleFunc("/rendezvous/{id}/annuler", r.appointmentHandler.Cancel).Methods(http.MethodPut)

	// Shared routes, ownership is checked per appointment
	shared := api.PathPrefix("/rendezvous").Subrouter()
	shared.Use(r.authMiddleware.Authenticate)
	shared.Use(middleware.RequireAnyRole)
	shared.HandleFunc("/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)

	r.router.Use(r.loggerMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
