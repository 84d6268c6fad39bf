package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/patrimonia/portal/infrastructure/config"
	"github.com/patrimonia/portal/infrastructure/http/handler"
	"github.com/patrimonia/portal/infrastructure/http/middleware"
	"github.com/patrimonia/portal/infrastructure/http/response"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Appointment *handler.AppointmentHandler
	Messaging   *handler.MessagingHandler
	Education   *handler.EducationHandler
	Contact     *handler.ContactHandler
	Admin       *handler.AdminHandler
}

type Middlewares struct {
	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimitMiddleware
}

// NewRouter assembles the gateway's route table. Public routes carry no
// guard; authenticated routes require a stored session profile; admin routes
// additionally require the admin role.
func NewRouter(cfg *config.Config, h Handlers, mw Middlewares) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, http.StatusOK, "ok", map[string]string{"time": time.Now().UTC().Format(time.RFC3339)})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Public surface.
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/session", h.Auth.Session).Methods(http.MethodGet)
	api.HandleFunc("/contact", h.Contact.Submit).Methods(http.MethodPost)
	api.HandleFunc("/chat/sessions", h.Contact.StartChat).Methods(http.MethodPost)
	api.HandleFunc("/chat/sessions/{id}/messages", h.Contact.SendChat).Methods(http.MethodPost)
	api.HandleFunc("/chat/sessions/{id}/messages", h.Contact.ChatMessages).Methods(http.MethodGet)
	api.HandleFunc("/education/articles", h.Education.List).Methods(http.MethodGet)
	api.HandleFunc("/education/articles/{id}", h.Education.Get).Methods(http.MethodGet)

	// Authenticated surface.
	auth := mw.Auth
	api.HandleFunc("/auth/logout", auth.RequireAuth(h.Auth.Logout)).Methods(http.MethodPost)
	api.HandleFunc("/user/profile", auth.RequireAuth(h.Auth.Profile)).Methods(http.MethodGet)

	api.HandleFunc("/appointments", auth.RequireAuth(h.Appointment.List)).Methods(http.MethodGet)
	api.HandleFunc("/appointments", auth.RequireAuth(h.Appointment.Create)).Methods(http.MethodPost)
	api.HandleFunc("/appointments/slots", auth.RequireAuth(h.Appointment.Slots)).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", auth.RequireAuth(h.Appointment.Update)).Methods(http.MethodPut)
	api.HandleFunc("/appointments/{id}", auth.RequireAuth(h.Appointment.Cancel)).Methods(http.MethodDelete)

	api.HandleFunc("/conversations", auth.RequireAuth(h.Messaging.Conversations)).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/messages", auth.RequireAuth(h.Messaging.Messages)).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/messages", auth.RequireAuth(h.Messaging.Send)).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/read", auth.RequireAuth(h.Messaging.MarkRead)).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/poll", auth.RequireAuth(h.Messaging.Poll)).Methods(http.MethodGet)

	// Admin surface.
	api.HandleFunc("/education/articles", auth.RequireAdmin(h.Education.Create)).Methods(http.MethodPost)
	api.HandleFunc("/education/articles/{id}", auth.RequireAdmin(h.Education.Update)).Methods(http.MethodPut)
	api.HandleFunc("/education/articles/{id}", auth.RequireAdmin(h.Education.Delete)).Methods(http.MethodDelete)

	api.HandleFunc("/admin/users", auth.RequireAdmin(h.Admin.ListUsers)).Methods(http.MethodGet)
	api.HandleFunc("/admin/users", auth.RequireAdmin(h.Admin.CreateUser)).Methods(http.MethodPost)
	api.HandleFunc("/admin/users/{id}", auth.RequireAdmin(h.Admin.GetUser)).Methods(http.MethodGet)
	api.HandleFunc("/admin/users/{id}", auth.RequireAdmin(h.Admin.UpdateUser)).Methods(http.MethodPut)
	api.HandleFunc("/admin/users/{id}", auth.RequireAdmin(h.Admin.DeleteUser)).Methods(http.MethodDelete)

	var chain http.Handler = r
	if mw.RateLimit != nil {
		chain = mw.RateLimit.RateLimit(chain)
	}
	chain = middleware.SessionMiddleware(cfg.SessionCookieName, cfg.SessionTTL, cfg.Environment == "production")(chain)
	chain = middleware.CorrelationIDMiddleware(chain)
	if cfg.CORSEnabled {
		chain = middleware.CORSMiddleware(chain, cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)
	}

	return chain
}
