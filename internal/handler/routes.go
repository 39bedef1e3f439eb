package handler

import (
	"net/http"

	"github.com/tidylist/tidylist/internal/service"
)

// Rate limits mirror a 15-minute window: 100 requests for the API at large,
// 5 for the credential endpoints.
const (
	apiRatePerSecond  = 100.0 / 900.0
	apiBurst          = 100
	authRatePerSecond = 5.0 / 900.0
	authBurst         = 5
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, todos *service.TodoService, db Pinger) {
	authHandler := NewAuthHandler(auth)
	todoHandler := NewTodoHandler(todos)
	healthHandler := NewHealthHandler(db)

	apiLimiter := service.NewTokenBucket(apiRatePerSecond, apiBurst)
	authLimiter := service.NewTokenBucket(authRatePerSecond, authBurst)

	mux.HandleFunc("GET /{$}", HandleRoot)

	mux.HandleFunc("GET /api/health", healthHandler.HandleHealth)
	mux.HandleFunc("GET /api/health/detailed", healthHandler.HandleDetailed)
	mux.HandleFunc("GET /api/health/live", healthHandler.HandleLive)
	mux.HandleFunc("GET /api/health/ready", healthHandler.HandleReady)

	mux.Handle("POST /api/auth/register", RateLimit(authLimiter, http.HandlerFunc(authHandler.HandleRegister)))
	mux.Handle("POST /api/auth/login", RateLimit(authLimiter, http.HandlerFunc(authHandler.HandleLogin)))
	mux.Handle("GET /api/auth/me", RequireAuth(auth, http.HandlerFunc(authHandler.HandleMe)))

	protected := func(h http.HandlerFunc) http.Handler {
		return RateLimit(apiLimiter, RequireAuth(auth, h))
	}
	mux.Handle("GET /api/todos", protected(todoHandler.HandleList))
	mux.Handle("POST /api/todos", protected(todoHandler.HandleCreate))
	mux.Handle("GET /api/todos/{id}", protected(todoHandler.HandleGet))
	mux.Handle("PUT /api/todos/{id}", protected(todoHandler.HandleUpdate))
	mux.Handle("PATCH /api/todos/{id}/toggle", protected(todoHandler.HandleToggle))
	mux.Handle("DELETE /api/todos/{id}", protected(todoHandler.HandleDelete))
}
