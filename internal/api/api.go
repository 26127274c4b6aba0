// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/camber-build/camber/internal/config"
	"github.com/camber-build/camber/internal/infrastructure"
	"github.com/camber-build/camber/pkg/middleware"
	"github.com/camber-build/camber/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	if err := registerSpec(mux, cfg); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))
	m.Use(runtime.Auth.Middleware())

	return m, nil
}
