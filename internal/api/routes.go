package api

import (
	"net/http"

	"github.com/camber-build/camber/internal/config"
	"github.com/camber-build/camber/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Schemes.Handler().Routes(),
		domain.Reviews.Handler().Routes(),
		domain.Workflow.Routes(),
		domain.Attachments.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Dashboard.Handler().Routes(),
		newStorageHandler(
			runtime.Storage,
			runtime.Logger,
			cfg.Storage.MaxListSize,
		).routes(),
	)
}
