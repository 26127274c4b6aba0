package api

import (
	"github.com/camber-build/camber/internal/attachments"
	"github.com/camber-build/camber/internal/dashboard"
	"github.com/camber-build/camber/internal/reviews"
	"github.com/camber-build/camber/internal/schemes"
	"github.com/camber-build/camber/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Schemes     schemes.System
	Reviews     reviews.System
	Attachments attachments.System
	Dashboard   dashboard.System
	Workflow    *workflow.Handler
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	schemesSystem := schemes.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	reviewsSystem := reviews.New(
		runtime.Database.Connection(),
		schemesSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	attachmentsSystem := attachments.New(
		runtime.Database.Connection(),
		runtime.Storage,
		reviewsSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	dashboardSystem := dashboard.New(
		reviewsSystem,
		schemesSystem,
		runtime.Logger,
	)

	workflowHandler := workflow.NewHandler(
		reviewsSystem,
		schemesSystem,
		runtime.Auth.SubmitRoles(),
		runtime.Logger,
	)

	return &Domain{
		Schemes:     schemesSystem,
		Reviews:     reviewsSystem,
		Attachments: attachmentsSystem,
		Dashboard:   dashboardSystem,
		Workflow:    workflowHandler,
	}
}
