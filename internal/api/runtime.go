package api

import (
	"github.com/funkylen/datastep-backend/internal/config"
	"github.com/funkylen/datastep-backend/internal/infrastructure"
	"github.com/funkylen/datastep-backend/internal/uds"
	"github.com/funkylen/datastep-backend/internal/workflow"
	"github.com/funkylen/datastep-backend/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Units      []uds.Unit
	Dispatch   workflow.Dispatch
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
		},
		Pagination: cfg.API.Pagination,
		Units:      cfg.Units,
		Dispatch: workflow.Dispatch{
			ResponsibleDeptID: cfg.Dispatch.ResponsibleDeptID,
			InspectorUserID:   cfg.Dispatch.InspectorUserID,
		},
	}
}
