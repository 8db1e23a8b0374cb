package api

import (
	"github.com/funkylen/datastep-backend/internal/classifications"
	"github.com/funkylen/datastep-backend/internal/classifier"
	"github.com/funkylen/datastep-backend/internal/config"
	"github.com/funkylen/datastep-backend/internal/domyland"
	"github.com/funkylen/datastep-backend/internal/tenants"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Classifications classifications.System
	Tenants         tenants.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	tenantsSystem := tenants.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	classificationsSystem := classifications.New(
		runtime.Database.Connection(),
		domyland.New(&cfg.Domyland, runtime.Logger),
		classifier.New(&cfg.Classifier, runtime.Logger),
		tenantsSystem,
		runtime.Units,
		runtime.Dispatch,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Classifications: classificationsSystem,
		Tenants:         tenantsSystem,
	}
}
