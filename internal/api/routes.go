package api

import (
	"net/http"

	"github.com/funkylen/datastep-backend/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Classifications.Handler().Routes(),
		domain.Tenants.Handler().Routes(),
	)
}
