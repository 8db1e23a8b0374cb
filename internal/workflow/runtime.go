package workflow

import (
	"log/slog"

	"github.com/funkylen/datastep-backend/internal/classifier"
	"github.com/funkylen/datastep-backend/internal/domyland"
	"github.com/funkylen/datastep-backend/internal/tenants"
	"github.com/funkylen/datastep-backend/internal/uds"
)

// Dispatch holds the reassignment targets written to Domyland when an
// order is classified as an emergency.
type Dispatch struct {
	// ResponsibleDeptID is the department emergency orders are assigned to.
	ResponsibleDeptID int64
	// InspectorUserID is the service account recorded as order inspector.
	InspectorUserID int64
}

// Runtime bundles the dependencies the classification pipeline requires.
// It is constructed by higher-level composition code from Infrastructure
// and Domain systems.
type Runtime struct {
	Domyland   domyland.Client
	Classifier classifier.Engine
	Tenants    tenants.System
	Units      []uds.Unit
	Dispatch   Dispatch
	Logger     *slog.Logger
}
