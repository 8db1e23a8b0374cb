package workflow

import "errors"

// Gate failures produced by the classification pipeline. Each gate wraps the
// matching sentinel so callers can inspect the failure kind; the orchestrator
// records the message in the audit record either way.
var (
	// ErrInvalidState indicates the order status or alert type does not
	// permit classification.
	ErrInvalidState = errors.New("order not in classifiable state")

	// ErrConfigMissing indicates no classification config exists for the
	// tenant. This is a server-side misconfiguration, not a client error.
	ErrConfigMissing = errors.New("classification config missing")

	// ErrUnprocessable indicates the order lacks the comment or address
	// required for classification.
	ErrUnprocessable = errors.New("order missing required input")

	// ErrNoResponsibleUnit indicates no configured unit covers the order
	// address.
	ErrNoResponsibleUnit = errors.New("no responsible unit for address")
)
