// Package tenants implements the per-tenant classification configuration
// domain. Each tenant (client) owns one config controlling whether emergency
// classification runs, whether Domyland orders are updated on a positive
// result, and the prompt the classifier uses.
package tenants

import "github.com/google/uuid"

// ClassificationConfig is a tenant's emergency-classification settings.
// UseOrderUpdating is a dependent switch: it only takes effect while
// UseEmergencyClassification is enabled.
type ClassificationConfig struct {
	ID                         uuid.UUID `json:"id"`
	Client                     string    `json:"client"`
	UserID                     int64     `json:"user_id"`
	UseEmergencyClassification bool      `json:"use_emergency_classification"`
	UseOrderUpdating           bool      `json:"use_order_updating"`
	EmergencyPrompt            string    `json:"emergency_prompt"`
}

// CreateCommand carries the data needed to create a tenant config.
type CreateCommand struct {
	Client                     string `json:"client"`
	UserID                     int64  `json:"user_id"`
	UseEmergencyClassification bool   `json:"use_emergency_classification"`
	UseOrderUpdating           bool   `json:"use_order_updating"`
	EmergencyPrompt            string `json:"emergency_prompt"`
}

// UpdateCommand carries the data needed to update an existing tenant config.
type UpdateCommand struct {
	UserID                     int64  `json:"user_id"`
	UseEmergencyClassification bool   `json:"use_emergency_classification"`
	UseOrderUpdating           bool   `json:"use_order_updating"`
	EmergencyPrompt            string `json:"emergency_prompt"`
}
