// Package classifications implements the order-classification audit domain.
// It provides types, data access, and HTTP surface for the history records
// produced by the classification pipeline: the inbound webhook that triggers
// a run, and query endpoints over the stored audit trail.
package classifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Classification is the durable audit record of one classification run.
// One record exists per (order, client) pair; it is written exactly once
// when the run exits and never updated afterward.
type Classification struct {
	ID     uuid.UUID `json:"id"`
	Client string    `json:"client"`

	AlertID        string `json:"alert_id"`
	AlertTypeID    int    `json:"alert_type_id"`
	AlertTimestamp int64  `json:"alert_timestamp"`
	OrderID        int64  `json:"order_id"`
	OrderStatusID  int    `json:"order_status_id"`

	OrderDetails    json.RawMessage `json:"order_details,omitempty"`
	Query           *string         `json:"order_query"`
	Address         *string         `json:"order_address"`
	NormalizedQuery *string         `json:"order_normalized_query"`

	Emergency   *string `json:"order_emergency"`
	IsEmergency *bool   `json:"is_emergency"`

	UDSID          *string         `json:"uds_id"`
	UpdateRequest  json.RawMessage `json:"order_update_request,omitempty"`
	UpdateResponse json.RawMessage `json:"order_update_response,omitempty"`

	IsError   bool      `json:"is_error"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
