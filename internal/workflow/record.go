package workflow

import "encoding/json"

// Request is the inbound Domyland alert notification that triggers a
// classification run.
type Request struct {
	AlertID     string    `json:"alertId"`
	AlertTypeID int       `json:"alertTypeId"`
	Timestamp   int64     `json:"timestamp"`
	Data        OrderData `json:"data"`
}

// OrderData identifies the order an alert refers to.
type OrderData struct {
	OrderID       int64 `json:"orderId"`
	OrderStatusID int   `json:"orderStatusId"`
}

// Record is the in-flight audit state of one classification run. It is
// created when the run starts, mutated by every stage, and persisted exactly
// once when the run exits, whether the run succeeded or failed.
type Record struct {
	AlertID        string
	AlertTypeID    int
	AlertTimestamp int64
	OrderID        int64
	OrderStatusID  int

	OrderDetails    json.RawMessage
	Query           *string
	Address         *string
	NormalizedQuery *string

	Emergency   *string
	IsEmergency *bool

	UDSID          *string
	UpdateRequest  json.RawMessage
	UpdateResponse json.RawMessage

	Failed  bool
	Comment *string
}
