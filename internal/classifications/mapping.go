package classifications

import (
	"net/url"
	"strconv"

	"github.com/funkylen/datastep-backend/pkg/query"
	"github.com/funkylen/datastep-backend/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "classification_records", "cr").
	Project("id", "ID").
	Project("client", "Client").
	Project("alert_id", "AlertID").
	Project("alert_type_id", "AlertTypeID").
	Project("alert_timestamp", "AlertTimestamp").
	Project("order_id", "OrderID").
	Project("order_status_id", "OrderStatusID").
	Project("order_details", "OrderDetails").
	Project("order_query", "Query").
	Project("order_address", "Address").
	Project("order_normalized_query", "NormalizedQuery").
	Project("order_emergency", "Emergency").
	Project("is_emergency", "IsEmergency").
	Project("uds_id", "UDSID").
	Project("order_update_request", "UpdateRequest").
	Project("order_update_response", "UpdateResponse").
	Project("is_error", "IsError").
	Project("comment", "Comment").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for classification queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Client      *string `json:"client,omitempty"`
	OrderID     *int64  `json:"order_id,omitempty"`
	IsEmergency *bool   `json:"is_emergency,omitempty"`
	IsError     *bool   `json:"is_error,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Client", f.Client).
		WhereEquals("OrderID", f.OrderID).
		WhereEquals("IsEmergency", f.IsEmergency).
		WhereEquals("IsError", f.IsError)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("client"); c != "" {
		f.Client = &c
	}

	if o := values.Get("order_id"); o != "" {
		if id, err := strconv.ParseInt(o, 10, 64); err == nil {
			f.OrderID = &id
		}
	}

	if e := values.Get("is_emergency"); e != "" {
		if b, err := strconv.ParseBool(e); err == nil {
			f.IsEmergency = &b
		}
	}

	if e := values.Get("is_error"); e != "" {
		if b, err := strconv.ParseBool(e); err == nil {
			f.IsError = &b
		}
	}

	return f
}

func scanClassification(s repository.Scanner) (Classification, error) {
	var c Classification
	var details, updateReq, updateResp []byte

	err := s.Scan(
		&c.ID,
		&c.Client,
		&c.AlertID,
		&c.AlertTypeID,
		&c.AlertTimestamp,
		&c.OrderID,
		&c.OrderStatusID,
		&details,
		&c.Query,
		&c.Address,
		&c.NormalizedQuery,
		&c.Emergency,
		&c.IsEmergency,
		&c.UDSID,
		&updateReq,
		&updateResp,
		&c.IsError,
		&c.Comment,
		&c.CreatedAt,
	)

	if err != nil {
		return c, err
	}

	c.OrderDetails = details
	c.UpdateRequest = updateReq
	c.UpdateResponse = updateResp

	return c, nil
}
