package tenants

import (
	"github.com/funkylen/datastep-backend/pkg/query"
	"github.com/funkylen/datastep-backend/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "classification_configs", "cc").
	Project("id", "ID").
	Project("client", "Client").
	Project("user_id", "UserID").
	Project("use_emergency_classification", "UseEmergencyClassification").
	Project("use_order_updating", "UseOrderUpdating").
	Project("emergency_prompt", "EmergencyPrompt")

var defaultSort = query.SortField{
	Field: "Client",
}

func scanConfig(s repository.Scanner) (ClassificationConfig, error) {
	var c ClassificationConfig

	err := s.Scan(
		&c.ID,
		&c.Client,
		&c.UserID,
		&c.UseEmergencyClassification,
		&c.UseOrderUpdating,
		&c.EmergencyPrompt,
	)

	return c, err
}
