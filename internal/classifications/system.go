package classifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/funkylen/datastep-backend/internal/workflow"
	"github.com/funkylen/datastep-backend/pkg/pagination"
)

// System defines the public contract for classification domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Classification], error)

	Find(ctx context.Context, id uuid.UUID) (*Classification, error)
	FindByOrder(ctx context.Context, client string, orderID int64) (*Classification, error)
	Classify(ctx context.Context, client string, req workflow.Request) (*Classification, error)
}
