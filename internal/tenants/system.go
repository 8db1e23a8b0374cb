package tenants

import (
	"context"

	"github.com/google/uuid"

	"github.com/funkylen/datastep-backend/pkg/pagination"
)

// System defines the public contract for tenant configuration operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[ClassificationConfig], error)
	Find(ctx context.Context, id uuid.UUID) (*ClassificationConfig, error)
	Default(ctx context.Context, client string) (*ClassificationConfig, error)
	Create(ctx context.Context, cmd CreateCommand) (*ClassificationConfig, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*ClassificationConfig, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
