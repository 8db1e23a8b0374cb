package tenants

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funkylen/datastep-backend/pkg/pagination"
	"github.com/funkylen/datastep-backend/pkg/query"
	"github.com/funkylen/datastep-backend/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a tenant configuration repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "tenants"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
) (*pagination.PageResult[ClassificationConfig], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Client")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tenant configs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanConfig)
	if err != nil {
		return nil, fmt.Errorf("query tenant configs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*ClassificationConfig, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanConfig)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

// Default returns the tenant's active classification config. The dependent
// order-updating switch is masked off when classification itself is disabled.
func (r *repo) Default(ctx context.Context, client string) (*ClassificationConfig, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Client", client)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanConfig)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	c.UseOrderUpdating = c.UseOrderUpdating && c.UseEmergencyClassification
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*ClassificationConfig, error) {
	if cmd.UseOrderUpdating && !cmd.UseEmergencyClassification {
		return nil, ErrInvalidSwitches
	}

	insertQ := `
		INSERT INTO classification_configs(
			client, user_id, use_emergency_classification,
			use_order_updating, emergency_prompt
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, client, user_id, use_emergency_classification,
				  use_order_updating, emergency_prompt`

	c, err := repository.QueryOne(ctx, r.db, insertQ, []any{
		cmd.Client,
		cmd.UserID,
		cmd.UseEmergencyClassification,
		cmd.UseOrderUpdating,
		cmd.EmergencyPrompt,
	}, scanConfig)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("tenant config created", "id", c.ID, "client", c.Client)
	return &c, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*ClassificationConfig, error) {
	if cmd.UseOrderUpdating && !cmd.UseEmergencyClassification {
		return nil, ErrInvalidSwitches
	}

	updateQ := `
		UPDATE classification_configs
		SET user_id = $1, use_emergency_classification = $2,
			use_order_updating = $3, emergency_prompt = $4
		WHERE id = $5
		RETURNING id, client, user_id, use_emergency_classification,
				  use_order_updating, emergency_prompt`

	c, err := repository.QueryOne(ctx, r.db, updateQ, []any{
		cmd.UserID,
		cmd.UseEmergencyClassification,
		cmd.UseOrderUpdating,
		cmd.EmergencyPrompt,
		id,
	}, scanConfig)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("tenant config updated", "id", c.ID, "client", c.Client)
	return &c, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM classification_configs WHERE id = $1",
		id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("tenant config deleted", "id", id)
	return nil
}
