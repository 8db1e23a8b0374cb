package classifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funkylen/datastep-backend/internal/classifier"
	"github.com/funkylen/datastep-backend/internal/domyland"
	"github.com/funkylen/datastep-backend/internal/tenants"
	"github.com/funkylen/datastep-backend/internal/uds"
	"github.com/funkylen/datastep-backend/internal/workflow"
	"github.com/funkylen/datastep-backend/pkg/pagination"
	"github.com/funkylen/datastep-backend/pkg/query"
	"github.com/funkylen/datastep-backend/pkg/repository"
)

type repo struct {
	db         *sql.DB
	rt         *workflow.Runtime
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a classification repository implementing the System interface.
// It internally constructs the pipeline runtime from the provided dependencies.
func New(
	db *sql.DB,
	client domyland.Client,
	engine classifier.Engine,
	tenantCfg tenants.System,
	units []uds.Unit,
	dispatch workflow.Dispatch,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	rt := &workflow.Runtime{
		Domyland:   client,
		Classifier: engine,
		Tenants:    tenantCfg,
		Units:      units,
		Dispatch:   dispatch,
		Logger:     logger.With("workflow", "classify"),
	}
	return &repo{
		db:         db,
		rt:         rt,
		logger:     logger.With("system", "classifications"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Classification], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Query", "Address", "Comment")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count classification records: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("query classification records: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Classification, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyClassified)
	}
	return &c, nil
}

func (r *repo) FindByOrder(ctx context.Context, client string, orderID int64) (*Classification, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("Client", client).
		WhereEquals("OrderID", orderID).
		BuildSingleOrNull()

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyClassified)
	}
	return &c, nil
}

// Classify runs the pipeline for an inbound alert. The idempotency gate
// rejects orders that already hold a record; the unique constraint on
// (order_id, client) backs the gate under concurrent runs. The audit
// record is persisted exactly once, whether the run succeeded or failed.
func (r *repo) Classify(ctx context.Context, client string, req workflow.Request) (*Classification, error) {
	existing, err := r.FindByOrder(ctx, client, req.Data.OrderID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("idempotency check: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf(
			"%w: order %d, history record ID %s",
			ErrAlreadyClassified, req.Data.OrderID, existing.ID,
		)
	}

	record := workflow.Execute(ctx, r.rt, req, client)

	c, err := r.save(ctx, client, record)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyClassified)
	}

	r.logger.Info("classification record saved",
		"id", c.ID,
		"order_id", c.OrderID,
		"client", client,
		"is_emergency", c.IsEmergency,
		"is_error", c.IsError,
	)
	return c, nil
}

func (r *repo) save(ctx context.Context, client string, record *workflow.Record) (*Classification, error) {
	insertQ := `
		INSERT INTO classification_records(
			client, alert_id, alert_type_id, alert_timestamp,
			order_id, order_status_id, order_details,
			order_query, order_address, order_normalized_query,
			order_emergency, is_emergency, uds_id,
			order_update_request, order_update_response,
			is_error, comment
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, client, alert_id, alert_type_id, alert_timestamp,
				  order_id, order_status_id, order_details,
				  order_query, order_address, order_normalized_query,
				  order_emergency, is_emergency, uds_id,
				  order_update_request, order_update_response,
				  is_error, comment, created_at`

	args := []any{
		client,
		record.AlertID,
		record.AlertTypeID,
		record.AlertTimestamp,
		record.OrderID,
		record.OrderStatusID,
		nullableJSON(record.OrderDetails),
		record.Query,
		record.Address,
		record.NormalizedQuery,
		record.Emergency,
		record.IsEmergency,
		record.UDSID,
		nullableJSON(record.UpdateRequest),
		nullableJSON(record.UpdateResponse),
		record.Failed,
		record.Comment,
	}

	c, err := repository.QueryOne(ctx, r.db, insertQ, args, scanClassification)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
