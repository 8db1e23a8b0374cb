// Package workflow implements the order emergency-classification pipeline.
// A run is a linear sequence of gates: state validation, tenant config,
// order detail fetch, comment and address extraction, the language-model
// decision, and the Domyland dispatch update. The first failing gate
// short-circuits the run, but the audit record is always completed and
// returned for persistence, whether the run succeeded or failed.
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/funkylen/datastep-backend/internal/domyland"
	"github.com/funkylen/datastep-backend/internal/tenants"
	"github.com/funkylen/datastep-backend/internal/uds"
)

// emergencyLabel is the affirmative classifier output. The emergency
// decision is a trimmed case-insensitive comparison against it.
const emergencyLabel = "аварийная"

// processedByAIMessage marks AI-dispatched orders in the internal chat.
const processedByAIMessage = "ИИ классифицировал эту заявку как аварийную"

// Execute runs the classification pipeline for a single order alert.
// It never returns an error: every failure is captured into the returned
// record's Failed and Comment fields so the caller can persist the audit
// trail regardless of outcome.
func Execute(ctx context.Context, rt *Runtime, req Request, client string) *Record {
	record := &Record{
		AlertID:        req.AlertID,
		AlertTypeID:    req.AlertTypeID,
		AlertTimestamp: req.Timestamp,
		OrderID:        req.Data.OrderID,
		OrderStatusID:  req.Data.OrderStatusID,
	}

	if err := run(ctx, rt, req, client, record); err != nil {
		record.Failed = true
		comment := err.Error()
		record.Comment = &comment

		rt.Logger.ErrorContext(
			ctx, "classification run failed",
			"order_id", req.Data.OrderID,
			"client", client,
			"error", err,
		)
	}

	return record
}

func run(ctx context.Context, rt *Runtime, req Request, client string, record *Record) error {
	orderID := req.Data.OrderID

	if req.Data.OrderStatusID != domyland.OrderStatusPending {
		return fmt.Errorf(
			"%w: order %d has status ID %d, status ID %d required",
			ErrInvalidState, orderID, req.Data.OrderStatusID, domyland.OrderStatusPending,
		)
	}

	cfg, err := rt.Tenants.Default(ctx, client)
	if err != nil {
		if errors.Is(err, tenants.ErrNotFound) {
			return fmt.Errorf("%w: no default classification config for client %q", ErrConfigMissing, client)
		}
		return fmt.Errorf("load classification config: %w", err)
	}

	// Response marker for stages disabled by the tenant config.
	disabledMark := fmt.Sprintf(
		"skipped by emergency classification config of user with ID %d",
		cfg.UserID,
	)

	if cfg.UseEmergencyClassification && req.AlertTypeID != domyland.AlertTypeNewOrder {
		return fmt.Errorf(
			"%w: order %d has alert type ID %d, alert type ID %d required",
			ErrInvalidState, orderID, req.AlertTypeID, domyland.AlertTypeNewOrder,
		)
	}

	details, err := rt.Domyland.OrderDetails(ctx, orderID)
	if err != nil {
		return err
	}
	if raw, err := json.Marshal(details); err == nil {
		record.OrderDetails = raw
	}

	// Resident comment: scan continues after a match, so a later COMMENT
	// field overwrites an earlier one.
	var orderQuery *string
	for _, field := range details.Service.OrderForm {
		if field.Type == domyland.SummaryTypeText && field.Title == domyland.SummaryTitleComment {
			value := field.Value
			orderQuery = &value
		}
	}
	record.Query = orderQuery

	if cfg.UseEmergencyClassification && isBlank(orderQuery) {
		return fmt.Errorf("%w: order %d has no comment, cannot classify emergency", ErrUnprocessable, orderID)
	}

	var orderAddress *string
	for _, field := range details.Order.Summary {
		if field.Title == domyland.SummaryTitleObject {
			value := field.Value
			orderAddress = &value
		}
	}
	record.Address = orderAddress

	if cfg.UseEmergencyClassification && isBlank(orderAddress) {
		return fmt.Errorf("%w: order %d has no address, cannot find responsible unit", ErrUnprocessable, orderID)
	}

	var isEmergency bool
	if cfg.UseEmergencyClassification {
		normalized := NormalizeQuery(*orderQuery)
		record.NormalizedQuery = &normalized

		label, err := rt.Classifier.Classify(ctx, cfg.EmergencyPrompt, client, normalized)
		if err != nil {
			return err
		}
		record.Emergency = &label

		isEmergency = strings.EqualFold(strings.TrimSpace(label), emergencyLabel)
		record.IsEmergency = &isEmergency
	} else {
		marker := disabledMark
		record.Emergency = &marker
	}

	if !isEmergency {
		return nil
	}

	userID, ok := uds.Resolve(rt.Units, *orderAddress)
	if !ok {
		return fmt.Errorf("%w: order %d, address %q", ErrNoResponsibleUnit, orderID, *orderAddress)
	}

	responsible := []int64{userID}
	udsID := fmt.Sprint(responsible)
	record.UDSID = &udsID

	if !cfg.UseOrderUpdating {
		skipped, _ := json.Marshal(map[string]string{"result": disabledMark})
		record.UpdateRequest = skipped
		record.UpdateResponse = skipped
		return nil
	}

	update := domyland.StatusUpdate{
		ResponsibleDeptID:  rt.Dispatch.ResponsibleDeptID,
		OrderStatusID:      domyland.OrderStatusInProgress,
		ResponsibleUserIDs: responsible,
		InspectorIDs:       []int64{rt.Dispatch.InspectorUserID},
	}
	if raw, err := json.Marshal(update); err == nil {
		record.UpdateRequest = raw
	}

	response, err := rt.Domyland.UpdateOrderStatus(ctx, orderID, update)
	if err != nil {
		return err
	}
	record.UpdateResponse = response

	if _, err := rt.Domyland.PostChatMessage(ctx, orderID, processedByAIMessage); err != nil {
		return err
	}

	rt.Logger.InfoContext(
		ctx, "emergency order dispatched",
		"order_id", orderID,
		"client", client,
		"responsible_user_id", userID,
	)

	return nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
