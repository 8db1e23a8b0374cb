package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/funkylen/datastep-backend/internal/domyland"
	"github.com/funkylen/datastep-backend/internal/tenants"
	"github.com/funkylen/datastep-backend/internal/uds"
	"github.com/funkylen/datastep-backend/internal/workflow"
	"github.com/funkylen/datastep-backend/pkg/pagination"
)

type fakeDomyland struct {
	details    *domyland.OrderDetails
	detailsErr error
	updateErr  error

	updateCalls int
	chatCalls   int
	lastUpdate  domyland.StatusUpdate
	lastChat    string
}

func (f *fakeDomyland) OrderDetails(ctx context.Context, orderID int64) (*domyland.OrderDetails, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return f.details, nil
}

func (f *fakeDomyland) UpdateOrderStatus(ctx context.Context, orderID int64, update domyland.StatusUpdate) (json.RawMessage, error) {
	f.updateCalls++
	f.lastUpdate = update
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func (f *fakeDomyland) PostChatMessage(ctx context.Context, orderID int64, text string) (json.RawMessage, error) {
	f.chatCalls++
	f.lastChat = text
	return json.RawMessage(`{"ok":true}`), nil
}

type fakeClassifier struct {
	label string
	err   error
	calls int
}

func (f *fakeClassifier) Classify(ctx context.Context, prompt, client, query string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.label, nil
}

type fakeTenants struct {
	cfg *tenants.ClassificationConfig
	err error
}

func (f *fakeTenants) Handler() *tenants.Handler { return nil }

func (f *fakeTenants) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[tenants.ClassificationConfig], error) {
	return nil, nil
}

func (f *fakeTenants) Find(ctx context.Context, id uuid.UUID) (*tenants.ClassificationConfig, error) {
	return nil, nil
}

func (f *fakeTenants) Default(ctx context.Context, client string) (*tenants.ClassificationConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

func (f *fakeTenants) Create(ctx context.Context, cmd tenants.CreateCommand) (*tenants.ClassificationConfig, error) {
	return nil, nil
}

func (f *fakeTenants) Update(ctx context.Context, id uuid.UUID, cmd tenants.UpdateCommand) (*tenants.ClassificationConfig, error) {
	return nil, nil
}

func (f *fakeTenants) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func emergencyDetails(comment, address string) *domyland.OrderDetails {
	return &domyland.OrderDetails{
		Service: domyland.ServiceDetails{
			OrderForm: []domyland.OrderFormField{
				{Type: domyland.SummaryTypeText, Title: domyland.SummaryTitleComment, Value: comment},
			},
		},
		Order: domyland.OrderSummary{
			Summary: []domyland.SummaryField{
				{Title: domyland.SummaryTitleObject, Value: address},
			},
		},
	}
}

func enabledConfig() *tenants.ClassificationConfig {
	return &tenants.ClassificationConfig{
		Client:                     "vysota",
		UserID:                     501,
		UseEmergencyClassification: true,
		UseOrderUpdating:           true,
		EmergencyPrompt:            "Классифицируй заявку",
	}
}

func newRuntime(dom *fakeDomyland, cls *fakeClassifier, ten *fakeTenants, units []uds.Unit) *workflow.Runtime {
	return &workflow.Runtime{
		Domyland:   dom,
		Classifier: cls,
		Tenants:    ten,
		Units:      units,
		Dispatch:   workflow.Dispatch{ResponsibleDeptID: 38, InspectorUserID: 15698},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newAlert(orderID int64, statusID, alertTypeID int) workflow.Request {
	return workflow.Request{
		AlertID:     "alert-1",
		AlertTypeID: alertTypeID,
		Timestamp:   1700000000,
		Data:        workflow.OrderData{OrderID: orderID, OrderStatusID: statusID},
	}
}

func TestExecuteEmergencyDispatch(t *testing.T) {
	dom := &fakeDomyland{details: emergencyDetails("Труба течет, срочно!", "ул. Ленина 5")}
	cls := &fakeClassifier{label: "аварийная"}
	ten := &fakeTenants{cfg: enabledConfig()}
	units := []uds.Unit{{UserID: 7, Addresses: []string{"ленина"}}}

	rt := newRuntime(dom, cls, ten, units)
	record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusPending, domyland.AlertTypeNewOrder), "vysota")

	if record.Failed {
		t.Fatalf("record failed: %v", record.Comment)
	}
	if record.IsEmergency == nil || !*record.IsEmergency {
		t.Error("IsEmergency not set true")
	}
	if record.UDSID == nil || *record.UDSID != "[7]" {
		t.Errorf("UDSID = %v, want [7]", record.UDSID)
	}
	if record.Query == nil || *record.Query != "Труба течет, срочно!" {
		t.Errorf("Query = %v", record.Query)
	}
	if record.Address == nil || *record.Address != "ул. Ленина 5" {
		t.Errorf("Address = %v", record.Address)
	}

	if dom.updateCalls != 1 {
		t.Errorf("updateCalls = %d, want 1", dom.updateCalls)
	}
	if dom.lastUpdate.ResponsibleDeptID != 38 {
		t.Errorf("ResponsibleDeptID = %d, want 38", dom.lastUpdate.ResponsibleDeptID)
	}
	if dom.lastUpdate.OrderStatusID != domyland.OrderStatusInProgress {
		t.Errorf("OrderStatusID = %d, want %d", dom.lastUpdate.OrderStatusID, domyland.OrderStatusInProgress)
	}
	if len(dom.lastUpdate.ResponsibleUserIDs) != 1 || dom.lastUpdate.ResponsibleUserIDs[0] != 7 {
		t.Errorf("ResponsibleUserIDs = %v, want [7]", dom.lastUpdate.ResponsibleUserIDs)
	}
	if len(dom.lastUpdate.InspectorIDs) != 1 || dom.lastUpdate.InspectorIDs[0] != 15698 {
		t.Errorf("InspectorIDs = %v, want [15698]", dom.lastUpdate.InspectorIDs)
	}

	if dom.chatCalls != 1 {
		t.Errorf("chatCalls = %d, want 1", dom.chatCalls)
	}
	if dom.lastChat != "ИИ классифицировал эту заявку как аварийную" {
		t.Errorf("chat message = %q", dom.lastChat)
	}

	if len(record.UpdateRequest) == 0 || len(record.UpdateResponse) == 0 {
		t.Error("update request/response not recorded")
	}
}

func TestExecuteEmergencyLabelComparison(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		emergency bool
	}{
		{"exact", "аварийная", true},
		{"upper case", "АВАРИЙНАЯ", true},
		{"padded", "  аварийная  ", true},
		{"non emergency", "обычная", false},
		{"embedded word", "скорее аварийная", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dom := &fakeDomyland{details: emergencyDetails("Труба течет", "ул. Ленина 5")}
			cls := &fakeClassifier{label: tt.label}
			ten := &fakeTenants{cfg: enabledConfig()}
			units := []uds.Unit{{UserID: 7, Addresses: []string{"ленина"}}}

			rt := newRuntime(dom, cls, ten, units)
			record := workflow.Execute(context.Background(), rt, newAlert(1, domyland.OrderStatusPending, domyland.AlertTypeNewOrder), "vysota")

			if record.Failed {
				t.Fatalf("record failed: %v", record.Comment)
			}
			if record.IsEmergency == nil || *record.IsEmergency != tt.emergency {
				t.Errorf("IsEmergency = %v, want %v", record.IsEmergency, tt.emergency)
			}
			wantUpdates := 0
			if tt.emergency {
				wantUpdates = 1
			}
			if dom.updateCalls != wantUpdates {
				t.Errorf("updateCalls = %d, want %d", dom.updateCalls, wantUpdates)
			}
		})
	}
}

func TestExecuteNonPendingOrder(t *testing.T) {
	dom := &fakeDomyland{details: emergencyDetails("Труба течет", "ул. Ленина 5")}
	cls := &fakeClassifier{label: "аварийная"}
	ten := &fakeTenants{cfg: enabledConfig()}

	rt := newRuntime(dom, cls, ten, nil)
	record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusInProgress, domyland.AlertTypeNewOrder), "vysota")

	if !record.Failed {
		t.Fatal("expected failed record")
	}
	if record.Comment == nil {
		t.Fatal("expected failure comment")
	}
	if cls.calls != 0 {
		t.Error("classifier called for non-pending order")
	}
	if dom.updateCalls != 0 || dom.chatCalls != 0 {
		t.Error("domyland mutated for non-pending order")
	}
}

func TestExecuteWrongAlertType(t *testing.T) {
	dom := &fakeDomyland{details: emergencyDetails("Труба течет", "ул. Ленина 5")}
	cls := &fakeClassifier{label: "аварийная"}
	ten := &fakeTenants{cfg: enabledConfig()}

	rt := newRuntime(dom, cls, ten, nil)
	record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusPending, 99), "vysota")

	if !record.Failed {
		t.Fatal("expected failed record")
	}
	if cls.calls != 0 {
		t.Error("classifier called for wrong alert type")
	}
}

func TestExecuteConfigMissing(t *testing.T) {
	dom := &fakeDomyland{details: emergencyDetails("Труба течет", "ул. Ленина 5")}
	cls := &fakeClassifier{label: "аварийная"}
	ten := &fakeTenants{err: tenants.ErrNotFound}

	rt := newRuntime(dom, cls, ten, nil)
	record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusPending, domyland.AlertTypeNewOrder), "vysota")

	if !record.Failed {
		t.Fatal("expected failed record")
	}
	if record.Comment == nil {
		t.Fatal("expected failure comment")
	}
}

func TestExecuteMissingComment(t *testing.T) {
	tests := []struct {
		name    string
		details *domyland.OrderDetails
	}{
		{
			name: "no comment field",
			details: &domyland.OrderDetails{
				Order: domyland.OrderSummary{
					Summary: []domyland.SummaryField{
						{Title: domyland.SummaryTitleObject, Value: "ул. Ленина 5"},
					},
				},
			},
		},
		{
			name:    "blank comment",
			details: emergencyDetails("   ", "ул. Ленина 5"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dom := &fakeDomyland{details: tt.details}
			cls := &fakeClassifier{label: "аварийная"}
			ten := &fakeTenants{cfg: enabledConfig()}

			rt := newRuntime(dom, cls, ten, nil)
			record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusPending, domyland.AlertTypeNewOrder), "vysota")

			if !record.Failed {
				t.Fatal("expected failed record")
			}
			if cls.calls != 0 {
				t.Error("classifier called without comment")
			}
		})
	}
}

func TestExecuteMissingAddress(t *testing.T) {
	details := &domyland.OrderDetails{
		Service: domyland.ServiceDetails{
			OrderForm: []domyland.OrderFormField{
				{Type: domyland.SummaryTypeText, Title: domyland.SummaryTitleComment, Value: "Труба течет"},
			},
		},
	}

	dom := &fakeDomyland{details: details}
	cls := &fakeClassifier{label: "аварийная"}
	ten := &fakeTenants{cfg: enabledConfig()}

	rt := newRuntime(dom, cls, ten, nil)
	record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusPending, domyland.AlertTypeNewOrder), "vysota")

	if !record.Failed {
		t.Fatal("expected failed record")
	}
	if record.Query == nil {
		t.Error("comment should still be recorded")
	}
	if cls.calls != 0 {
		t.Error("classifier called without address")
	}
}

func TestExecuteLastCommentWins(t *testing.T) {
	details := emergencyDetails("первый комментарий", "ул. Ленина 5")
	details.Service.OrderForm = append(details.Service.OrderForm, domyland.OrderFormField{
		Type:  domyland.SummaryTypeText,
		Title: domyland.SummaryTitleComment,
		Value: "второй комментарий",
	})

	dom := &fakeDomyland{details: details}
	cls := &fakeClassifier{label: "обычная"}
	ten := &fakeTenants{cfg: enabledConfig()}

	rt := newRuntime(dom, cls, ten, nil)
	record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusPending, domyland.AlertTypeNewOrder), "vysota")

	if record.Failed {
		t.Fatalf("record failed: %v", record.Comment)
	}
	if record.Query == nil || *record.Query != "второй комментарий" {
		t.Errorf("Query = %v, want second comment", record.Query)
	}
}

func TestExecuteClassificationDisabled(t *testing.T) {
	cfg := enabledConfig()
	cfg.UseEmergencyClassification = false
	cfg.UseOrderUpdating = false

	dom := &fakeDomyland{details: emergencyDetails("Труба течет", "ул. Ленина 5")}
	cls := &fakeClassifier{label: "аварийная"}
	ten := &fakeTenants{cfg: cfg}

	rt := newRuntime(dom, cls, ten, nil)
	record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusPending, domyland.AlertTypeNewOrder), "vysota")

	if record.Failed {
		t.Fatalf("record failed: %v", record.Comment)
	}
	if cls.calls != 0 {
		t.Error("classifier called while disabled")
	}
	if record.IsEmergency != nil {
		t.Error("IsEmergency should stay unset while disabled")
	}
	if record.Emergency == nil || *record.Emergency != "skipped by emergency classification config of user with ID 501" {
		t.Errorf("Emergency = %v, want skip marker", record.Emergency)
	}
	if dom.updateCalls != 0 || dom.chatCalls != 0 {
		t.Error("domyland mutated while disabled")
	}
}

func TestExecuteOrderUpdatingDisabled(t *testing.T) {
	cfg := enabledConfig()
	cfg.UseOrderUpdating = false

	dom := &fakeDomyland{details: emergencyDetails("Труба течет", "ул. Ленина 5")}
	cls := &fakeClassifier{label: "аварийная"}
	ten := &fakeTenants{cfg: cfg}
	units := []uds.Unit{{UserID: 7, Addresses: []string{"ленина"}}}

	rt := newRuntime(dom, cls, ten, units)
	record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusPending, domyland.AlertTypeNewOrder), "vysota")

	if record.Failed {
		t.Fatalf("record failed: %v", record.Comment)
	}
	if record.IsEmergency == nil || !*record.IsEmergency {
		t.Error("IsEmergency not set true")
	}
	if record.UDSID == nil || *record.UDSID != "[7]" {
		t.Errorf("UDSID = %v, want [7]", record.UDSID)
	}
	if dom.updateCalls != 0 || dom.chatCalls != 0 {
		t.Error("domyland mutated while updating disabled")
	}

	var marker map[string]string
	if err := json.Unmarshal(record.UpdateRequest, &marker); err != nil {
		t.Fatalf("decode update request marker: %v", err)
	}
	if marker["result"] != "skipped by emergency classification config of user with ID 501" {
		t.Errorf("marker = %q", marker["result"])
	}
}

func TestExecuteNoResponsibleUnit(t *testing.T) {
	dom := &fakeDomyland{details: emergencyDetails("Труба течет", "ул. Мира 1")}
	cls := &fakeClassifier{label: "аварийная"}
	ten := &fakeTenants{cfg: enabledConfig()}
	units := []uds.Unit{{UserID: 7, Addresses: []string{"ленина"}}}

	rt := newRuntime(dom, cls, ten, units)
	record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusPending, domyland.AlertTypeNewOrder), "vysota")

	if !record.Failed {
		t.Fatal("expected failed record")
	}
	if record.IsEmergency == nil || !*record.IsEmergency {
		t.Error("emergency decision should still be recorded")
	}
	if dom.updateCalls != 0 {
		t.Error("update sent without responsible unit")
	}
}

func TestExecuteUpstreamFailureRecorded(t *testing.T) {
	dom := &fakeDomyland{detailsErr: errors.New("connection refused")}
	cls := &fakeClassifier{label: "аварийная"}
	ten := &fakeTenants{cfg: enabledConfig()}

	rt := newRuntime(dom, cls, ten, nil)
	record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusPending, domyland.AlertTypeNewOrder), "vysota")

	if !record.Failed {
		t.Fatal("expected failed record")
	}
	if record.Comment == nil || *record.Comment == "" {
		t.Error("expected failure comment")
	}
	if record.OrderID != 42 {
		t.Errorf("OrderID = %d, want 42", record.OrderID)
	}
}

func TestExecuteUpdateFailureRecorded(t *testing.T) {
	dom := &fakeDomyland{
		details:   emergencyDetails("Труба течет", "ул. Ленина 5"),
		updateErr: errors.New("bad gateway"),
	}
	cls := &fakeClassifier{label: "аварийная"}
	ten := &fakeTenants{cfg: enabledConfig()}
	units := []uds.Unit{{UserID: 7, Addresses: []string{"ленина"}}}

	rt := newRuntime(dom, cls, ten, units)
	record := workflow.Execute(context.Background(), rt, newAlert(42, domyland.OrderStatusPending, domyland.AlertTypeNewOrder), "vysota")

	if !record.Failed {
		t.Fatal("expected failed record")
	}
	if len(record.UpdateRequest) == 0 {
		t.Error("update request should be recorded before the call")
	}
	if dom.chatCalls != 0 {
		t.Error("chat posted after failed update")
	}
}
