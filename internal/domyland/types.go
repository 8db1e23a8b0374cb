package domyland

// Order status IDs as defined by the Domyland order-management system.
const (
	OrderStatusPending    = 1
	OrderStatusInProgress = 2
)

// Alert type IDs carried by Domyland webhook notifications.
const (
	AlertTypeNewOrder = 1
)

// Service form field markers used to extract resident input semantically.
const (
	SummaryTypeText     = "text"
	SummaryTitleComment = "Комментарий"
	SummaryTitleObject  = "Объект"
)

// OrderDetails is the order record returned by the dispatcher order-info
// endpoint. Only the fields the classification pipeline reads are mapped.
type OrderDetails struct {
	Service ServiceDetails `json:"service"`
	Order   OrderSummary   `json:"order"`
}

// ServiceDetails holds the service form the resident filled in.
type ServiceDetails struct {
	OrderForm []OrderFormField `json:"orderForm"`
}

// OrderFormField is a single typed field of the resident service form.
type OrderFormField struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// OrderSummary holds the order summary presented to dispatchers.
type OrderSummary struct {
	Summary []SummaryField `json:"summary"`
}

// SummaryField is a single titled value of the order summary.
type SummaryField struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// StatusUpdate carries the order reassignment written back to Domyland
// when an order is classified as an emergency.
type StatusUpdate struct {
	ResponsibleDeptID  int64   `json:"responsibleDeptId"`
	OrderStatusID      int     `json:"orderStatusId"`
	ResponsibleUserIDs []int64 `json:"responsibleUserIds"`
	InspectorIDs       []int64 `json:"inspectorIds"`
}

type authRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TenantName string `json:"tenantName"`
}

type authResponse struct {
	Token string `json:"token"`
}

type chatMessageRequest struct {
	OrderID     int64  `json:"orderId"`
	Text        string `json:"text"`
	IsImportant bool   `json:"isImportant"`
}
