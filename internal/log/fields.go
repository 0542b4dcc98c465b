package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldTxnID      = "transaction_id"
	FieldTxnType    = "transaction_type"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldCurrency   = "currency"
	FieldModel      = "model"
)

// Standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentAuth     = "auth"
	ComponentStorage  = "storage"
	ComponentRates    = "rates"
	ComponentInsights = "insights"
	ComponentPrefs    = "prefs"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentBackend  = "backend"
	ComponentCache    = "cache"
)

// Standard operation names
const (
	OpAdd      = "add"
	OpList     = "list"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpSignIn   = "sign_in"
	OpSignUp   = "sign_up"
	OpLogout   = "logout"
	OpFetch    = "fetch"
	OpGenerate = "generate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
