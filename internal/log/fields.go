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
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldEntity     = "entity"
	FieldEntityID   = "entity_id"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldCurrency   = "currency"
	FieldAmountBase = "amount_base"
	FieldCategory   = "category"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
)

// Operations defines standard operation names
const (
	OpCreate     = "create"
	OpDelete     = "delete"
	OpPay        = "pay"
	OpContribute = "contribute"
	OpReset      = "reset"
	OpImport     = "import"
	OpExport     = "export"
	OpMirror     = "mirror"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)
