package middleware

// Context keys used to store request and session metadata.
const (
	ContextKeyOperator  = "operator_email"
	ContextKeyRole      = "operator_role"
	ContextKeyRequestID = "request_id"
)
