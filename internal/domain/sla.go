package domain

// SLA maps a (severity, priority) pair onto a resolution window in
// hours. Admin-managed reference data.
type SLA struct {
	ID          int64
	Severity    Severity
	Priority    Priority
	TimeLimitHr int
}
