package action

import "time"

// Result reports the outcome of a single dispatched action.
type Result struct {
	Success     bool      `json:"success"`
	Action      *Action   `json:"action"`
	Message     string    `json:"message,omitempty"`
	Error       string    `json:"error,omitempty"`
	ExecutionMS float64   `json:"execution_time_ms"`
	Timestamp   time.Time `json:"timestamp"`
}

// SuccessResult builds a successful Result for the given action.
func SuccessResult(a *Action, message string, execTime time.Duration) *Result {
	return &Result{
		Success:     true,
		Action:      a,
		Message:     message,
		ExecutionMS: float64(execTime) / float64(time.Millisecond),
		Timestamp:   time.Now(),
	}
}

// FailureResult builds a failed Result carrying the error text.
func FailureResult(a *Action, err error) *Result {
	r := &Result{
		Success:   false,
		Action:    a,
		Message:   "action failed",
		Timestamp: time.Now(),
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
