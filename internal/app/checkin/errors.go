package checkin

const (
	CodeNotFound        = "NOT_FOUND"
	CodeBillingBlocked  = "BILLING_BLOCKED"
	CodeRecordingFailed = "RECORDING_FAILED"
	CodeLookupFailed    = "LOOKUP_FAILED"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidState    = "INVALID_STATE"
	CodeSessionNotFound = "SESSION_NOT_FOUND"
)

// User-facing messages for attempt outcomes.
const (
	MessagePaymentPending = "Subscription payment is pending. Collect the payment before renewing or checking in."
	MessageBillingUnknown = "Billing status could not be verified. Collect or confirm the payment before checking in."
	MessageNoResults      = "No members found."
	MessageCodeNotFound   = "No member has that check-in code."
	MessageLookupFailed   = "Member lookup failed. Try again."
	MessageRecordFailed   = "Could not record the check-in. Try again."
)

// Error is an application-layer error that can be mapped to an HTTP response or shown on a terminal.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func cloneError(e *Error) *Error {
	if e == nil {
		return nil
	}
	out := *e
	if e.Details != nil {
		out.Details = make(map[string]any, len(e.Details))
		for k, v := range e.Details {
			out.Details[k] = v
		}
	}
	return &out
}
