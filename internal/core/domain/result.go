package domain

// Result is the envelope returned by every pipeline stage and every handler.
// When IsError is true, Message is never empty.
type Result struct {
	IsError bool   `json:"is_error"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`

	// Err classifies the failure for the transport layer.
	Err error `json:"-"`
}

// OK builds a success envelope.
func OK(message string, data any) Result {
	return Result{Message: message, Data: data}
}

// Fail builds an error envelope. An empty message falls back to err's text.
func Fail(err error, message string) Result {
	if message == "" && err != nil {
		message = err.Error()
	}
	if message == "" {
		message = "operation failed"
	}
	return Result{IsError: true, Message: message, Err: err}
}

// TokenGrant is the data of a successful sign-in or sign-up.
type TokenGrant struct {
	Token string `json:"token"`
}
