package mailapi

// ErrorResponse is the error body returned by the mail server.
// A nil or empty Error means the request succeeded.
type ErrorResponse struct {
	Error string `json:"error,omitempty"`
}

// SendResponse is the body returned by POST /emails.
type SendResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// readUpdate is the partial record sent to mark an email read.
type readUpdate struct {
	Read bool `json:"read"`
}

// archiveUpdate is the partial record sent to (un)archive an email.
type archiveUpdate struct {
	Archived bool `json:"archived"`
}
