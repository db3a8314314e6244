package server

import "github.com/xdb-io/xdb"

// Request is a single-line JSON command. Action selects the operation;
// Collection is required for everything except "exit"; the remaining fields
// are action-specific.
type Request struct {
	Action     string       `json:"action"`
	Collection string       `json:"collection,omitempty"`
	Data       xdb.Document `json:"data,omitempty"`
	Query      xdb.Filter   `json:"query,omitempty"`
	Limit      int          `json:"limit,omitempty"`
	ID         string       `json:"id,omitempty"`
}

// Response is the single-line JSON answer to a Request.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	statusOK    = "ok"
	statusError = "error"
)

func okResponse(message string, data any) Response {
	return Response{Status: statusOK, Message: message, Data: data}
}

func errorResponse(message string) Response {
	return Response{Status: statusError, Message: message}
}
