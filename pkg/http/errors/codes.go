package errors

import "net/http"

// Messages returned in the "message" field of every error body.
const (
	MsgBadRequest       = "Bad Request"
	MsgUnauthorized     = "Unauthorized"
	MsgNotFound         = "Resource Not Found"
	MsgMethodNotAllowed = "Method Not Allowed"
	MsgRequestTimeout   = "Request Timeout"
	MsgUnprocessable    = "Unprocessable"
	MsgTooManyRequests  = "Too Many Requests"
	MsgInternalError    = "Internal Server Error"
	MsgBadGateway       = "Upstream Unavailable"
)

var messages = map[int]string{
	http.StatusBadRequest:          MsgBadRequest,
	http.StatusUnauthorized:        MsgUnauthorized,
	http.StatusNotFound:            MsgNotFound,
	http.StatusMethodNotAllowed:    MsgMethodNotAllowed,
	http.StatusRequestTimeout:      MsgRequestTimeout,
	http.StatusUnprocessableEntity: MsgUnprocessable,
	http.StatusTooManyRequests:     MsgTooManyRequests,
	http.StatusInternalServerError: MsgInternalError,
	http.StatusBadGateway:          MsgBadGateway,
}

// MessageFor returns the canonical message for a status code, falling back
// to the standard library's status text.
func MessageFor(status int) string {
	if msg, ok := messages[status]; ok {
		return msg
	}
	return http.StatusText(status)
}
