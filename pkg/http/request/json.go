// Package request decodes JSON request bodies.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps the size of a JSON request body.
const MaxBodyBytes = 1 << 20

// ErrMalformedJSON means the body is not syntactically valid JSON.
var ErrMalformedJSON = errors.New("malformed json body")

// ErrInvalidBody means the JSON is well formed but does not fit the target type.
var ErrInvalidBody = errors.New("invalid request body")

// DecodeJSON decodes the body into dst. An empty body leaves dst untouched so
// that field validation reports the missing fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	err := dec.Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return nil
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidBody, err)
}
