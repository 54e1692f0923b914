// Package responseformat encodes HTTP responses as JSON or MessagePack.
package responseformat

import (
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// WriteResponse writes the response in the appropriate format based on the
// query parameter. JSON is the default; MessagePack is used when
// format=msgpack is specified.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, statusCode int, data any) error {
	if req.URL.Query().Get("format") == "msgpack" {
		return f.writeMsgPack(w, statusCode, data)
	}
	return f.writeJSON(w, statusCode, data)
}

func (f *Formatter) writeJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func (f *Formatter) writeMsgPack(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/x-msgpack")
	w.WriteHeader(statusCode)
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
