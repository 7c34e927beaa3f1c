package fehres

import "encoding/json"

// fallbackErrorMessage is returned when an error body carries no usable field.
const fallbackErrorMessage = "An error occurred"

// errorEnvelope mirrors the backend's loosely-cased error body. Different
// route groups emit "signal", "Signal" or "error" for the same concept, so
// the raw shape is decoded once here and never leaks past the client.
type errorEnvelope struct {
	Signal      string `json:"signal"`
	SignalUpper string `json:"Signal"`
	ErrorField  string `json:"error"`
}

// message extracts the display message, preferring signal over Signal over
// error, falling back to a fixed string.
func (e errorEnvelope) message() string {
	switch {
	case e.Signal != "":
		return e.Signal
	case e.SignalUpper != "":
		return e.SignalUpper
	case e.ErrorField != "":
		return e.ErrorField
	default:
		return fallbackErrorMessage
	}
}

// extractErrorMessage parses an error response body into a display message.
// Unparseable bodies yield the fallback message.
func extractErrorMessage(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fallbackErrorMessage
	}
	return envelope.message()
}
