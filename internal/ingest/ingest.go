// Package ingest orchestrates the ingestion pipeline on the client side:
// concurrent file uploads, the Process and Index stages, and the
// long-running scrape workflow. Components here own the state machines and
// single-flight guards; all network traffic goes through the fehres client.
package ingest

import (
	"errors"
	"fmt"
)

// ErrBusy is the sentinel for orchestration-level refusals: an operation
// was rejected because an instance of it is already in flight. No network
// request is made for a rejected call.
var ErrBusy = errors.New("operation already in progress")

// BusyError reports which operation was refused.
type BusyError struct {
	Operation string
}

// Error implements the error interface.
func (e *BusyError) Error() string {
	return fmt.Sprintf("%s is already in progress", e.Operation)
}

// Unwrap returns the sentinel error for errors.Is() checking.
func (e *BusyError) Unwrap() error {
	return ErrBusy
}
