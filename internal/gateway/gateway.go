// Package gateway holds the pieces shared by every wallet API gateway
// implementation. The gateway interfaces themselves live with their
// consumers (ledger, wallet, transfer).
package gateway

import "fmt"

// APIError is a rejection from the wallet API. Message carries the
// server's human-readable text, which the UI surfaces verbatim when
// present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("wallet api: status %d", e.Status)
	}

	return fmt.Sprintf("wallet api: status %d: %s", e.Status, e.Message)
}
