package transfer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mahamat-dev/sahelpay/internal/phone"
)

// ParseScanPayload extracts a recipient phone number from a scanned code.
// Accepted payloads: a bare phone number, a "sahelpay:" URI wrapping one,
// or a query-style payload carrying a "phone" parameter. The result feeds
// the same validation as typed input.
func ParseScanPayload(payload string) (string, error) {
	p := strings.TrimSpace(payload)
	p = strings.TrimPrefix(p, "sahelpay:")

	if strings.Contains(p, "phone=") {
		vals, err := url.ParseQuery(strings.TrimPrefix(p, "?"))
		if err != nil {
			return "", fmt.Errorf("parse scan payload: %w", err)
		}

		p = vals.Get("phone")
	}

	number, err := phone.Normalize(p)
	if err != nil {
		return "", fmt.Errorf("parse scan payload: %w", err)
	}

	return number, nil
}

// FillFromScan populates the recipient field from a scanned code. The
// draft is untouched when the payload does not contain a usable number.
func (c *Controller) FillFromScan(payload string) error {
	number, err := ParseScanPayload(payload)
	if err != nil {
		return err
	}

	c.SetRecipient(number)

	return nil
}
