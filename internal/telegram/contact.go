package telegram

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ContactOutcome tags the possible results of the host contact-share dialog.
type ContactOutcome string

const (
	// ContactAcceptedWithNumber means the user shared a usable phone number.
	ContactAcceptedWithNumber ContactOutcome = "accepted_with_number"
	// ContactAcceptedWithoutNumber means the dialog succeeded but the
	// payload carried no number; manual entry stays the fallback.
	ContactAcceptedWithoutNumber ContactOutcome = "accepted_without_number"
	// ContactDeclined means the user dismissed the dialog.
	ContactDeclined ContactOutcome = "declined"
	// ContactUnsupported means the host surface cannot show the dialog.
	ContactUnsupported ContactOutcome = "unsupported"
)

// ContactShareResult is the normalized outcome of one contact callback.
// Phone is set only for ContactAcceptedWithNumber.
type ContactShareResult struct {
	Outcome ContactOutcome `json:"outcome"`
	Phone   string         `json:"phone,omitempty"`
}

// ContactCallback is the loosely-shaped payload the host delivers. The
// contact object has moved between fields across client versions, so all
// known locations are accepted.
type ContactCallback struct {
	Supported bool             `json:"supported"`
	Sent      bool             `json:"sent"`
	Response  *contactEnvelope `json:"response,omitempty"`
	// Older clients put the contact at the top level or under responseUnsafe.
	Contact        *contactPayload  `json:"contact,omitempty"`
	ResponseUnsafe *contactEnvelope `json:"response_unsafe,omitempty"`
}

type contactEnvelope struct {
	Contact *contactPayload `json:"contact,omitempty"`
}

type contactPayload struct {
	PhoneNumber string `json:"phone_number"`
}

var nonDigitRe = regexp.MustCompile(`\D`)

// NormalizeContactCallback collapses the callback into a tagged result.
func NormalizeContactCallback(payload ContactCallback) ContactShareResult {
	if !payload.Supported {
		return ContactShareResult{Outcome: ContactUnsupported}
	}
	if !payload.Sent {
		return ContactShareResult{Outcome: ContactDeclined}
	}

	contact := payload.firstContact()
	if contact == nil || strings.TrimSpace(contact.PhoneNumber) == "" {
		return ContactShareResult{Outcome: ContactAcceptedWithoutNumber}
	}

	phone := NormalizePhone(contact.PhoneNumber)
	if phone == "" {
		return ContactShareResult{Outcome: ContactAcceptedWithoutNumber}
	}
	return ContactShareResult{Outcome: ContactAcceptedWithNumber, Phone: phone}
}

// ParseContactCallback decodes the raw body and normalizes it.
func ParseContactCallback(body []byte) (ContactShareResult, error) {
	var payload ContactCallback
	if err := json.Unmarshal(body, &payload); err != nil {
		return ContactShareResult{}, err
	}
	return NormalizeContactCallback(payload), nil
}

func (c ContactCallback) firstContact() *contactPayload {
	if c.Response != nil && c.Response.Contact != nil {
		return c.Response.Contact
	}
	if c.Contact != nil {
		return c.Contact
	}
	if c.ResponseUnsafe != nil && c.ResponseUnsafe.Contact != nil {
		return c.ResponseUnsafe.Contact
	}
	return nil
}

// NormalizePhone strips formatting and forces the leading plus. Shared
// numbers sometimes arrive without one. Returns empty when nothing
// usable remains.
func NormalizePhone(raw string) string {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}
	return "+" + digits
}
