// Package roster turns a free-form recipient list into the candidate roster
// persisted with a new interview.
package roster

import (
	"errors"
	"strings"

	"interviewai/interview/internal/models"
	"interviewai/interview/internal/sessioncode"
)

// ErrNoValidRecipients is returned when the input contains no parseable
// address. Callers must not create an interview in that case.
var ErrNoValidRecipients = errors.New("no valid recipient addresses")

// generate is swapped out in tests to force code collisions.
var generate = sessioncode.Generate

// ParseEmails normalizes a raw recipient list: split on commas or newlines,
// trim, lower-case, drop entries without a domain separator, and dedupe
// preserving first-seen order.
func ParseEmails(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})

	seen := make(map[string]bool, len(parts))
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		email := strings.ToLower(strings.TrimSpace(p))
		if email == "" || !strings.Contains(email, "@") {
			continue
		}
		if seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails
}

// Build produces the candidate roster for one interview. The returned roster
// has unique emails and unique session codes, in first-seen input order, all
// with completion unset. Build has no side effects; persisting the roster is
// the caller's job.
func Build(raw string) ([]models.Candidate, error) {
	emails := ParseEmails(raw)
	if len(emails) == 0 {
		return nil, ErrNoValidRecipients
	}

	issued := make(map[string]bool, len(emails))
	candidates := make([]models.Candidate, 0, len(emails))
	for _, email := range emails {
		code := generate()
		// re-roll on collision with a code already issued in this roster
		for issued[code] {
			code = generate()
		}
		issued[code] = true

		candidates = append(candidates, models.Candidate{
			Email:       email,
			SessionCode: code,
			Completed:   false,
		})
	}
	return candidates, nil
}
