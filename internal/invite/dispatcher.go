// Package invite delivers session codes to invited candidates. Delivery is
// best-effort per recipient: access rights come from the persisted roster,
// not from the email, so a failed send never rolls anything back.
package invite

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"interviewai/interview/internal/models"
)

// Notifier is the external notification service.
type Notifier interface {
	Send(to, subject, body string) error
}

// Metadata describes the interview the invites belong to.
type Metadata struct {
	InterviewID string
	Role        string
}

// Result records the delivery outcome for one candidate.
type Result struct {
	Email string `json:"email"`
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

// Summary aggregates per-candidate results for one dispatch.
type Summary struct {
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Results []Result `json:"results"`
}

type Dispatcher struct {
	notifier Notifier
	logger   *zap.Logger
}

func NewDispatcher(notifier Notifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{notifier: notifier, logger: logger}
}

// Dispatch sends one invitation per candidate concurrently. Each send
// succeeds or fails on its own; there is no ordering guarantee among
// recipients and no retry here.
func (d *Dispatcher) Dispatch(roster []models.Candidate, meta Metadata) Summary {
	results := make([]Result, len(roster))

	var wg sync.WaitGroup
	for i, candidate := range roster {
		wg.Add(1)
		go func(i int, c models.Candidate) {
			defer wg.Done()

			subject := fmt.Sprintf("Your Interview Session Code - %s", meta.Role)
			err := d.notifier.Send(c.Email, subject, inviteBody(c, meta))
			if err != nil {
				d.logger.Warn("invite delivery failed",
					zap.String("email", c.Email),
					zap.String("interviewId", meta.InterviewID),
					zap.Error(err))
				results[i] = Result{Email: c.Email, Error: err.Error()}
				return
			}
			results[i] = Result{Email: c.Email, Sent: true}
		}(i, candidate)
	}
	wg.Wait()

	summary := Summary{Results: results}
	for _, r := range results {
		if r.Sent {
			summary.Sent++
		} else {
			summary.Failed++
		}
	}
	d.logger.Info("invite dispatch finished",
		zap.String("interviewId", meta.InterviewID),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed))
	return summary
}

func inviteBody(c models.Candidate, meta Metadata) string {
	return fmt.Sprintf(`Hi there!

You have been invited to an interview session.

Session Code: %s
Role: %s
Interview ID: %s

Use this code together with your email address to access your interview.
Keep it safe - the code is valid for your entire session and can be used
to complete the interview once.

Good luck!

---
InterviewAI
`, c.SessionCode, meta.Role, meta.InterviewID)
}
