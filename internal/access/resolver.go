// Package access decides who may see what on an interview. Every interview
// page load goes through Resolve; every completion goes through the Gate.
package access

import (
	"context"

	"interviewai/interview/internal/models"
)

// Kind enumerates the outcomes of an access resolution.
type Kind string

const (
	Denied           Kind = "denied"
	OwnerView        Kind = "owner_view"
	CandidateView    Kind = "candidate_view"
	AlreadyCompleted Kind = "already_completed"
)

// DenyReason says why a resolution failed. All denials fail closed; callers
// must re-authenticate rather than retry.
type DenyReason string

const (
	ReasonNotFound        DenyReason = "not_found"
	ReasonWrongInterview  DenyReason = "wrong_interview"
	ReasonInvalidSession  DenyReason = "invalid_session"
	ReasonUnauthenticated DenyReason = "unauthenticated"
)

// Identity is the caller's presented identity: an authenticated HR account,
// a candidate session credential, or neither.
type Identity struct {
	AccountID string
	Session   *models.CandidateSession
}

// Authorization is the resolver's decision plus the resolved identity.
type Authorization struct {
	Kind           Kind
	Reason         DenyReason
	OwnerID        string
	CandidateEmail string
	// SessionInterviewID is set on wrong_interview denials so the caller
	// can redirect to the interview the session actually belongs to.
	SessionInterviewID string
}

func deny(reason DenyReason) Authorization {
	return Authorization{Kind: Denied, Reason: reason}
}

// InterviewReader is the read-only slice of the record store the resolver
// needs.
type InterviewReader interface {
	GetByID(ctx context.Context, id string) (*models.Interview, error)
}

type Resolver struct {
	store InterviewReader
}

func NewResolver(store InterviewReader) *Resolver {
	return &Resolver{store: store}
}

// Resolve runs the access decision procedure for one interview page load.
// It only ever reads; completion state is flipped by the Gate alone.
func (r *Resolver) Resolve(ctx context.Context, identity Identity, interviewID string) Authorization {
	interview, err := r.store.GetByID(ctx, interviewID)
	if err != nil {
		// a deleted or unknown interview fails closed
		return deny(ReasonNotFound)
	}

	if identity.AccountID != "" && identity.AccountID == interview.OwnerID {
		return Authorization{Kind: OwnerView, OwnerID: interview.OwnerID}
	}

	if session := identity.Session; session != nil {
		if session.InterviewID != interviewID {
			auth := deny(ReasonWrongInterview)
			auth.SessionInterviewID = session.InterviewID
			return auth
		}

		candidate, ok := matchCandidate(Roster(interview), session)
		if !ok {
			return deny(ReasonInvalidSession)
		}
		if candidate.Completed {
			return Authorization{Kind: AlreadyCompleted, CandidateEmail: candidate.Email}
		}
		return Authorization{Kind: CandidateView, CandidateEmail: candidate.Email}
	}

	return deny(ReasonUnauthenticated)
}

// Roster materializes the logical roster. Legacy single-candidate records
// are synthesized into a one-entry roster here and nowhere else; when both
// representations are populated the roster array wins.
func Roster(interview *models.Interview) []models.Candidate {
	if len(interview.Candidates) > 0 {
		return interview.Candidates
	}
	if interview.Email == "" || interview.SessionCode == "" {
		return nil
	}
	return []models.Candidate{{
		Email:       interview.Email,
		SessionCode: interview.SessionCode,
		Completed:   interview.Completed,
		CompletedAt: interview.CompletedAt,
	}}
}

// matchCandidate requires both fields to match: a leaked code without the
// email, or a known email without the code, grants nothing.
func matchCandidate(roster []models.Candidate, session *models.CandidateSession) (models.Candidate, bool) {
	for _, c := range roster {
		if c.Email == session.Email && c.SessionCode == session.SessionCode {
			return c, true
		}
	}
	return models.Candidate{}, false
}

// MatchRoster reports the candidate on an interview matching the credential,
// using the same reconciliation rules as Resolve. Used by candidate sign-in.
func MatchRoster(interview *models.Interview, email, sessionCode string) (models.Candidate, bool) {
	return matchCandidate(Roster(interview), &models.CandidateSession{
		Email:       email,
		SessionCode: sessionCode,
	})
}
