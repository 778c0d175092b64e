package models

import "time"

// Candidate is one invited respondent on an interview's roster. Email and
// SessionCode are fixed at issuance; only the completion fields ever change.
type Candidate struct {
	Email       string     `json:"email" bson:"email"`
	SessionCode string     `json:"sessionCode" bson:"sessionCode"`
	Completed   bool       `json:"completed" bson:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// Interview is one HR-defined question set and invitation campaign.
type Interview struct {
	ID        string      `json:"id" bson:"_id"`
	OwnerID   string      `json:"ownerId" bson:"ownerId"`
	Role      string      `json:"role" bson:"role"`
	Level     string      `json:"level" bson:"level"`
	Type      string      `json:"type" bson:"type"`
	TechStack []string    `json:"techStack" bson:"techStack"`
	Questions []string    `json:"questions" bson:"questions"`
	Candidates []Candidate `json:"candidates,omitempty" bson:"candidates,omitempty"`
	Finalized bool        `json:"finalized" bson:"finalized"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`

	// Legacy single-candidate fields. Interviews created before rosters
	// existed carry exactly one implicit candidate here; newer records
	// mirror the first roster entry for backward compatibility.
	Email       string     `json:"email,omitempty" bson:"email,omitempty"`
	SessionCode string     `json:"sessionCode,omitempty" bson:"sessionCode,omitempty"`
	Completed   bool       `json:"completed,omitempty" bson:"completed,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// CandidateSession is the credential presented by an invited candidate. It is
// never persisted; it lives inside a signed token between requests.
type CandidateSession struct {
	Email       string `json:"email"`
	SessionCode string `json:"sessionCode"`
	InterviewID string `json:"interviewId"`
}

// User is an HR account that owns interviews.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Feedback is the assessment stored when a candidate finishes their flow.
type Feedback struct {
	ID              string          `json:"id" bson:"_id"`
	InterviewID     string          `json:"interviewId" bson:"interviewId"`
	CandidateEmail  string          `json:"candidateEmail" bson:"candidateEmail"`
	TotalScore      int             `json:"totalScore" bson:"totalScore"`
	CategoryScores  []CategoryScore `json:"categoryScores" bson:"categoryScores"`
	Strengths       []string        `json:"strengths" bson:"strengths"`
	AreasToImprove  []string        `json:"areasForImprovement" bson:"areasForImprovement"`
	FinalAssessment string          `json:"finalAssessment" bson:"finalAssessment"`
	Transcript      []Turn          `json:"transcript" bson:"transcript"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
}

// CategoryScore is one scored dimension of a feedback report.
type CategoryScore struct {
	Name    string `json:"name" bson:"name"`
	Score   int    `json:"score" bson:"score"`
	Comment string `json:"comment" bson:"comment"`
}

// Turn is one utterance of an interview transcript.
type Turn struct {
	Role    string `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}
