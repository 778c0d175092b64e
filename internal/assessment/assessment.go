// Package assessment scores a finished interview transcript. The scoring
// model is an external collaborator returning unstructured text; its output
// is parsed defensively and a generation failure degrades to a zeroed report
// rather than failing the candidate's completion.
package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"interviewai/interview/internal/models"
)

// Assessor produces a feedback report from a transcript.
type Assessor interface {
	Assess(ctx context.Context, role string, transcript []models.Turn) (*Report, error)
}

// Report is the parsed model output.
type Report struct {
	TotalScore      int                    `json:"totalScore"`
	CategoryScores  []models.CategoryScore `json:"categoryScores"`
	Strengths       []string               `json:"strengths"`
	AreasToImprove  []string               `json:"areasForImprovement"`
	FinalAssessment string                 `json:"finalAssessment"`
}

var ErrUnparseableReport = errors.New("model returned no usable report")

// MinCandidateResponses is the fewest candidate turns worth scoring.
const MinCandidateResponses = 3

// ErrTranscriptTooShort rejects transcripts with too few candidate answers
// to evaluate meaningfully.
var ErrTranscriptTooShort = errors.New("transcript has too few candidate responses")

var categories = []string{
	"Communication Skills",
	"Technical Knowledge",
	"Problem Solving",
	"Cultural Fit",
	"Confidence and Clarity",
}

// ValidateTranscript checks a transcript is substantial enough to assess.
func ValidateTranscript(transcript []models.Turn) error {
	responses := 0
	for _, turn := range transcript {
		if turn.Role == "user" {
			responses++
		}
	}
	if responses < MinCandidateResponses {
		return ErrTranscriptTooShort
	}
	return nil
}

// FormatTranscript renders turns for the scoring prompt.
func FormatTranscript(transcript []models.Turn) string {
	lines := make([]string, 0, len(transcript))
	for _, turn := range transcript {
		lines = append(lines, strings.ToUpper(turn.Role)+": "+turn.Content)
	}
	return strings.Join(lines, "\n\n")
}

// Prompt renders the scoring prompt for one transcript.
func Prompt(role string, transcript []models.Turn) string {
	return fmt.Sprintf(`You are an expert interviewer analyzing a completed interview for the role of %s.

INTERVIEW TRANSCRIPT:
%s

Score the candidate 0-100 on each of these categories: %s.

Respond with ONLY a JSON object of this exact shape:
{"totalScore": 0, "categoryScores": [{"name": "", "score": 0, "comment": ""}], "strengths": [""], "areasForImprovement": [""], "finalAssessment": ""}`,
		role, FormatTranscript(transcript), strings.Join(categories, ", "))
}

// ParseReport extracts a report from raw model output, tolerating code
// fences and surrounding prose.
func ParseReport(raw string) (*Report, error) {
	text := strings.TrimSpace(raw)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrUnparseableReport
	}

	var report Report
	if err := json.Unmarshal([]byte(text[start:end+1]), &report); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	if report.FinalAssessment == "" && len(report.CategoryScores) == 0 {
		return nil, ErrUnparseableReport
	}
	return &report, nil
}

// Fallback is stored when generation fails: a zeroed report that reads as a
// system error, not as a poor performance.
func Fallback() *Report {
	scores := make([]models.CategoryScore, 0, len(categories))
	for _, name := range categories {
		scores = append(scores, models.CategoryScore{
			Name:    name,
			Score:   0,
			Comment: "Unable to evaluate - system error occurred.",
		})
	}
	return &Report{
		TotalScore:     0,
		CategoryScores: scores,
		Strengths:      []string{"Interview was completed"},
		AreasToImprove: []string{"System error prevented feedback generation"},
		FinalAssessment: "A technical error occurred while generating feedback. " +
			"The interview responses were recorded but could not be analyzed.",
	}
}
