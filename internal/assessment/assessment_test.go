package assessment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewai/interview/internal/models"
)

func transcript(userTurns int) []models.Turn {
	turns := []models.Turn{{Role: "assistant", Content: "Tell me about yourself."}}
	for i := 0; i < userTurns; i++ {
		turns = append(turns, models.Turn{Role: "user", Content: "An answer."})
	}
	return turns
}

func TestValidateTranscript(t *testing.T) {
	assert.ErrorIs(t, ValidateTranscript(nil), ErrTranscriptTooShort)
	assert.ErrorIs(t, ValidateTranscript(transcript(2)), ErrTranscriptTooShort)
	assert.NoError(t, ValidateTranscript(transcript(3)))
}

func TestFormatTranscript(t *testing.T) {
	got := FormatTranscript([]models.Turn{
		{Role: "assistant", Content: "Question?"},
		{Role: "user", Content: "Answer."},
	})

	assert.Equal(t, "ASSISTANT: Question?\n\nUSER: Answer.", got)
}

func TestParseReportPlainObject(t *testing.T) {
	raw := `{"totalScore": 72, "categoryScores": [{"name": "Technical Knowledge", "score": 70, "comment": "solid"}], "strengths": ["clear"], "areasForImprovement": ["depth"], "finalAssessment": "Good showing."}`

	report, err := ParseReport(raw)
	require.NoError(t, err)

	assert.Equal(t, 72, report.TotalScore)
	require.Len(t, report.CategoryScores, 1)
	assert.Equal(t, "Technical Knowledge", report.CategoryScores[0].Name)
	assert.Equal(t, "Good showing.", report.FinalAssessment)
}

func TestParseReportToleratesFencesAndProse(t *testing.T) {
	raw := "Here is the evaluation:\n```json\n{\"totalScore\": 50, \"finalAssessment\": \"ok\"}\n```\nHope that helps."

	report, err := ParseReport(raw)
	require.NoError(t, err)
	assert.Equal(t, 50, report.TotalScore)
}

func TestParseReportRejectsGarbage(t *testing.T) {
	_, err := ParseReport("no json here")
	assert.ErrorIs(t, err, ErrUnparseableReport)

	_, err = ParseReport("{\"totalScore\": ")
	assert.Error(t, err)

	// an empty object carries no report
	_, err = ParseReport("{}")
	assert.ErrorIs(t, err, ErrUnparseableReport)
}

func TestFallbackReadsAsSystemError(t *testing.T) {
	report := Fallback()

	assert.Equal(t, 0, report.TotalScore)
	assert.Len(t, report.CategoryScores, 5)
	for _, c := range report.CategoryScores {
		assert.Equal(t, 0, c.Score)
	}
	assert.True(t, strings.Contains(report.FinalAssessment, "technical error"))
}

func TestPromptContainsTranscriptAndRole(t *testing.T) {
	p := Prompt("Backend Engineer", transcript(3))

	assert.True(t, strings.Contains(p, "Backend Engineer"))
	assert.True(t, strings.Contains(p, "USER: An answer."))
	assert.True(t, strings.Contains(p, "ONLY a JSON object"))
}
