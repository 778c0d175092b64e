// Package questiongen asks the LLM for interview questions. The model
// returns unstructured text, so everything coming back is parsed defensively.
package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Generator produces the ordered question list for a new interview.
type Generator interface {
	GenerateQuestions(ctx context.Context, params Params) ([]string, error)
}

// Params describes the interview the questions are for.
type Params struct {
	Role      string
	Level     string
	Type      string
	TechStack string
	Amount    int
}

var ErrNoQuestions = errors.New("model returned no usable questions")

// Prompt renders the generation prompt. The model is told to answer with a
// bare JSON array, but ParseQuestions does not trust that.
func Prompt(p Params) string {
	return fmt.Sprintf(`Generate %d interview questions for a job interview.

Role: %s
Experience Level: %s
Tech Stack: %s
Interview Type: %s

Return ONLY a JSON array of question strings. No other text.
Do not use special characters like "/" or "*".

Example format:
["Question 1", "Question 2", "Question 3"]

Generate the questions now:`, p.Amount, p.Role, p.Level, p.TechStack, p.Type)
}

// ParseQuestions extracts a question list from raw model output. It strips
// markdown code fences, slices down to the outermost JSON array, drops empty
// entries, and fails rather than guessing when nothing parseable remains.
func ParseQuestions(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoQuestions
	}

	var parsed []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}

	questions := make([]string, 0, len(parsed))
	for _, q := range parsed {
		q = strings.TrimSpace(q)
		if q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}
