package grading

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyAnswer indicates a submission arrived without an answer. Callers are
// expected to block empty submissions before grading; this guards the boundary.
var ErrEmptyAnswer = errors.New("submitted answer is empty")

// Result is the outcome of grading one submission.
type Result struct {
	// Supported is false for activity types this build cannot grade. An
	// unsupported submission must not be persisted.
	Supported    bool
	Correct      bool
	PointsEarned int
}

// DecodeAnswer parses the submitted answer payload into the shape the key
// expects: an option index for multiple choice, a boolean for true/false,
// free text for fill-in-the-blank, and an acknowledgement for memory verses.
func DecodeAnswer(key AnswerKey, raw json.RawMessage) (interface{}, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrEmptyAnswer
	}

	switch key.(type) {
	case MultipleChoiceKey:
		var index int
		if err := json.Unmarshal(raw, &index); err != nil {
			return nil, fmt.Errorf("multiple_choice answer must be an option index: %w", err)
		}
		return index, nil
	case TrueFalseKey:
		var value bool
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("true_false answer must be a boolean: %w", err)
		}
		return value, nil
	case FillBlankKey:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("fill_blank answer must be a string: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return nil, ErrEmptyAnswer
		}
		return text, nil
	case MemoryVerseKey:
		var acknowledged bool
		if err := json.Unmarshal(raw, &acknowledged); err != nil {
			return nil, fmt.Errorf("memory_verse answer must be an acknowledgement: %w", err)
		}
		if !acknowledged {
			return nil, ErrEmptyAnswer
		}
		return acknowledged, nil
	default:
		return nil, nil
	}
}

// Grade applies the decision table for one activity. It is total: a wrong or
// out-of-range answer is simply incorrect, never an error.
func Grade(key AnswerKey, answer interface{}, points int) Result {
	switch k := key.(type) {
	case MultipleChoiceKey:
		index, ok := answer.(int)
		return scored(ok && index == k.Correct, points)
	case TrueFalseKey:
		value, ok := answer.(bool)
		return scored(ok && value == k.Correct, points)
	case FillBlankKey:
		text, ok := answer.(string)
		if !ok {
			return scored(false, points)
		}
		normalized := normalize(text)
		for _, accepted := range k.Answers {
			if normalize(accepted) == normalized {
				return scored(true, points)
			}
		}
		return scored(false, points)
	case MemoryVerseKey:
		// Self-attested practice: always correct once acknowledged.
		return Result{Supported: true, Correct: true, PointsEarned: points}
	default:
		return Result{}
	}
}

func scored(correct bool, points int) Result {
	result := Result{Supported: true, Correct: correct}
	if correct {
		result.PointsEarned = points
	}
	return result
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
