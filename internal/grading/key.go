// Package grading evaluates student answers against activity answer keys.
// It is pure: no persistence, no clock, no logging.
package grading

import (
	"encoding/json"
	"fmt"

	"github.com/hearthschool/hearth-go-api/internal/models"
)

// AnswerKey is the closed set of answer-key kinds. Unknown activity types
// decode to UnsupportedKey rather than failing, so new content types can be
// added to the catalog without breaking older clients.
type AnswerKey interface {
	answerKey()
}

// MultipleChoiceKey holds the option list and the index of the correct option.
type MultipleChoiceKey struct {
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// TrueFalseKey holds the correct boolean value.
type TrueFalseKey struct {
	Correct bool `json:"correct"`
}

// FillBlankKey holds the accepted answers and the display text with the blank.
type FillBlankKey struct {
	Display string   `json:"display"`
	Answers []string `json:"answers"`
}

// MemoryVerseKey carries the verse to practice. There is no answer to check;
// the student self-attests.
type MemoryVerseKey struct {
	Verse     string `json:"verse"`
	Reference string `json:"reference"`
}

// UnsupportedKey is the fallback for activity types this build does not grade.
type UnsupportedKey struct {
	Type string
}

func (MultipleChoiceKey) answerKey() {}
func (TrueFalseKey) answerKey()      {}
func (FillBlankKey) answerKey()      {}
func (MemoryVerseKey) answerKey()    {}
func (UnsupportedKey) answerKey()    {}

// DecodeKey parses the activity's answer-key payload into its typed form.
// A malformed payload for a known type is an error; an unknown type is not.
func DecodeKey(activityType string, raw json.RawMessage) (AnswerKey, error) {
	switch activityType {
	case models.ActivityTypeMultipleChoice:
		var key MultipleChoiceKey
		if err := json.Unmarshal(raw, &key); err != nil {
			return nil, fmt.Errorf("invalid multiple_choice key: %w", err)
		}
		return key, nil
	case models.ActivityTypeTrueFalse:
		var key TrueFalseKey
		if err := json.Unmarshal(raw, &key); err != nil {
			return nil, fmt.Errorf("invalid true_false key: %w", err)
		}
		return key, nil
	case models.ActivityTypeFillBlank:
		var key FillBlankKey
		if err := json.Unmarshal(raw, &key); err != nil {
			return nil, fmt.Errorf("invalid fill_blank key: %w", err)
		}
		return key, nil
	case models.ActivityTypeMemoryVerse:
		var key MemoryVerseKey
		if err := json.Unmarshal(raw, &key); err != nil {
			return nil, fmt.Errorf("invalid memory_verse key: %w", err)
		}
		return key, nil
	default:
		return UnsupportedKey{Type: activityType}, nil
	}
}
