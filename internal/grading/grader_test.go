package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeKeyKnownTypes(t *testing.T) {
	key, err := DecodeKey("multiple_choice", json.RawMessage(`{"options":["A","B","C"],"correct":1}`))
	require.NoError(t, err)
	require.Equal(t, MultipleChoiceKey{Options: []string{"A", "B", "C"}, Correct: 1}, key)

	key, err = DecodeKey("true_false", json.RawMessage(`{"correct":true}`))
	require.NoError(t, err)
	require.Equal(t, TrueFalseKey{Correct: true}, key)

	key, err = DecodeKey("fill_blank", json.RawMessage(`{"display":"Noah built an ___","answers":["ark"]}`))
	require.NoError(t, err)
	require.Equal(t, FillBlankKey{Display: "Noah built an ___", Answers: []string{"ark"}}, key)

	key, err = DecodeKey("memory_verse", json.RawMessage(`{"verse":"In the beginning...","reference":"Genesis 1:1"}`))
	require.NoError(t, err)
	require.Equal(t, MemoryVerseKey{Verse: "In the beginning...", Reference: "Genesis 1:1"}, key)
}

func TestDecodeKeyUnknownTypeIsNotAnError(t *testing.T) {
	key, err := DecodeKey("word_search", json.RawMessage(`{"grid":[]}`))
	require.NoError(t, err)
	require.Equal(t, UnsupportedKey{Type: "word_search"}, key)
}

func TestDecodeKeyMalformedPayload(t *testing.T) {
	_, err := DecodeKey("multiple_choice", json.RawMessage(`{"correct":"b"}`))
	require.Error(t, err)
}

func TestGradeMultipleChoice(t *testing.T) {
	key := MultipleChoiceKey{Options: []string{"A", "B", "C"}, Correct: 1}

	result := Grade(key, 1, 10)
	require.True(t, result.Supported)
	require.True(t, result.Correct)
	require.Equal(t, 10, result.PointsEarned)

	result = Grade(key, 0, 10)
	require.True(t, result.Supported)
	require.False(t, result.Correct)
	require.Equal(t, 0, result.PointsEarned)

	// Out-of-range indexes are incorrect, never an error.
	for _, index := range []int{-1, 3, 99} {
		result = Grade(key, index, 10)
		require.False(t, result.Correct)
		require.Equal(t, 0, result.PointsEarned)
	}
}

func TestGradeTrueFalse(t *testing.T) {
	key := TrueFalseKey{Correct: false}

	result := Grade(key, false, 5)
	require.True(t, result.Correct)
	require.Equal(t, 5, result.PointsEarned)

	result = Grade(key, true, 5)
	require.False(t, result.Correct)
	require.Equal(t, 0, result.PointsEarned)
}

func TestGradeFillBlankNormalization(t *testing.T) {
	key := FillBlankKey{Answers: []string{"Noah"}}

	spaced := Grade(key, " noah ", 5)
	plain := Grade(key, "noah", 5)
	require.Equal(t, plain, spaced)
	require.True(t, spaced.Correct)
	require.Equal(t, 5, spaced.PointsEarned)

	// Accepted answers are normalized too.
	result := Grade(FillBlankKey{Answers: []string{"  ARK  "}}, "ark", 5)
	require.True(t, result.Correct)

	result = Grade(key, "moses", 5)
	require.False(t, result.Correct)
	require.Equal(t, 0, result.PointsEarned)
}

func TestGradeMemoryVerseAlwaysCorrect(t *testing.T) {
	key := MemoryVerseKey{Verse: "In the beginning...", Reference: "Genesis 1:1"}

	result := Grade(key, true, 15)
	require.True(t, result.Supported)
	require.True(t, result.Correct)
	require.Equal(t, 15, result.PointsEarned)
}

func TestGradeUnsupportedKeySkipsScoring(t *testing.T) {
	result := Grade(UnsupportedKey{Type: "word_search"}, 1, 10)
	require.False(t, result.Supported)
	require.False(t, result.Correct)
	require.Equal(t, 0, result.PointsEarned)
}

func TestGradeNeverExceedsActivityPoints(t *testing.T) {
	keys := []AnswerKey{
		MultipleChoiceKey{Options: []string{"A", "B"}, Correct: 0},
		TrueFalseKey{Correct: true},
		FillBlankKey{Answers: []string{"ark"}},
		MemoryVerseKey{},
	}
	answers := []interface{}{0, true, "ark", true}

	for i, key := range keys {
		result := Grade(key, answers[i], 10)
		require.LessOrEqual(t, result.PointsEarned, 10)
		if !result.Correct {
			require.Equal(t, 0, result.PointsEarned)
		}
	}
}

func TestDecodeAnswer(t *testing.T) {
	index, err := DecodeAnswer(MultipleChoiceKey{}, json.RawMessage(`2`))
	require.NoError(t, err)
	require.Equal(t, 2, index)

	value, err := DecodeAnswer(TrueFalseKey{}, json.RawMessage(`false`))
	require.NoError(t, err)
	require.Equal(t, false, value)

	text, err := DecodeAnswer(FillBlankKey{}, json.RawMessage(`" Answer "`))
	require.NoError(t, err)
	require.Equal(t, " Answer ", text)

	_, err = DecodeAnswer(MultipleChoiceKey{}, json.RawMessage(`"one"`))
	require.Error(t, err)
}

func TestDecodeAnswerEmpty(t *testing.T) {
	_, err := DecodeAnswer(MultipleChoiceKey{}, nil)
	require.ErrorIs(t, err, ErrEmptyAnswer)

	_, err = DecodeAnswer(TrueFalseKey{}, json.RawMessage(`null`))
	require.ErrorIs(t, err, ErrEmptyAnswer)

	_, err = DecodeAnswer(FillBlankKey{}, json.RawMessage(`"   "`))
	require.ErrorIs(t, err, ErrEmptyAnswer)

	_, err = DecodeAnswer(MemoryVerseKey{}, json.RawMessage(`false`))
	require.ErrorIs(t, err, ErrEmptyAnswer)
}
