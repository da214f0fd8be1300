package domain

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a score falls outside every band of a table.
var ErrOutOfRange = errors.New("score out of range")

// Band maps an inclusive score range to a qualitative level.
type Band struct {
	Min            int    `json:"min"`
	Max            int    `json:"max"`
	Level          string `json:"level"`
	Recommendation string `json:"recommendation"`
}

// Questionnaire is a scored instrument and its interpretation table.
type Questionnaire struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	MaxScore int    `json:"maxScore"`
	Bands    []Band `json:"bands"`
}

// PHQ9 is the depression symptom questionnaire (0-27).
var PHQ9 = Questionnaire{
	ID:       "phq9",
	Title:    "PHQ-9",
	MaxScore: 27,
	Bands: []Band{
		{Min: 0, Max: 4, Level: "Minimal", Recommendation: "Keep up the habits that support your well-being."},
		{Min: 5, Max: 9, Level: "Mild", Recommendation: "Explore the self-help resources and check in again in two weeks."},
		{Min: 10, Max: 14, Level: "Moderate", Recommendation: "Consider booking a session with a campus counselor."},
		{Min: 15, Max: 19, Level: "Moderately Severe", Recommendation: "Please book a session with a campus counselor soon."},
		{Min: 20, Max: 27, Level: "Severe", Recommendation: "Please reach out to a counselor or a mental health helpline today."},
	},
}

// GAD7 is the anxiety symptom questionnaire (0-21).
var GAD7 = Questionnaire{
	ID:       "gad7",
	Title:    "GAD-7",
	MaxScore: 21,
	Bands: []Band{
		{Min: 0, Max: 4, Level: "Minimal", Recommendation: "Keep up the habits that support your well-being."},
		{Min: 5, Max: 9, Level: "Mild", Recommendation: "Try the breathing and grounding exercises in the resources section."},
		{Min: 10, Max: 14, Level: "Moderate", Recommendation: "Consider booking a session with a campus counselor."},
		{Min: 15, Max: 21, Level: "Severe", Recommendation: "Please reach out to a counselor or a mental health helpline today."},
	},
}

// Questionnaires indexes the known instruments by ID.
var Questionnaires = map[string]Questionnaire{
	PHQ9.ID: PHQ9,
	GAD7.ID: GAD7,
}

// Interpret returns the first band whose range contains score.
func Interpret(score int, bands []Band) (Band, error) {
	for _, b := range bands {
		if b.Min <= score && score <= b.Max {
			return b, nil
		}
	}
	return Band{}, fmt.Errorf("%w: %d", ErrOutOfRange, score)
}
