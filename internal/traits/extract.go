// Package traits converts a completed assessment's raw answers into a
// normalized vector of named trait scores.
package traits

import (
	"errors"
	"fmt"

	"github.com/spigell/career-compass/internal/assessment"
)

// ErrIncompleteAssessment is returned when a declared question id is missing
// from the answer set. It indicates a caller-side sequencing bug: the session
// state machine never emits partial completions.
var ErrIncompleteAssessment = errors.New("assessment answers are incomplete")

// Extract maps a completed assessment's answers to a trait vector. It is
// deterministic and has no side effects: the final score per trait is the
// arithmetic mean of all contributions targeting that trait, clamped to
// [0, 100]. Traits with no contributing questions are absent from the result.
func Extract(completion *assessment.Completion) (Vector, error) {
	if completion == nil {
		return nil, fmt.Errorf("nil completion: %w", ErrIncompleteAssessment)
	}

	recorded := make(map[int]any, len(completion.Answers))
	for _, answer := range completion.Answers {
		recorded[answer.QuestionID] = answer.Value
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, question := range completion.Questions {
		value, ok := recorded[question.ID]
		if !ok {
			return nil, fmt.Errorf("question %d has no answer: %w", question.ID, ErrIncompleteAssessment)
		}

		contributions, err := questionContributions(question, value)
		if err != nil {
			return nil, err
		}

		for trait, points := range contributions {
			sums[trait] += points
			counts[trait]++
		}
	}

	vector := make(Vector, len(sums))
	for trait, sum := range sums {
		vector[trait] = clamp(sum / float64(counts[trait]))
	}

	return vector, nil
}

func questionContributions(question *assessment.Question, value any) (map[string]float64, error) {
	switch question.Kind {
	case assessment.QuestionChoice:
		label, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("question %d: recorded answer %v is not an option label", question.ID, value)
		}
		option := question.Option(label)
		if option == nil {
			return nil, fmt.Errorf("question %d: recorded answer %q is not a declared option", question.ID, label)
		}

		return option.Traits, nil
	case assessment.QuestionScale:
		rating, ok := value.(int)
		if !ok {
			return nil, fmt.Errorf("question %d: recorded answer %v is not an integer rating", question.ID, value)
		}

		// Linear rescale from [min, max] to [0, 100].
		rescaled := float64(rating-question.Min) / float64(question.Max-question.Min) * 100

		contributions := make(map[string]float64, len(question.Traits))
		for trait, weight := range question.Traits {
			contributions[trait] = weight * rescaled
		}

		return contributions, nil
	default:
		return nil, fmt.Errorf("question %d: unknown question kind %q", question.ID, question.Kind)
	}
}
