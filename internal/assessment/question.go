package assessment

import (
	"fmt"
)

// QuestionKind discriminates between the two supported question types.
type QuestionKind string

const (
	// QuestionChoice is a single-choice question answered with one of the
	// declared option labels.
	QuestionChoice QuestionKind = "choice"
	// QuestionScale is a scalar-rating question answered with an integer
	// within [Min, Max].
	QuestionScale QuestionKind = "scale"
)

// Option is one selectable answer of a choice question together with the
// fixed per-trait point contributions (0-100 scale units) it awards.
type Option struct {
	Label  string             `yaml:"label"`
	Traits map[string]float64 `yaml:"traits"`
}

// Question is an immutable entry of the question bank.
type Question struct {
	ID     int          `yaml:"id"`
	Prompt string       `yaml:"prompt"`
	Kind   QuestionKind `yaml:"kind"`

	// Choice questions only.
	Options []*Option `yaml:"options"`

	// Scale questions only.
	Min   int    `yaml:"min"`
	Max   int    `yaml:"max"`
	Label string `yaml:"label"`
	// Traits holds the per-trait weights applied to the rescaled value.
	Traits map[string]float64 `yaml:"traits"`
}

// Option returns the declared option with the given label, or nil.
func (q *Question) Option(label string) *Option {
	for _, opt := range q.Options {
		if opt.Label == label {
			return opt
		}
	}

	return nil
}

// OptionLabels returns the declared option labels in order.
func (q *Question) OptionLabels() []string {
	labels := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		labels = append(labels, opt.Label)
	}

	return labels
}

// Validate checks the structural invariants of a single question definition.
func (q *Question) Validate() error {
	if q.Prompt == "" {
		return fmt.Errorf("question %d: prompt is required", q.ID)
	}

	switch q.Kind {
	case QuestionChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d: choice question requires options", q.ID)
		}
		for _, opt := range q.Options {
			if opt.Label == "" {
				return fmt.Errorf("question %d: option label is required", q.ID)
			}
			if len(opt.Traits) == 0 {
				return fmt.Errorf("question %d: option %q maps to no traits", q.ID, opt.Label)
			}
		}
	case QuestionScale:
		if q.Min >= q.Max {
			return fmt.Errorf("question %d: scale range must satisfy min < max, got [%d, %d]", q.ID, q.Min, q.Max)
		}
		if len(q.Traits) == 0 {
			return fmt.Errorf("question %d: scale question maps to no traits", q.ID)
		}
	default:
		return fmt.Errorf("question %d: unknown question kind %q", q.ID, q.Kind)
	}

	return nil
}
