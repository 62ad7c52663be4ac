package assessment

import (
	"fmt"
)

// Answer is one recorded answer, keyed by question id. Value is the option
// label for choice questions and an int for scale questions.
type Answer struct {
	QuestionID int
	Value      any
}

// Completion is the payload emitted when the last question is advanced past.
// It binds the ordered question snapshot the session was started with, so a
// later reordering of the question bank cannot corrupt the result.
type Completion struct {
	Kind      Kind
	Questions []*Question
	Answers   []Answer
}

// Session drives a user through one assessment's questions, enforcing
// ordering and validating answers. A session is exclusively owned by a single
// logical user; it is not safe for concurrent use.
type Session struct {
	kind      Kind
	questions []*Question
	index     int
	answers   map[int]any
	completed bool
}

// NewSession creates an in-progress session over the definition's ordered
// question snapshot, starting at the first question with no answers recorded.
func NewSession(kind Kind, def *Definition) (*Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
	if def == nil || len(def.Questions) == 0 {
		return nil, fmt.Errorf("%s: assessment has no questions", kind)
	}

	return &Session{
		kind:      kind,
		questions: def.Questions,
		answers:   make(map[int]any, len(def.Questions)),
	}, nil
}

func (s *Session) Kind() Kind { return s.kind }

// Len returns the total number of questions in the bound snapshot.
func (s *Session) Len() int { return len(s.questions) }

// Completed reports whether the last question has been answered and advanced
// past.
func (s *Session) Completed() bool { return s.completed }

// Index returns the zero-based position of the current question.
func (s *Session) Index() int { return s.index }

// CurrentQuestion returns the question at the current position.
func (s *Session) CurrentQuestion() (*Question, error) {
	if s.completed {
		return nil, ErrSessionComplete
	}

	return s.questions[s.index], nil
}

// CurrentAnswer returns the recorded answer for the current question, if any.
// Presentation uses it to preselect a previously given answer after Retreat.
func (s *Session) CurrentAnswer() (any, bool) {
	if s.completed {
		return nil, false
	}

	value, ok := s.answers[s.questions[s.index].ID]
	return value, ok
}

// SubmitAnswer validates value against the current question and records it.
// Resubmitting before advancing overwrites the previous answer.
func (s *Session) SubmitAnswer(value any) error {
	question, err := s.CurrentQuestion()
	if err != nil {
		return err
	}

	switch question.Kind {
	case QuestionChoice:
		label, ok := value.(string)
		if !ok {
			return fmt.Errorf("question %d expects an option label, got %T: %w", question.ID, value, ErrInvalidAnswer)
		}
		if question.Option(label) == nil {
			return fmt.Errorf("question %d has no option %q: %w", question.ID, label, ErrInvalidChoice)
		}
		s.answers[question.ID] = label
	case QuestionScale:
		rating, ok := value.(int)
		if !ok {
			return fmt.Errorf("question %d expects an integer rating, got %T: %w", question.ID, value, ErrInvalidAnswer)
		}
		if rating < question.Min || rating > question.Max {
			return fmt.Errorf("question %d rating %d is outside [%d, %d]: %w",
				question.ID, rating, question.Min, question.Max, ErrInvalidAnswer)
		}
		s.answers[question.ID] = rating
	default:
		return fmt.Errorf("question %d has unknown kind %q: %w", question.ID, question.Kind, ErrInvalidAnswer)
	}

	return nil
}

// Advance moves to the next question. When the current question is the last
// one it transitions the session to completed and returns the full ordered
// answer set; otherwise the returned completion is nil.
func (s *Session) Advance() (*Completion, error) {
	question, err := s.CurrentQuestion()
	if err != nil {
		return nil, err
	}

	if _, ok := s.answers[question.ID]; !ok {
		return nil, fmt.Errorf("question %d: %w", question.ID, ErrAnswerRequired)
	}

	if s.index < len(s.questions)-1 {
		s.index++
		return nil, nil
	}

	s.completed = true

	answers := make([]Answer, 0, len(s.questions))
	for _, q := range s.questions {
		answers = append(answers, Answer{QuestionID: q.ID, Value: s.answers[q.ID]})
	}

	return &Completion{
		Kind:      s.kind,
		Questions: s.questions,
		Answers:   answers,
	}, nil
}

// Retreat moves back to the previous question without clearing the answer of
// the question being left.
func (s *Session) Retreat() error {
	if s.completed {
		return ErrSessionComplete
	}
	if s.index == 0 {
		return ErrAtFirstQuestion
	}

	s.index--
	return nil
}

// Progress returns the fraction of the assessment reached so far, in (0, 1].
// It is pure and callable in any state.
func (s *Session) Progress() float64 {
	return float64(s.index+1) / float64(len(s.questions))
}
