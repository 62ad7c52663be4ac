package assessment

import "errors"

// Failure kinds reported by session operations. All of them are deterministic
// functions of (state, input); nothing here is retryable.
var (
	// ErrUnknownKind is returned when a string does not name an assessment kind.
	ErrUnknownKind = errors.New("unknown assessment kind")

	// ErrInvalidAnswer is returned when an answer value does not satisfy the
	// current question's type or range constraint.
	ErrInvalidAnswer = errors.New("answer does not satisfy the question constraints")

	// ErrInvalidChoice is returned when a choice answer is not among the
	// question's declared options.
	ErrInvalidChoice = errors.New("choice is not among the declared options")

	// ErrAnswerRequired is returned by Advance when the current question has
	// no recorded answer.
	ErrAnswerRequired = errors.New("current question has no recorded answer")

	// ErrAtFirstQuestion is returned by Retreat at index zero.
	ErrAtFirstQuestion = errors.New("already at the first question")

	// ErrSessionComplete is returned by operations that are invalid on a
	// completed session.
	ErrSessionComplete = errors.New("session is already completed")

	// ErrAlreadyCompleted is returned by a start without explicit retake
	// intent on a completed kind.
	ErrAlreadyCompleted = errors.New("assessment is already completed")
)
