package ai

import (
	"context"

	"github.com/spigell/career-compass/internal/recommend"
	"github.com/spigell/career-compass/internal/traits"
)

// Phase is one stage of a career roadmap.
type Phase struct {
	Name  string
	Tasks []string
}

// Roadmap is a personalized plan toward the top recommended career.
type Roadmap struct {
	Career string
	Phases []Phase
	Raw    string
}

// Advisor turns a user's combined trait vector and ranked career matches
// into a roadmap. Implementations may perform network I/O; the deterministic
// ranking never depends on them.
type Advisor interface {
	Plan(ctx context.Context, combined traits.Vector, matches []*recommend.Match) (*Roadmap, error)
}
