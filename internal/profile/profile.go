// Package profile aggregates one user's assessment state: the in-progress
// sessions, the set of completed kinds, the cached trait vectors and the most
// recent recommendation ranking. A Profile is owned by a single logical user
// and must not be shared across concurrent requests.
package profile

import (
	"fmt"

	"github.com/spigell/career-compass/internal/assessment"
	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/recommend"
	"github.com/spigell/career-compass/internal/traits"
)

type Profile struct {
	Name string

	sessions map[assessment.Kind]*assessment.Session
	vectors  map[assessment.Kind]traits.Vector
	ranking  []*recommend.Match
}

func New(name string) *Profile {
	return &Profile{
		Name:     name,
		sessions: make(map[assessment.Kind]*assessment.Session),
		vectors:  make(map[assessment.Kind]traits.Vector),
	}
}

// StartAssessment creates a fresh session for the kind, replacing any
// in-progress one. Starting a completed kind requires explicit retake intent;
// a retake invalidates the cached trait vector for that kind.
func (p *Profile) StartAssessment(bank *assessment.Bank, kind assessment.Kind, retake bool) (*assessment.Session, error) {
	if p.Completed(kind) && !retake {
		return nil, fmt.Errorf("%s: %w", kind, assessment.ErrAlreadyCompleted)
	}

	def, err := bank.Definition(kind)
	if err != nil {
		return nil, err
	}

	session, err := assessment.NewSession(kind, def)
	if err != nil {
		return nil, err
	}

	delete(p.vectors, kind)
	p.ranking = nil
	p.sessions[kind] = session

	return session, nil
}

// ResumeOrStart returns the in-progress session for the kind, keeping its
// recorded answers and position, or starts a fresh one when none exists.
// A completed kind still requires explicit retake intent via StartAssessment.
func (p *Profile) ResumeOrStart(bank *assessment.Bank, kind assessment.Kind) (*assessment.Session, error) {
	if session, ok := p.sessions[kind]; ok && !session.Completed() {
		return session, nil
	}

	return p.StartAssessment(bank, kind, false)
}

// Session returns the session for the kind, if one was started.
func (p *Profile) Session(kind assessment.Kind) (*assessment.Session, bool) {
	session, ok := p.sessions[kind]
	return session, ok
}

// CompleteAssessment extracts the trait vector from a completion payload and
// caches it, superseding any previous vector for that kind. The cached
// ranking is invalidated since its inputs changed.
func (p *Profile) CompleteAssessment(completion *assessment.Completion) (traits.Vector, error) {
	vector, err := traits.Extract(completion)
	if err != nil {
		return nil, err
	}

	p.vectors[completion.Kind] = vector
	p.ranking = nil

	return vector, nil
}

// Completed reports whether the kind has a cached trait vector.
func (p *Profile) Completed(kind assessment.Kind) bool {
	_, ok := p.vectors[kind]
	return ok
}

// CompletedKinds returns the completed kinds in presentation order.
func (p *Profile) CompletedKinds() []assessment.Kind {
	kinds := make([]assessment.Kind, 0, len(p.vectors))
	for _, kind := range assessment.AllKinds() {
		if p.Completed(kind) {
			kinds = append(kinds, kind)
		}
	}

	return kinds
}

// Vector returns the cached trait vector for the kind.
func (p *Profile) Vector(kind assessment.Kind) (traits.Vector, bool) {
	vector, ok := p.vectors[kind]
	return vector, ok
}

// Vectors returns an independent copy of the per-kind trait vector cache, so
// callers cannot corrupt the cached scores.
func (p *Profile) Vectors() map[assessment.Kind]traits.Vector {
	vectors := make(map[assessment.Kind]traits.Vector, len(p.vectors))
	for kind, vector := range p.vectors {
		vectors[kind] = vector.Clone()
	}

	return vectors
}

// Recommend scores the catalog against the completed assessments and caches
// the resulting ranking.
func (p *Profile) Recommend(catalog *career.Catalog, weights recommend.Weights) ([]*recommend.Match, error) {
	matches, err := recommend.Score(p.vectors, catalog, weights)
	if err != nil {
		return nil, err
	}

	p.ranking = matches
	return matches, nil
}

// Ranking returns the most recent recommendation ranking, or nil when the
// ranking was never computed or was invalidated by new assessment data.
func (p *Profile) Ranking() []*recommend.Match {
	return p.ranking
}
