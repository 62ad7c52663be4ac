// Package recommend combines trait vectors from completed assessments and
// ranks the career catalog by fit. Scoring is a pure, seed-free computation:
// the same inputs always produce the same ranking.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spigell/career-compass/internal/assessment"
	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/traits"
)

// ErrNoAssessmentData is returned when scoring is attempted with zero
// completed assessments. The engine never fabricates a ranking from no input.
var ErrNoAssessmentData = errors.New("no completed assessments to score against")

// maxContributingTraits caps the explainability list per match.
const maxContributingTraits = 5

// Weights assigns a relative weight to each assessment kind. The configured
// weights of the completed kinds are renormalized to sum to 1.0 before
// merging, so a user with a single completed assessment still receives a
// full-confidence combined vector.
type Weights map[assessment.Kind]float64

// DefaultWeights returns the standard kind weighting.
func DefaultWeights() Weights {
	return Weights{
		assessment.KindInterest:    0.40,
		assessment.KindPersonality: 0.35,
		assessment.KindSkills:      0.25,
	}
}

// TraitContribution records how much a single trait added to a match score.
type TraitContribution struct {
	Trait        string
	Contribution float64
}

// Match is one ranked career recommendation. Matches are ephemeral snapshots,
// recomputed on demand and never mutated.
type Match struct {
	CareerID           int
	Title              string
	Score              float64
	ContributingTraits []TraitContribution
}

// Combine merges the per-kind trait vectors into one combined vector using
// the kind weights, renormalized over the kinds actually present.
func Combine(vectors map[assessment.Kind]traits.Vector, weights Weights) (traits.Vector, error) {
	if len(vectors) == 0 {
		return nil, ErrNoAssessmentData
	}

	total := 0.0
	for kind := range vectors {
		weight, ok := weights[kind]
		if !ok || weight <= 0 {
			return nil, fmt.Errorf("assessment kind %q has no configured weight", kind)
		}
		total += weight
	}

	combined := make(traits.Vector)
	for kind, vector := range vectors {
		share := weights[kind] / total
		for trait, score := range vector {
			combined[trait] += share * score
		}
	}

	return combined, nil
}

// Score ranks the catalog against the combined trait vector, descending by
// fit score with ascending career id as the tie-break. The result is a
// permutation of the catalog: no career is dropped or duplicated.
func Score(vectors map[assessment.Kind]traits.Vector, catalog *career.Catalog, weights Weights) ([]*Match, error) {
	combined, err := Combine(vectors, weights)
	if err != nil {
		return nil, err
	}

	matches := make([]*Match, 0, catalog.Len())
	for _, profile := range catalog.Items {
		matches = append(matches, matchProfile(combined, profile))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].CareerID < matches[j].CareerID
	})

	return matches, nil
}

func matchProfile(combined traits.Vector, profile *career.Profile) *Match {
	totalWeight := 0.0
	totalContribution := 0.0
	contributions := make([]TraitContribution, 0, len(profile.RequiredTraits))

	for trait, weight := range profile.RequiredTraits {
		totalWeight += weight

		// A trait missing from the user's vector is a gap, not an error.
		contribution := weight * combined[trait]
		totalContribution += contribution
		contributions = append(contributions, TraitContribution{
			Trait:        trait,
			Contribution: contribution,
		})
	}

	score := 0.0
	if totalWeight > 0 {
		score = totalContribution / totalWeight
	}

	sort.SliceStable(contributions, func(i, j int) bool {
		if contributions[i].Contribution != contributions[j].Contribution {
			return contributions[i].Contribution > contributions[j].Contribution
		}
		return contributions[i].Trait < contributions[j].Trait
	})
	if len(contributions) > maxContributingTraits {
		contributions = contributions[:maxContributingTraits]
	}

	return &Match{
		CareerID:           profile.ID,
		Title:              profile.Title,
		Score:              score,
		ContributingTraits: contributions,
	}
}
