package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/spigell/career-compass/internal/assessment"
	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/traits"
)

func testCatalog() *career.Catalog {
	return &career.Catalog{
		Items: []*career.Profile{
			{
				ID:             1,
				Title:          "Software Developer",
				RequiredTraits: map[string]float64{"Technical": 1.0, "Analytical": 0.8},
			},
			{
				ID:             2,
				Title:          "UX Designer",
				RequiredTraits: map[string]float64{"Creative": 1.0, "Social": 0.5},
			},
			{
				ID:             3,
				Title:          "Team Lead",
				RequiredTraits: map[string]float64{"Leadership": 1.0},
			},
		},
	}
}

func TestCombineRenormalizesSingleKind(t *testing.T) {
	vectors := map[assessment.Kind]traits.Vector{
		assessment.KindSkills: {"Technical": 80},
	}

	combined, err := Combine(vectors, DefaultWeights())
	if err != nil {
		t.Fatalf("combine: %v", err)
	}

	// With only skills completed its 0.25 weight rescales to 1.0.
	if math.Abs(combined["Technical"]-80) > 1e-9 {
		t.Fatalf("expected full-confidence 80, got %f", combined["Technical"])
	}
}

func TestCombineRenormalizesSubsets(t *testing.T) {
	vectors := map[assessment.Kind]traits.Vector{
		assessment.KindInterest:    {"Creative": 100},
		assessment.KindPersonality: {"Creative": 100},
	}

	combined, err := Combine(vectors, DefaultWeights())
	if err != nil {
		t.Fatalf("combine: %v", err)
	}

	// 0.40/0.75 + 0.35/0.75 must sum to 1.0 within tolerance.
	if math.Abs(combined["Creative"]-100) > 1e-9 {
		t.Fatalf("expected weights to renormalize to 1.0, got score %f", combined["Creative"])
	}
}

func TestCombineRejectsEmptyInput(t *testing.T) {
	if _, err := Combine(nil, DefaultWeights()); !errors.Is(err, ErrNoAssessmentData) {
		t.Fatalf("expected ErrNoAssessmentData, got %v", err)
	}
}

func TestCombineRejectsUnweightedKind(t *testing.T) {
	vectors := map[assessment.Kind]traits.Vector{
		assessment.KindSkills: {"Technical": 80},
	}

	if _, err := Combine(vectors, Weights{assessment.KindInterest: 1.0}); err == nil {
		t.Fatalf("expected an error for a kind without a configured weight")
	}
}

func TestScoreMissingTraitIsGapNotError(t *testing.T) {
	vectors := map[assessment.Kind]traits.Vector{
		assessment.KindSkills: {"Technical": 90},
	}

	matches, err := Score(vectors, testCatalog(), DefaultWeights())
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	for _, match := range matches {
		if match.CareerID == 3 {
			if match.Score != 0 {
				t.Fatalf("career lacking all user traits should score 0, got %f", match.Score)
			}
			return
		}
	}
	t.Fatalf("career 3 missing from ranking")
}

func TestScoreRankingIsStablePermutation(t *testing.T) {
	vectors := map[assessment.Kind]traits.Vector{
		assessment.KindInterest: {"Technical": 70, "Creative": 70, "Analytical": 60, "Social": 40},
	}

	matches, err := Score(vectors, testCatalog(), DefaultWeights())
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if len(matches) != 3 {
		t.Fatalf("expected a match per career, got %d", len(matches))
	}

	seen := make(map[int]bool)
	for i, match := range matches {
		if seen[match.CareerID] {
			t.Fatalf("duplicate career %d in ranking", match.CareerID)
		}
		seen[match.CareerID] = true

		if i > 0 && matches[i-1].Score < match.Score {
			t.Fatalf("ranking not descending at position %d", i)
		}
	}
}

func TestScoreTieBreaksByCareerID(t *testing.T) {
	catalog := &career.Catalog{
		Items: []*career.Profile{
			{ID: 9, Title: "B", RequiredTraits: map[string]float64{"X": 1.0}},
			{ID: 2, Title: "A", RequiredTraits: map[string]float64{"X": 1.0}},
		},
	}
	vectors := map[assessment.Kind]traits.Vector{
		assessment.KindSkills: {"X": 55},
	}

	matches, err := Score(vectors, catalog, DefaultWeights())
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if matches[0].CareerID != 2 || matches[1].CareerID != 9 {
		t.Fatalf("expected tie broken by ascending id, got %d then %d", matches[0].CareerID, matches[1].CareerID)
	}
}

func TestScoreIsWeightedAverage(t *testing.T) {
	catalog := &career.Catalog{
		Items: []*career.Profile{
			{ID: 1, Title: "Mixed", RequiredTraits: map[string]float64{"A": 1.0, "B": 1.0}},
		},
	}
	vectors := map[assessment.Kind]traits.Vector{
		assessment.KindSkills: {"A": 100},
	}

	matches, err := Score(vectors, catalog, DefaultWeights())
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	// (1.0*100 + 1.0*0) / 2.0
	if math.Abs(matches[0].Score-50) > 1e-9 {
		t.Fatalf("expected 50, got %f", matches[0].Score)
	}
}

func TestScoreContributingTraitsCappedAndOrdered(t *testing.T) {
	required := map[string]float64{
		"A": 1.0, "B": 1.0, "C": 1.0, "D": 1.0, "E": 1.0, "F": 1.0, "G": 1.0,
	}
	catalog := &career.Catalog{
		Items: []*career.Profile{{ID: 1, Title: "Wide", RequiredTraits: required}},
	}
	vectors := map[assessment.Kind]traits.Vector{
		assessment.KindSkills: {"A": 10, "B": 90, "C": 50, "D": 70, "E": 30, "F": 20, "G": 5},
	}

	matches, err := Score(vectors, catalog, DefaultWeights())
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	contributions := matches[0].ContributingTraits
	if len(contributions) != 5 {
		t.Fatalf("expected cap of 5 contributing traits, got %d", len(contributions))
	}
	if contributions[0].Trait != "B" {
		t.Fatalf("expected strongest trait B first, got %s", contributions[0].Trait)
	}
	for i := 1; i < len(contributions); i++ {
		if contributions[i-1].Contribution < contributions[i].Contribution {
			t.Fatalf("contributions not descending at position %d", i)
		}
	}
}

func TestScoreWithoutDataFails(t *testing.T) {
	if _, err := Score(nil, testCatalog(), DefaultWeights()); !errors.Is(err, ErrNoAssessmentData) {
		t.Fatalf("expected ErrNoAssessmentData, got %v", err)
	}
}
