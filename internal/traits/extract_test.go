package traits

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/spigell/career-compass/internal/assessment"
)

func choiceQuestion(id int, trait string, points float64) *assessment.Question {
	return &assessment.Question{
		ID:     id,
		Prompt: "pick",
		Kind:   assessment.QuestionChoice,
		Options: []*assessment.Option{
			{Label: "Picked", Traits: map[string]float64{trait: points}},
		},
	}
}

func TestExtractMeansChoiceContributions(t *testing.T) {
	completion := &assessment.Completion{
		Kind: assessment.KindInterest,
		Questions: []*assessment.Question{
			choiceQuestion(1, "Analytical", 100),
			choiceQuestion(2, "Analytical", 100),
			choiceQuestion(3, "Analytical", 0),
		},
		Answers: []assessment.Answer{
			{QuestionID: 1, Value: "Picked"},
			{QuestionID: 2, Value: "Picked"},
			{QuestionID: 3, Value: "Picked"},
		},
	}

	vector, err := Extract(completion)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	score, ok := vector["Analytical"]
	if !ok {
		t.Fatalf("expected Analytical in vector, got %v", vector)
	}
	if math.Abs(score-66.67) > 0.01 {
		t.Fatalf("expected mean(100, 100, 0) = 66.67, got %f", score)
	}
}

func TestExtractRescalesScaleAnswers(t *testing.T) {
	completion := &assessment.Completion{
		Kind: assessment.KindSkills,
		Questions: []*assessment.Question{
			{
				ID:     1,
				Prompt: "rate",
				Kind:   assessment.QuestionScale,
				Min:    1,
				Max:    10,
				Traits: map[string]float64{"Technical": 1.0, "Analytical": 0.5},
			},
		},
		Answers: []assessment.Answer{{QuestionID: 1, Value: 10}},
	}

	vector, err := Extract(completion)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if vector["Technical"] != 100 {
		t.Fatalf("expected Technical 100 for a max rating, got %f", vector["Technical"])
	}
	if vector["Analytical"] != 50 {
		t.Fatalf("expected Analytical 50 with weight 0.5, got %f", vector["Analytical"])
	}
}

func TestExtractMinimumRatingScoresZero(t *testing.T) {
	completion := &assessment.Completion{
		Kind: assessment.KindSkills,
		Questions: []*assessment.Question{
			{
				ID:     1,
				Prompt: "rate",
				Kind:   assessment.QuestionScale,
				Min:    1,
				Max:    10,
				Traits: map[string]float64{"Adaptable": 1.0},
			},
		},
		Answers: []assessment.Answer{{QuestionID: 1, Value: 1}},
	}

	vector, err := Extract(completion)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if vector["Adaptable"] != 0 {
		t.Fatalf("expected Adaptable 0 for a min rating, got %f", vector["Adaptable"])
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	completion := &assessment.Completion{
		Kind: assessment.KindPersonality,
		Questions: []*assessment.Question{
			choiceQuestion(1, "Creative", 80),
			{
				ID:     2,
				Prompt: "rate",
				Kind:   assessment.QuestionScale,
				Min:    1,
				Max:    5,
				Traits: map[string]float64{"Creative": 0.9},
			},
		},
		Answers: []assessment.Answer{
			{QuestionID: 1, Value: "Picked"},
			{QuestionID: 2, Value: 3},
		},
	}

	first, err := Extract(completion)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := Extract(completion)
		if err != nil {
			t.Fatalf("extract run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("extract is not deterministic: %v vs %v", first, again)
		}
	}
}

func TestExtractScoresStayInRange(t *testing.T) {
	completion := &assessment.Completion{
		Kind: assessment.KindSkills,
		Questions: []*assessment.Question{
			{
				ID:     1,
				Prompt: "rate",
				Kind:   assessment.QuestionScale,
				Min:    1,
				Max:    10,
				// An overweighted mapping must still clamp to 100.
				Traits: map[string]float64{"Technical": 1.5},
			},
		},
		Answers: []assessment.Answer{{QuestionID: 1, Value: 10}},
	}

	vector, err := Extract(completion)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	for trait, score := range vector {
		if score < 0 || score > 100 {
			t.Fatalf("trait %s out of range: %f", trait, score)
		}
	}
	if vector["Technical"] != 100 {
		t.Fatalf("expected clamped score 100, got %f", vector["Technical"])
	}
}

func TestExtractMissingAnswerFails(t *testing.T) {
	completion := &assessment.Completion{
		Kind: assessment.KindInterest,
		Questions: []*assessment.Question{
			choiceQuestion(1, "Social", 70),
			choiceQuestion(2, "Social", 50),
		},
		Answers: []assessment.Answer{{QuestionID: 1, Value: "Picked"}},
	}

	if _, err := Extract(completion); !errors.Is(err, ErrIncompleteAssessment) {
		t.Fatalf("expected ErrIncompleteAssessment, got %v", err)
	}
}

func TestExtractOmitsTraitsWithoutContributions(t *testing.T) {
	completion := &assessment.Completion{
		Kind: assessment.KindInterest,
		Questions: []*assessment.Question{
			choiceQuestion(1, "Research", 90),
		},
		Answers: []assessment.Answer{{QuestionID: 1, Value: "Picked"}},
	}

	vector, err := Extract(completion)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if len(vector) != 1 {
		t.Fatalf("expected a single trait, got %v", vector)
	}
	if _, ok := vector["Leadership"]; ok {
		t.Fatalf("traits without contributions must be absent, not zero")
	}
}
