package profile

import (
	"errors"
	"testing"

	"github.com/spigell/career-compass/internal/assessment"
	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/recommend"
)

func testBank(t *testing.T) *assessment.Bank {
	t.Helper()

	bank, err := assessment.DefaultBank()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}
	return bank
}

func complete(t *testing.T, p *Profile, bank *assessment.Bank, kind assessment.Kind, retake bool) {
	t.Helper()

	session, err := p.StartAssessment(bank, kind, retake)
	if err != nil {
		t.Fatalf("start %s: %v", kind, err)
	}

	for {
		q, err := session.CurrentQuestion()
		if err != nil {
			t.Fatalf("current question: %v", err)
		}

		var answer any
		switch q.Kind {
		case assessment.QuestionChoice:
			answer = q.Options[0].Label
		case assessment.QuestionScale:
			answer = q.Max
		}

		if err := session.SubmitAnswer(answer); err != nil {
			t.Fatalf("submit: %v", err)
		}

		done, err := session.Advance()
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if done != nil {
			if _, err := p.CompleteAssessment(done); err != nil {
				t.Fatalf("complete %s: %v", kind, err)
			}
			return
		}
	}
}

func TestStartCompletedKindRequiresRetake(t *testing.T) {
	bank := testBank(t)
	p := New("Kim")

	complete(t, p, bank, assessment.KindSkills, false)

	cached, ok := p.Vector(assessment.KindSkills)
	if !ok {
		t.Fatalf("expected cached vector after completion")
	}

	if _, err := p.StartAssessment(bank, assessment.KindSkills, false); !errors.Is(err, assessment.ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}

	// The failed start must leave the cache untouched.
	after, ok := p.Vector(assessment.KindSkills)
	if !ok {
		t.Fatalf("cache was invalidated by a failed start")
	}
	for trait, score := range cached {
		if after[trait] != score {
			t.Fatalf("cached vector changed for %s: %f -> %f", trait, score, after[trait])
		}
	}
}

func TestRetakeInvalidatesCachedVector(t *testing.T) {
	bank := testBank(t)
	p := New("Kim")

	complete(t, p, bank, assessment.KindInterest, false)

	if _, err := p.StartAssessment(bank, assessment.KindInterest, true); err != nil {
		t.Fatalf("retake: %v", err)
	}

	if p.Completed(assessment.KindInterest) {
		t.Fatalf("retake should invalidate the cached vector")
	}
}

func TestResumeKeepsPausedSession(t *testing.T) {
	bank := testBank(t)
	p := New("Kim")

	session, err := p.ResumeOrStart(bank, assessment.KindInterest)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	q, err := session.CurrentQuestion()
	if err != nil {
		t.Fatalf("current question: %v", err)
	}
	if err := session.SubmitAnswer(q.Options[0].Label); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := session.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	// Re-entering the kind must hand back the paused session, not an
	// empty restart.
	resumed, err := p.ResumeOrStart(bank, assessment.KindInterest)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed != session {
		t.Fatalf("expected the paused session back, got a fresh one")
	}
	if resumed.Index() != 1 {
		t.Fatalf("expected to resume at index 1, got %d", resumed.Index())
	}

	if err := resumed.Retreat(); err != nil {
		t.Fatalf("retreat: %v", err)
	}
	answer, ok := resumed.CurrentAnswer()
	if !ok {
		t.Fatalf("recorded answer was dropped across resume")
	}
	if answer != q.Options[0].Label {
		t.Fatalf("expected answer %q, got %v", q.Options[0].Label, answer)
	}
}

func TestResumeCompletedKindStillRequiresRetake(t *testing.T) {
	bank := testBank(t)
	p := New("Kim")

	complete(t, p, bank, assessment.KindSkills, false)

	if _, err := p.ResumeOrStart(bank, assessment.KindSkills); !errors.Is(err, assessment.ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}

func TestCompletedKindsOrder(t *testing.T) {
	bank := testBank(t)
	p := New("Kim")

	complete(t, p, bank, assessment.KindSkills, false)
	complete(t, p, bank, assessment.KindInterest, false)

	kinds := p.CompletedKinds()
	if len(kinds) != 2 {
		t.Fatalf("expected 2 completed kinds, got %v", kinds)
	}
	if kinds[0] != assessment.KindInterest || kinds[1] != assessment.KindSkills {
		t.Fatalf("expected presentation order, got %v", kinds)
	}
}

func TestVectorsReturnsIndependentCopies(t *testing.T) {
	bank := testBank(t)
	p := New("Kim")

	complete(t, p, bank, assessment.KindSkills, false)

	vectors := p.Vectors()
	for _, vector := range vectors {
		for trait := range vector {
			vector[trait] = -1
		}
	}

	cached, ok := p.Vector(assessment.KindSkills)
	if !ok {
		t.Fatalf("expected cached vector")
	}
	for trait, score := range cached {
		if score < 0 {
			t.Fatalf("mutating the Vectors copy corrupted the cache for %s", trait)
		}
	}
}

func TestRecommendCachesAndInvalidatesRanking(t *testing.T) {
	bank := testBank(t)
	catalog, err := career.DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}

	p := New("Kim")

	if _, err := p.Recommend(catalog, recommend.DefaultWeights()); !errors.Is(err, recommend.ErrNoAssessmentData) {
		t.Fatalf("expected ErrNoAssessmentData, got %v", err)
	}

	complete(t, p, bank, assessment.KindSkills, false)

	matches, err := p.Recommend(catalog, recommend.DefaultWeights())
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(matches) != catalog.Len() {
		t.Fatalf("expected %d matches, got %d", catalog.Len(), len(matches))
	}
	if p.Ranking() == nil {
		t.Fatalf("expected ranking to be cached")
	}

	complete(t, p, bank, assessment.KindPersonality, false)
	if p.Ranking() != nil {
		t.Fatalf("new assessment data should invalidate the ranking")
	}
}
