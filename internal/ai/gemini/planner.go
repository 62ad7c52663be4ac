package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/ai"
	"github.com/spigell/career-compass/internal/logger"
	"github.com/spigell/career-compass/internal/recommend"
	"github.com/spigell/career-compass/internal/traits"
	"github.com/spigell/career-compass/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	retryBackoff        = 2 * time.Second
)

// Planner produces career roadmaps via the Gemini API.
type Planner struct {
	generator  contentGenerator
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

func NewPlanner(generator contentGenerator, log *zap.Logger, maxRetries, maxLogLength int) *Planner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Planner{
		generator:  generator,
		maxRetries: maxRetries,
		maxLogLen:  maxLogLength,
		logger:     logger.WithFields(log),
	}
}

// Plan asks Gemini for a roadmap toward the user's best-matching career.
func (p *Planner) Plan(ctx context.Context, combined traits.Vector, matches []*recommend.Match) (*ai.Roadmap, error) {
	if len(combined) == 0 {
		return nil, fmt.Errorf("a combined trait vector is required")
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("at least one career match is required")
	}

	traitsJSON, err := json.MarshalIndent(combined, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trait payload: %w", err)
	}

	matchesJSON, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal matches payload: %w", err)
	}

	prompt := buildPrompt(string(traitsJSON), string(matchesJSON))

	p.logger.Debug("gemini roadmap request",
		zap.String("target_career", matches[0].Title),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("gemini roadmap response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, p.maxLogLen)),
	)

	roadmap, err := parseRoadmap(raw)
	if err != nil {
		return nil, err
	}

	roadmap.Raw = raw
	return roadmap, nil
}

func (p *Planner) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Warn("retrying gemini roadmap generation",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, retryBackoff); err != nil {
				return "", err
			}
		}

		raw, err := p.generator.GenerateContent(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("gemini roadmap generation failed after %d attempts: %w", p.maxRetries+1, lastErr)
}

func buildPrompt(traitsJSON, matchesJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Traits:\n{{TRAITS_JSON}}\n\nMatches:\n{{MATCHES_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{TRAITS_JSON}}", traitsJSON)
	prompt = strings.ReplaceAll(prompt, "{{MATCHES_JSON}}", matchesJSON)
	return prompt
}

func parseRoadmap(raw string) (*ai.Roadmap, error) {
	cleaned := extractJSON(raw)

	var data struct {
		Career string `json:"career"`
		Phases []struct {
			Name  string `json:"name"`
			Tasks []any  `json:"tasks"`
		} `json:"phases"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if len(data.Phases) == 0 {
		return nil, fmt.Errorf("gemini response contains no roadmap phases")
	}

	roadmap := &ai.Roadmap{Career: strings.TrimSpace(data.Career)}
	for _, phase := range data.Phases {
		name := strings.TrimSpace(phase.Name)
		if name == "" {
			continue
		}

		tasks := make([]string, 0, len(phase.Tasks))
		for _, task := range phase.Tasks {
			if text := strings.TrimSpace(coerceString(task)); text != "" {
				tasks = append(tasks, text)
			}
		}
		if len(tasks) == 0 {
			continue
		}

		roadmap.Phases = append(roadmap.Phases, ai.Phase{Name: name, Tasks: tasks})
	}

	if len(roadmap.Phases) == 0 {
		return nil, fmt.Errorf("gemini response contains no usable roadmap phases")
	}

	return roadmap, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
