// Package filtering narrows the career catalog through a sequence of
// explorer filters (search term, category, salary band, experience level).
// Filters are pure: they derive a new catalog view and never mutate the
// shared catalog.
package filtering

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/career"
)

// Filter represents a single filtering step applied to the catalog.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(deps Deps, c *career.Catalog) (*career.Catalog, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains the explorer settings consumed by the filters.
type Config struct {
	Search     string
	Category   string
	SalaryMin  int
	SalaryMax  int
	Experience string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the narrowed catalog.
func Run(cfg *Config, deps Deps, steps []Filter, c *career.Catalog) (*career.Catalog, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(deps, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		c = next
	}

	return c, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns a new catalog holding the profiles the predicate accepts.
func keep(c *career.Catalog, predicate func(*career.Profile) bool) (*career.Catalog, Step) {
	initial := c.Len()
	items := make([]*career.Profile, 0, initial)

	for _, p := range c.Items {
		if predicate(p) {
			items = append(items, p)
		}
	}

	next := &career.Catalog{Items: items}
	return next, Step{Initial: initial, Dropped: initial - next.Len(), Left: next.Len()}
}
