package filtering

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/career"
)

// toggle carries the shared enable state for a filter. A disabled filter
// stays in the pipeline but is skipped by Run.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type searchFilter struct {
	toggle
	term string
}

// NewSearch creates a filter that keeps careers matching a free-text search
// term against title and description.
func NewSearch() Filter {
	return &searchFilter{}
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) Validate(cfg *Config) error {
	f.term = ""
	if cfg != nil {
		f.term = strings.ToLower(strings.TrimSpace(cfg.Search))
	}
	return nil
}

func (f *searchFilter) Apply(deps Deps, c *career.Catalog) (*career.Catalog, Step, error) {
	if f.term == "" {
		return c, Step{Initial: c.Len(), Dropped: 0, Left: c.Len()}, nil
	}

	next, info := keep(c, func(p *career.Profile) bool {
		return strings.Contains(strings.ToLower(p.Title), f.term) ||
			strings.Contains(strings.ToLower(p.Description), f.term)
	})

	if deps.Logger != nil && info.Dropped > 0 {
		deps.Logger.Info("excluding careers by search term",
			zap.String("term", f.term),
			zap.Int("careers_left", next.Len()),
		)
	}

	return next, info, nil
}

func (f *searchFilter) Status() Status {
	details := map[string]string{}
	if f.term != "" {
		details["term"] = f.term
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type categoryFilter struct {
	toggle
	category string
}

// NewCategory creates a filter that keeps careers of a single category.
func NewCategory() Filter {
	return &categoryFilter{}
}

func (f *categoryFilter) Name() string { return "category" }

func (f *categoryFilter) Validate(cfg *Config) error {
	f.category = ""
	if cfg != nil {
		f.category = strings.TrimSpace(cfg.Category)
	}
	return nil
}

func (f *categoryFilter) Apply(deps Deps, c *career.Catalog) (*career.Catalog, Step, error) {
	if f.category == "" || strings.EqualFold(f.category, "all") {
		return c, Step{Initial: c.Len(), Dropped: 0, Left: c.Len()}, nil
	}

	next, info := keep(c, func(p *career.Profile) bool {
		return strings.EqualFold(p.Category, f.category)
	})

	if deps.Logger != nil && info.Dropped > 0 {
		deps.Logger.Info("excluding careers by category",
			zap.String("category", f.category),
			zap.Int("careers_left", next.Len()),
		)
	}

	return next, info, nil
}

func (f *categoryFilter) Status() Status {
	details := map[string]string{}
	if f.category != "" {
		details["category"] = f.category
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type salaryFilter struct {
	toggle
	min int
	max int
}

// NewSalaryBand creates a filter that keeps careers whose salary range
// overlaps the configured band. Zero bounds are open-ended.
func NewSalaryBand() Filter {
	return &salaryFilter{}
}

func (f *salaryFilter) Name() string { return "salary_band" }

func (f *salaryFilter) Validate(cfg *Config) error {
	f.min, f.max = 0, 0
	if cfg != nil {
		f.min = cfg.SalaryMin
		f.max = cfg.SalaryMax
	}
	return nil
}

func (f *salaryFilter) Apply(deps Deps, c *career.Catalog) (*career.Catalog, Step, error) {
	if f.min == 0 && f.max == 0 {
		return c, Step{Initial: c.Len(), Dropped: 0, Left: c.Len()}, nil
	}

	next, info := keep(c, func(p *career.Profile) bool {
		if f.min > 0 && p.SalaryMax < f.min {
			return false
		}
		if f.max > 0 && p.SalaryMin > f.max {
			return false
		}
		return true
	})

	if deps.Logger != nil && info.Dropped > 0 {
		deps.Logger.Info("excluding careers by salary band",
			zap.Int("min", f.min),
			zap.Int("max", f.max),
			zap.Int("careers_left", next.Len()),
		)
	}

	return next, info, nil
}

func (f *salaryFilter) Status() Status {
	details := map[string]string{}
	if f.min > 0 {
		details["min"] = strconv.Itoa(f.min)
	}
	if f.max > 0 {
		details["max"] = strconv.Itoa(f.max)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type experienceFilter struct {
	toggle
	level string
}

// NewExperience creates a filter that keeps careers open to the configured
// experience level (substring match on the catalog's experience field).
func NewExperience() Filter {
	return &experienceFilter{}
}

func (f *experienceFilter) Name() string { return "experience" }

func (f *experienceFilter) Validate(cfg *Config) error {
	f.level = ""
	if cfg != nil {
		f.level = strings.ToLower(strings.TrimSpace(cfg.Experience))
	}
	return nil
}

func (f *experienceFilter) Apply(deps Deps, c *career.Catalog) (*career.Catalog, Step, error) {
	if f.level == "" || f.level == "all" {
		return c, Step{Initial: c.Len(), Dropped: 0, Left: c.Len()}, nil
	}

	next, info := keep(c, func(p *career.Profile) bool {
		return strings.Contains(strings.ToLower(p.Experience), f.level)
	})

	if deps.Logger != nil && info.Dropped > 0 {
		deps.Logger.Info("excluding careers by experience level",
			zap.String("level", f.level),
			zap.Int("careers_left", next.Len()),
		)
	}

	return next, info, nil
}

func (f *experienceFilter) Status() Status {
	details := map[string]string{}
	if f.level != "" {
		details["level"] = f.level
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// Explorer returns the standard explorer pipeline in application order.
func Explorer() []Filter {
	return []Filter{
		NewSearch(),
		NewCategory(),
		NewSalaryBand(),
		NewExperience(),
	}
}
