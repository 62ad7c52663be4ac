// Package career holds the static career catalog consumed by the
// recommendation engine. The catalog is read-only after loading and freely
// shared across sessions.
package career

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

const (
	ProfileIDField       = "ID"
	ProfileCategoryField = "Category"
)

// Profile describes one career: the required-trait weight profile the
// scoring engine consumes plus descriptive metadata that is opaque to it.
type Profile struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`

	// RequiredTraits maps trait names to relative weights.
	RequiredTraits map[string]float64 `yaml:"required_traits" mapstructure:"required_traits"`

	SalaryMin       int      `yaml:"salary_min" mapstructure:"salary_min"`
	SalaryMax       int      `yaml:"salary_max" mapstructure:"salary_max"`
	GrowthOutlook   string   `yaml:"growth_outlook" mapstructure:"growth_outlook"`
	Experience      string   `yaml:"experience"`
	Education       string   `yaml:"education"`
	Skills          []string `yaml:"skills"`
	WorkEnvironment string   `yaml:"work_environment" mapstructure:"work_environment"`
	JobSatisfaction float64  `yaml:"job_satisfaction" mapstructure:"job_satisfaction"`
	DemandLevel     string   `yaml:"demand_level" mapstructure:"demand_level"`
	Courses         []string `yaml:"courses"`
	Companies       []string `yaml:"companies"`
}

// SalaryRange renders the salary bounds the way the catalog displays them.
func (p *Profile) SalaryRange() string {
	return fmt.Sprintf("$%s - $%s", groupThousands(p.SalaryMin), groupThousands(p.SalaryMax))
}

func (p *Profile) GetStringField(name string) string {
	switch name {
	case ProfileIDField:
		return strconv.Itoa(p.ID)
	case ProfileCategoryField:
		return p.Category
	default:
		return ""
	}
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		s = s[1:]
	}

	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}

	if n < 0 {
		return "-" + s
	}
	return s
}

// Catalog is an ordered list of career profiles.
type Catalog struct {
	Items []*Profile
}

func (c *Catalog) Len() int {
	return len(c.Items)
}

func (c *Catalog) Titles() []string {
	titles := make([]string, 0, len(c.Items))
	for _, p := range c.Items {
		titles = append(titles, p.Title)
	}

	return titles
}

func (c *Catalog) FindByID(id int) *Profile {
	for _, p := range c.Items {
		if p.ID == id {
			return p
		}
	}

	return nil
}

// Categories returns the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	categories := make([]string, 0)

	for _, p := range c.Items {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}

	return categories
}

// ReportByCategory groups the catalog's display fields by category.
func (c *Catalog) ReportByCategory() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, p := range c.Items {
		category := p.GetStringField(ProfileCategoryField)
		report[category] = append(report[category], map[string]string{
			"id":             p.GetStringField(ProfileIDField),
			"title":          p.Title,
			"salary":         p.SalaryRange(),
			"growth_outlook": p.GrowthOutlook,
			"demand_level":   p.DemandLevel,
			"experience":     p.Experience,
		})
	}

	return report
}

// DumpToTmpFile writes the catalog to a temporary JSON file and returns its name.
func (c *Catalog) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "careers_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}
