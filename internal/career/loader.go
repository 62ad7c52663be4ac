package career

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultCatalog parses the career catalog shipped with the binary.
func DefaultCatalog() (*Catalog, error) {
	return parseCatalog(defaultCatalog)
}

// LoadCatalog reads a career catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading career catalog: %w", err)
	}

	catalog, err := parseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("career catalog %q: %w", path, err)
	}

	return catalog, nil
}

func parseCatalog(data []byte) (*Catalog, error) {
	var raw struct {
		Careers []any `yaml:"careers"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var profiles []*Profile
	if err := mapstructure.Decode(raw.Careers, &profiles); err != nil {
		return nil, err
	}

	catalog := &Catalog{Items: profiles}
	if err := catalog.validate(); err != nil {
		return nil, err
	}

	return catalog, nil
}

func (c *Catalog) validate() error {
	if len(c.Items) == 0 {
		return fmt.Errorf("catalog has no careers")
	}

	seen := make(map[int]bool, len(c.Items))
	for _, p := range c.Items {
		if p.Title == "" {
			return fmt.Errorf("career %d: title is required", p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("career %d: duplicate id", p.ID)
		}
		seen[p.ID] = true

		if len(p.RequiredTraits) == 0 {
			return fmt.Errorf("career %d (%s): required_traits must not be empty", p.ID, p.Title)
		}
		for trait, weight := range p.RequiredTraits {
			if weight <= 0 {
				return fmt.Errorf("career %d (%s): trait %q has non-positive weight %f", p.ID, p.Title, trait, weight)
			}
		}
	}

	return nil
}
