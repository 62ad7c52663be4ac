package assessment

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed bank.yaml
var defaultBank []byte

// Definition is one assessment's entry in the question bank: an ordered,
// immutable list of questions plus presentation metadata.
type Definition struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Questions   []*Question `yaml:"questions"`
}

// Bank is the immutable catalog of assessment definitions. It is read-only
// after loading and safe to share across sessions.
type Bank struct {
	defs map[Kind]*Definition
}

// DefaultBank parses the question bank shipped with the binary.
func DefaultBank() (*Bank, error) {
	return parseBank(defaultBank)
}

// LoadBank reads a question bank from a YAML file.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank: %w", err)
	}

	bank, err := parseBank(data)
	if err != nil {
		return nil, fmt.Errorf("question bank %q: %w", path, err)
	}

	return bank, nil
}

func parseBank(data []byte) (*Bank, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	bank := &Bank{defs: make(map[Kind]*Definition, len(raw))}

	for name, item := range raw {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, err
		}

		var def *Definition
		cfg := &mapstructure.DecoderConfig{
			Result:  &def,
			TagName: "yaml",
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(item); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}

		if err := def.validate(kind); err != nil {
			return nil, err
		}

		bank.defs[kind] = def
	}

	return bank, nil
}

func (d *Definition) validate(kind Kind) error {
	if len(d.Questions) == 0 {
		return fmt.Errorf("%s: assessment has no questions", kind)
	}

	seen := make(map[int]bool, len(d.Questions))
	for _, q := range d.Questions {
		if seen[q.ID] {
			return fmt.Errorf("%s: duplicate question id %d", kind, q.ID)
		}
		seen[q.ID] = true

		if err := q.Validate(); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
	}

	return nil
}

// Definition returns the entry for the given kind.
func (b *Bank) Definition(kind Kind) (*Definition, error) {
	def, ok := b.defs[kind]
	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownKind)
	}

	return def, nil
}

// Kinds returns the defined assessment kinds in presentation order.
func (b *Bank) Kinds() []Kind {
	kinds := make([]Kind, 0, len(b.defs))
	for _, kind := range AllKinds() {
		if _, ok := b.defs[kind]; ok {
			kinds = append(kinds, kind)
		}
	}

	return kinds
}
