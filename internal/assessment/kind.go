package assessment

import "fmt"

// Kind identifies one of the self-assessment categories.
type Kind string

const (
	KindInterest    Kind = "interest"
	KindPersonality Kind = "personality"
	KindSkills      Kind = "skills"
)

// AllKinds returns every assessment kind in presentation order.
func AllKinds() []Kind {
	return []Kind{KindInterest, KindPersonality, KindSkills}
}

// ParseKind converts a raw string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindInterest, KindPersonality, KindSkills:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownKind)
	}
}

func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

func (k Kind) String() string {
	return string(k)
}
