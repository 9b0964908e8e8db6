package dynamo

import (
	"fmt"
	"strings"
)

// Kind tags one of the supported pendulum variants.
type Kind int

const (
	Simple Kind = iota
	Double
	Triple
	Spherical
)

var kindNames = [...]string{
	Simple:    "simple",
	Double:    "double",
	Triple:    "triple",
	Spherical: "spherical",
}

// Kinds lists every supported variant in menu order.
func Kinds() []Kind { return []Kind{Simple, Double, Triple, Spherical} }

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// DOF returns the number of independent angles of the variant.
func (k Kind) DOF() int {
	switch k {
	case Simple:
		return 1
	case Double, Spherical:
		return 2
	case Triple:
		return 3
	default:
		return 0
	}
}

// Bodies returns the number of point masses drawn for the variant.
func (k Kind) Bodies() int {
	switch k {
	case Simple, Spherical:
		return 1
	case Double:
		return 2
	case Triple:
		return 3
	default:
		return 0
	}
}

func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "simple", "pendulum":
		return Simple, nil
	case "double", "double_pendulum":
		return Double, nil
	case "triple", "triple_pendulum":
		return Triple, nil
	case "spherical", "spherical_pendulum":
		return Spherical, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
