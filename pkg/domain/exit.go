package domain

import (
	"fmt"
	"strings"
)

// ExitKind is the host's classification of one direction from the current cell.
type ExitKind int

const (
	Wall ExitKind = iota
	Passage
	BeenBefore
)

func (k ExitKind) String() string {
	switch k {
	case Wall:
		return "wall"
	case Passage:
		return "passage"
	case BeenBefore:
		return "been_before"
	}
	return fmt.Sprintf("ExitKind(%d)", int(k))
}

// MarshalText encodes the exit kind by name.
func (k ExitKind) MarshalText() ([]byte, error) {
	if k < Wall || k > BeenBefore {
		return nil, fmt.Errorf("invalid exit kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes an exit kind name.
func (k *ExitKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "wall":
		*k = Wall
	case "passage":
		*k = Passage
	case "been_before", "beenbefore":
		*k = BeenBefore
	default:
		return fmt.Errorf("unknown exit kind %q", text)
	}
	return nil
}
