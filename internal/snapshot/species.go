package snapshot

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownSpecies = errors.New("snapshot: unknown species")

// Species identifies one particle population of a snapshot.
type Species int

const (
	DarkMatter Species = iota
	Gas
	Stars
)

var speciesNames = [...]string{
	DarkMatter: "dark_matter",
	Gas:        "gas",
	Stars:      "stars",
}

func (s Species) String() string {
	if s < 0 || int(s) >= len(speciesNames) {
		return fmt.Sprintf("Species(%d)", int(s))
	}
	return speciesNames[s]
}

func ParseSpecies(name string) (Species, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range speciesNames {
		if n == name {
			return Species(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSpecies, name)
}

func AllSpecies() []Species {
	return []Species{DarkMatter, Gas, Stars}
}
