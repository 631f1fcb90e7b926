package particle

import "fmt"

// Element indexes the per-element mass fractions of baryonic particles.
type Element int

const (
	Hydrogen Element = iota
	Helium
	Carbon
	Nitrogen
	Oxygen
	Neon
	Magnesium
	Silicon
	Sulphur
	Calcium
	Iron
	NumElements
)

var elementNames = [NumElements]string{
	"hydrogen", "helium", "carbon", "nitrogen", "oxygen", "neon",
	"magnesium", "silicon", "sulphur", "calcium", "iron",
}

func (e Element) String() string {
	if e < 0 || e >= NumElements {
		return fmt.Sprintf("Element(%d)", int(e))
	}
	return elementNames[e]
}

// Abundances holds one mass fraction per element.
type Abundances [NumElements]float64
