// Package directcut decides, for each volume element of one mesh, whether
// it intersects, lies inside, or lies outside a set of cutting surface
// facets taken from an overlapping mesh. The per-element flags drive cell
// blanking in the overset assembler.
package directcut

// Flag is the per-element classification result. The numeric values are a
// contract with the assembly driver and must not change.
type Flag int32

const (
	// FlagUnassigned is the initial state; terminal only when no facet was
	// supplied.
	FlagUnassigned Flag = 0
	// FlagNormal marks an element on the outside of the cutting surface; it
	// stays active.
	FlagNormal Flag = 1
	// FlagHole marks an element hidden by the cutting surface; it is
	// blanked.
	FlagHole Flag = 2
	// FlagCut marks an element intersecting the cutting surface.
	FlagCut Flag = 3
)

func (f Flag) String() string {
	switch f {
	case FlagUnassigned:
		return "unassigned"
	case FlagNormal:
		return "normal"
	case FlagHole:
		return "hole"
	case FlagCut:
		return "cut"
	}
	return "invalid"
}
