package ghost

import "github.com/notargets/flowcore/varset"

// EdgeSource is one of the two (edge) or three (corner) ghost values
// that border an edge or corner ghost cell.
type EdgeSource struct {
	State varset.Primitive
	Valid bool // false for a T-intersection-deferred neighbor not yet filled
	Wall  bool // true when this source's own BC is slipWall/viscousWall
	Depth int  // this source's own ghost-layer depth (1 = first layer out)
}

// IsWallBC reports whether a surface BC name is one of the wall variants
// spec 4.3's edge-extension rule singles out.
func IsWallBC(bcName string) bool {
	return bcName == "slipWall" || bcName == "viscousWall"
}

func zeroPrimitive(sources []EdgeSource) varset.Primitive {
	var layout varset.Layout
	for _, s := range sources {
		layout = s.State.Layout
		break
	}
	return varset.NewPrimitive(layout)
}

func averagePrimitive(sources []EdgeSource) varset.Primitive {
	out := zeroPrimitive(sources)
	n := 0
	for _, s := range sources {
		if !s.Valid {
			continue
		}
		for i := 0; i < out.Layout.Size(); i++ {
			out.Set(i, out.At(i)+s.State.At(i))
		}
		n++
	}
	if n == 0 {
		return out
	}
	scale := 1.0 / float64(n)
	for i := 0; i < out.Layout.Size(); i++ {
		out.Set(i, out.At(i)*scale)
	}
	return out
}

// ExtendEdge fills one edge ghost cell from the two regular ghost values
// that border it (spec 4.3 "Edge ghost extension"):
//   - if exactly one of b2, b3 is a wall type, the wall side's value is
//     extended into the edge cell and the non-wall side is ignored;
//   - otherwise (both walls, or both non-walls), the two sides are
//     averaged when their ghost depths match, else the deeper side's
//     value wins.
//
// A deferred (not-yet-valid) inter-block neighbor is excluded from the
// tie-break entirely — edge cells feed only the reconstruction stencils
// of their own two bordering faces, so a transient one-sided value never
// corrupts a residual that hasn't been computed yet (spec 9 open
// question on edge/corner asymmetry). If neither source is valid, the
// zero value is returned and the caller should retry on the next pass.
func ExtendEdge(b2, b3 EdgeSource) varset.Primitive {
	sources := []EdgeSource{b2, b3}
	valid := make([]EdgeSource, 0, 2)
	for _, s := range sources {
		if s.Valid {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return zeroPrimitive(sources)
	}
	if len(valid) == 1 {
		return valid[0].State
	}

	if b2.Wall != b3.Wall {
		if b2.Wall {
			return b2.State
		}
		return b3.State
	}

	if b2.Depth == b3.Depth {
		return averagePrimitive(valid)
	}
	if b2.Depth > b3.Depth {
		return b2.State
	}
	return b3.State
}

// ExtendCorner fills one corner ghost cell as the arithmetic mean of its
// three bordering (already edge-extended) values — corners carry no
// wall-extension logic of their own, since each contributing value has
// already been through ExtendEdge (spec 4.3: "corner ghosts ... are the
// arithmetic mean of the three adjacent edge ghosts").
func ExtendCorner(e1, e2, e3 EdgeSource) varset.Primitive {
	return averagePrimitive([]EdgeSource{e1, e2, e3})
}
