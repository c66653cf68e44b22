package bcset

// Split partitions the boundary condition set for a mesh split along axis
// dir (0=i,1=j,2=k) at cell index ind, returning the BC set for the lower
// block (cells [0,ind)) and the upper block (cells [ind,N), re-based to
// start at 0). Surfaces on the two faces transverse to dir are duplicated
// into both halves with clipped ranges; surfaces on the split axis's own
// low/high faces go entirely to the half that retains that face; a new
// "interblock" surface is synthesized on the newly created faces at the
// split plane.
func (bc *BoundaryConditions) Split(dir, ind, n int) (lower, upper *BoundaryConditions) {
	lower = &BoundaryConditions{}
	upper = &BoundaryConditions{}

	for _, s := range bc.Surfaces {
		if s.Side.Direction3() == dir {
			lo, hi := axisRange(s, dir)
			if s.Side.IsLow() {
				if lo < ind {
					lower.Surfaces = append(lower.Surfaces, s)
				}
			} else {
				if hi > ind {
					u := s
					shiftAxis(&u, dir, -ind)
					upper.Surfaces = append(upper.Surfaces, u)
				}
			}
			continue
		}
		// Transverse surface: clip its span along dir into each half and
		// duplicate only the part that survives clipping.
		lo, hi := axisRange(s, dir)
		if lo < ind {
			l := s
			clipAxis(&l, dir, lo, min(hi, ind))
			lower.Surfaces = append(lower.Surfaces, l)
		}
		if hi > ind {
			u := s
			clipAxis(&u, dir, max(lo, ind), hi)
			shiftAxis(&u, dir, -ind)
			upper.Surfaces = append(upper.Surfaces, u)
		}
	}

	lowSide, highSide := splitFaceSides(dir)
	lower.Surfaces = append(lower.Surfaces, newSplitFace(bc, dir, highSide, ind, n))
	upper.Surfaces = append(upper.Surfaces, newSplitFace(bc, dir, lowSide, 0, n-ind))
	return lower, upper
}

func splitFaceSides(dir int) (low, high Side) {
	switch dir {
	case 0:
		return ILo, IHi
	case 1:
		return JLo, JHi
	default:
		return KLo, KHi
	}
}

func newSplitFace(bc *BoundaryConditions, dir int, side Side, splitPos, extent int) Surface {
	s := Surface{Side: side, BCName: "interblock"}
	s.IMin, s.IMax = bc.fullRange(0)
	s.JMin, s.JMax = bc.fullRange(1)
	s.KMin, s.KMax = bc.fullRange(2)
	switch dir {
	case 0:
		s.IMin, s.IMax = splitPos, splitPos+1
	case 1:
		s.JMin, s.JMax = splitPos, splitPos+1
	case 2:
		s.KMin, s.KMax = splitPos, splitPos+1
	}
	return s
}

// fullRange is a best-effort span covering all surfaces on this BC set
// along the given axis; used only to seed a synthesized split face before
// the caller narrows it to a single index.
func (bc *BoundaryConditions) fullRange(axis int) (lo, hi int) {
	lo, hi = 0, 0
	for _, s := range bc.Surfaces {
		l, h := axisRange(s, axis)
		if h > hi {
			hi = h
		}
		_ = l
	}
	return lo, hi
}

func axisRange(s Surface, axis int) (lo, hi int) {
	switch axis {
	case 0:
		return s.IMin, s.IMax
	case 1:
		return s.JMin, s.JMax
	default:
		return s.KMin, s.KMax
	}
}

func clipAxis(s *Surface, axis, lo, hi int) {
	switch axis {
	case 0:
		s.IMin, s.IMax = lo, hi
	case 1:
		s.JMin, s.JMax = lo, hi
	default:
		s.KMin, s.KMax = lo, hi
	}
}

func shiftAxis(s *Surface, axis, delta int) {
	switch axis {
	case 0:
		s.IMin, s.IMax = s.IMin+delta, s.IMax+delta
	case 1:
		s.JMin, s.JMax = s.JMin+delta, s.JMax+delta
	default:
		s.KMin, s.KMax = s.KMin+delta, s.KMax+delta
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Join is the inverse of Split along dir: it concatenates lower and upper's
// surfaces, dropping the synthesized interblock split faces on both sides
// and re-basing upper's ranges by lower's extent n.
func Join(lower, upper *BoundaryConditions, dir, n int) *BoundaryConditions {
	lowSide, highSide := splitFaceSides(dir)
	out := &BoundaryConditions{}
	for _, s := range lower.Surfaces {
		if s.Side == highSide && s.BCName == "interblock" {
			continue
		}
		out.Surfaces = append(out.Surfaces, s)
	}
	for _, s := range upper.Surfaces {
		if s.Side == lowSide && s.BCName == "interblock" {
			continue
		}
		u := s
		shiftAxis(&u, dir, n)
		out.Surfaces = append(out.Surfaces, u)
	}
	return out
}
