package geom

import "fmt"

// Split divides the block along axis dir (0=i, 1=j, 2=k) at node index
// ind (0 < ind < N on that axis). The receiver is resized in place to the
// lower half [0, ind]; the returned block is the upper half [ind, N].
// Both halves share the split plane's nodes (spec 4.1).
func (p *PlotBlock) Split(dir, ind int) (*PlotBlock, error) {
	n := p.axisCellCount(dir)
	if ind <= 0 || ind >= n {
		return nil, fmt.Errorf("geom: split index %d out of range (0, %d) on axis %d", ind, n, dir)
	}

	lower := p.subBlock(dir, 0, ind)
	upper := p.subBlock(dir, ind, n)

	if err := lower.ComputeDerived(); err != nil {
		return nil, err
	}
	if err := upper.ComputeDerived(); err != nil {
		return nil, err
	}

	*p = *lower
	return upper, nil
}

func (p *PlotBlock) axisCellCount(dir int) int {
	switch dir {
	case 0:
		return p.ni
	case 1:
		return p.nj
	case 2:
		return p.nk
	default:
		panic(fmt.Sprintf("geom: invalid axis %d", dir))
	}
}

// subBlock extracts the node sub-range [lo, hi] (inclusive of both node
// bounds) along axis dir, copying the other two axes in full.
func (p *PlotBlock) subBlock(dir, lo, hi int) *PlotBlock {
	switch dir {
	case 0:
		sb := NewPlotBlock(hi-lo, p.nj, p.nk)
		for i := lo; i <= hi; i++ {
			for j := 0; j <= p.nj; j++ {
				for k := 0; k <= p.nk; k++ {
					sb.SetNode(i-lo, j, k, p.Node(i, j, k))
				}
			}
		}
		return sb
	case 1:
		sb := NewPlotBlock(p.ni, hi-lo, p.nk)
		for i := 0; i <= p.ni; i++ {
			for j := lo; j <= hi; j++ {
				for k := 0; k <= p.nk; k++ {
					sb.SetNode(i, j-lo, k, p.Node(i, j, k))
				}
			}
		}
		return sb
	case 2:
		sb := NewPlotBlock(p.ni, p.nj, hi-lo)
		for i := 0; i <= p.ni; i++ {
			for j := 0; j <= p.nj; j++ {
				for k := lo; k <= hi; k++ {
					sb.SetNode(i, j, k-lo, p.Node(i, j, k))
				}
			}
		}
		return sb
	default:
		panic(fmt.Sprintf("geom: invalid axis %d", dir))
	}
}

// Join merges other onto the receiver along axis dir; the receiver is
// assumed to be the lower half and other the upper half, sharing the split
// plane's nodes. The receiver is resized in place to the combined extent.
func (p *PlotBlock) Join(other *PlotBlock, dir int) error {
	switch dir {
	case 0:
		if p.nj != other.nj || p.nk != other.nk {
			return fmt.Errorf("geom: join axis 0 mismatch: (%d,%d) vs (%d,%d)", p.nj, p.nk, other.nj, other.nk)
		}
		merged := NewPlotBlock(p.ni+other.ni, p.nj, p.nk)
		copyBlockNodes(merged, p, 0, 0)
		copyBlockNodes(merged, other, p.ni, 0)
		if err := merged.ComputeDerived(); err != nil {
			return err
		}
		*p = *merged
	case 1:
		if p.ni != other.ni || p.nk != other.nk {
			return fmt.Errorf("geom: join axis 1 mismatch: (%d,%d) vs (%d,%d)", p.ni, p.nk, other.ni, other.nk)
		}
		merged := NewPlotBlock(p.ni, p.nj+other.nj, p.nk)
		copyBlockNodes(merged, p, 0, 0)
		copyBlockNodes(merged, other, 0, p.nj)
		if err := merged.ComputeDerived(); err != nil {
			return err
		}
		*p = *merged
	case 2:
		if p.ni != other.ni || p.nj != other.nj {
			return fmt.Errorf("geom: join axis 2 mismatch: (%d,%d) vs (%d,%d)", p.ni, p.nj, other.ni, other.nj)
		}
		merged := NewPlotBlock(p.ni, p.nj, p.nk+other.nk)
		copyBlockNodesK(merged, p, 0)
		copyBlockNodesK(merged, other, p.nk)
		if err := merged.ComputeDerived(); err != nil {
			return err
		}
		*p = *merged
	default:
		return fmt.Errorf("geom: invalid axis %d", dir)
	}
	return nil
}

func copyBlockNodes(dst, src *PlotBlock, iOff, jOff int) {
	for i := 0; i <= src.ni; i++ {
		for j := 0; j <= src.nj; j++ {
			for k := 0; k <= src.nk; k++ {
				dst.SetNode(i+iOff, j+jOff, k, src.Node(i, j, k))
			}
		}
	}
}

func copyBlockNodesK(dst, src *PlotBlock, kOff int) {
	for i := 0; i <= src.ni; i++ {
		for j := 0; j <= src.nj; j++ {
			for k := 0; k <= src.nk; k++ {
				dst.SetNode(i, j, k+kOff, src.Node(i, j, k))
			}
		}
	}
}
