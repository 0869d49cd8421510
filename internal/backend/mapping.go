package backend

// indexMap is the fixed permutation between logical indices (stable UI-facing
// ordering) and physical indices (position in the raw hardware enumeration).
// When swapFirstTwo is set it exchanges indices 0 and 1 and passes everything
// else through unchanged, which makes it its own inverse. The swap is a fixed
// layout fix carried as configuration, not a detection rule.
type indexMap struct {
	swapFirstTwo bool
}

// toPhysical maps a logical index to its physical index.
func (m indexMap) toPhysical(logical int) int {
	return m.apply(logical)
}

// toLogical maps a physical index back to its logical index. The permutation
// is self-inverse, so this is the same transform.
func (m indexMap) toLogical(physical int) int {
	return m.apply(physical)
}

func (m indexMap) apply(i int) int {
	if !m.swapFirstTwo {
		return i
	}
	switch i {
	case 0:
		return 1
	case 1:
		return 0
	default:
		return i
	}
}
