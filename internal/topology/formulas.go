package topology

// FatTreeSize returns the endpoint count of a fat tree with the given number
// of levels. Starting from radix, each additional level multiplies by the
// lower half of the radix, then the upper half, alternating.
func FatTreeSize(radix, levels int) int64 {
	down := int64(radix / 2)
	up := int64(radix - radix/2)

	size := int64(radix)
	for level := 0; level < levels-1; level++ {
		if level%2 == 0 {
			size *= down
		} else {
			size *= up
		}
	}
	return size
}

// DragonflyVariant selects the closed form used by DragonflyPlusSize
type DragonflyVariant int

const (
	// VariantPlus is Dragonfly+
	VariantPlus DragonflyVariant = iota
	// VariantFat is Fat Dragon, also known as Dragonfly+-
	VariantFat
)

// String returns the variant name
func (v DragonflyVariant) String() string {
	switch v {
	case VariantPlus:
		return "plus"
	case VariantFat:
		return "fat"
	default:
		return "unknown"
	}
}

// DragonflyPlusSize returns the endpoint count of a Dragonfly+ or Fat Dragon
// built from routers of the given radix.
func DragonflyPlusSize(radix int, variant DragonflyVariant) int64 {
	half := int64(radix / 2)
	links := half * int64(radix-radix/2)

	if variant == VariantFat {
		return links * (half + 1)
	}
	return links * (links + 1)
}
