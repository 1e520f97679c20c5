package topology

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

var errNoSearcher = errors.New("no search procedure configured")

// Family groups topologies that share a sizing method
type Family string

const (
	FamilyFatTree       Family = "fat-tree"
	FamilyHyperX        Family = "hyperx"
	FamilyDragonfly     Family = "dragonfly"
	FamilyDragonflyPlus Family = "dragonfly-plus"
)

// ComputeFunc returns the maximum endpoint count for one radix.
// Implementations must be safe to call concurrently.
type ComputeFunc func(ctx context.Context, radix int) (int64, error)

// Descriptor is one selectable topology
type Descriptor struct {
	// Name is the display and column name, e.g. "2L Fat Tree (3)"
	Name string

	// Tag prefixes task names, e.g. "fattree_2l"
	Tag string

	Family Family

	// Params are the callback arguments other than the radix
	Params map[string]string

	Compute ComputeFunc
}

// Searchers are the external procedures used by search-based families
type Searchers struct {
	HyperX    Searcher
	Dragonfly Searcher
}

// FatTree describes an L-level fat tree
func FatTree(name string, levels int) Descriptor {
	return Descriptor{
		Name:   name,
		Tag:    fmt.Sprintf("fattree_%dl", levels),
		Family: FamilyFatTree,
		Params: map[string]string{"levels": strconv.Itoa(levels)},
		Compute: func(ctx context.Context, radix int) (int64, error) {
			return FatTreeSize(radix, levels), nil
		},
	}
}

// HyperX describes a D-dimensional HyperX sized by searcher
func HyperX(name string, dimensions int, searcher Searcher) Descriptor {
	return Descriptor{
		Name:   name,
		Tag:    fmt.Sprintf("hyperx_%dd", dimensions),
		Family: FamilyHyperX,
		Params: map[string]string{"dimensions": strconv.Itoa(dimensions)},
		Compute: func(ctx context.Context, radix int) (int64, error) {
			if searcher == nil {
				return 0, errNoSearcher
			}
			r := strconv.Itoa(radix)
			return searcher.Search(ctx, []string{r, r, strconv.Itoa(dimensions), "0.5"})
		},
	}
}

// Dragonfly describes a dragonfly sized by a hierarchical searcher
func Dragonfly(name string, searcher Searcher) Descriptor {
	return Descriptor{
		Name:   name,
		Tag:    "dragonfly",
		Family: FamilyDragonfly,
		Compute: func(ctx context.Context, radix int) (int64, error) {
			if searcher == nil {
				return 0, errNoSearcher
			}
			r := strconv.Itoa(radix)
			return searcher.Search(ctx, []string{r, r, "1", "1", "0.5"})
		},
	}
}

// DragonflyPlus describes a Dragonfly+ or Fat Dragon
func DragonflyPlus(name, tag string, variant DragonflyVariant) Descriptor {
	return Descriptor{
		Name:   name,
		Tag:    tag,
		Family: FamilyDragonflyPlus,
		Params: map[string]string{"variant": variant.String()},
		Compute: func(ctx context.Context, radix int) (int64, error) {
			return DragonflyPlusSize(radix, variant), nil
		},
	}
}

// Catalog returns every known topology in output column order
func Catalog(searchers Searchers) []Descriptor {
	return []Descriptor{
		FatTree("2L Fat Tree (3)", 2),
		FatTree("3L Fat Tree (5)", 3),
		HyperX("1D HyperX (2)", 1, searchers.HyperX),
		HyperX("2D HyperX (3)", 2, searchers.HyperX),
		HyperX("3D HyperX (4)", 3, searchers.HyperX),
		HyperX("4D HyperX (5)", 4, searchers.HyperX),
		Dragonfly("Dragonfly (4)", searchers.Dragonfly),
		DragonflyPlus("Dragonfly+ (4)", "dragonflyplus", VariantPlus),
		DragonflyPlus("Fat Dragon (4)", "fatdragon", VariantFat),
	}
}

// Names returns the descriptor names in order
func Names(descriptors []Descriptor) []string {
	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	return names
}
