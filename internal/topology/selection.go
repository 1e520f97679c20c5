package topology

import (
	"github.com/aryankumar/toposcale/internal/util"
)

// Selection is the ordered set of topologies chosen for a run
type Selection struct {
	Topologies []Descriptor

	// Skipped lists the names excluded by request, in catalog order
	Skipped []string
}

// Names returns the selected topology names in order
func (s Selection) Names() []string {
	return Names(s.Topologies)
}

// TaskCount returns the number of task units a run over rng will create
func (s Selection) TaskCount(rng RadixRange) int {
	return len(s.Topologies) * rng.Len()
}

// Select keeps every catalog entry not named in skip. Every skip name must
// match a catalog entry, otherwise a ConfigurationError is returned and
// nothing is selected. Names and tags must be unique within the catalog.
func Select(catalog []Descriptor, skip []string) (Selection, error) {
	known := make(map[string]struct{}, len(catalog))
	tags := make(map[string]struct{}, len(catalog))
	for _, d := range catalog {
		if d.Name == "" || d.Tag == "" || d.Compute == nil {
			return Selection{}, util.NewConfigurationError("topology", d.Name, "descriptor needs a name, a tag and a compute function")
		}
		if _, dup := known[d.Name]; dup {
			return Selection{}, util.NewConfigurationError("topology", d.Name, "duplicate topology name")
		}
		if _, dup := tags[d.Tag]; dup {
			return Selection{}, util.NewConfigurationError("topology", d.Tag, "duplicate topology tag")
		}
		known[d.Name] = struct{}{}
		tags[d.Tag] = struct{}{}
	}

	skipped := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		if _, ok := known[name]; !ok {
			return Selection{}, util.NewConfigurationError("skip", name, "not a valid topology")
		}
		skipped[name] = struct{}{}
	}

	sel := Selection{
		Topologies: make([]Descriptor, 0, len(catalog)),
		Skipped:    make([]string, 0, len(skipped)),
	}
	for _, d := range catalog {
		if _, skip := skipped[d.Name]; skip {
			sel.Skipped = append(sel.Skipped, d.Name)
			continue
		}
		sel.Topologies = append(sel.Topologies, d)
	}
	return sel, nil
}
