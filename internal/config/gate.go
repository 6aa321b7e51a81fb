package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// GateKind selects how a Gate disables items.
type GateKind int

const (
	// GateNone disables nothing. It is the zero value.
	GateNone GateKind = iota
	// GateAll disables every item.
	GateAll
	// GateSubset disables exactly the listed items.
	GateSubset
)

func (k GateKind) String() string {
	switch k {
	case GateNone:
		return "none"
	case GateAll:
		return "all"
	case GateSubset:
		return "subset"
	default:
		return fmt.Sprintf("GateKind(%d)", int(k))
	}
}

// Gate is a disable switch that is either a boolean or a list of names in
// config.toml. It is resolved once when the file is read.
type Gate struct {
	Kind  GateKind
	names map[string]struct{}
}

// DisableAll returns a Gate disabling everything.
func DisableAll() Gate {
	return Gate{Kind: GateAll}
}

// DisableNone returns a Gate disabling nothing.
func DisableNone() Gate {
	return Gate{Kind: GateNone}
}

// DisableOnly returns a Gate disabling exactly names. Duplicates collapse.
func DisableOnly(names ...string) Gate {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return Gate{Kind: GateSubset, names: set}
}

// Disables reports whether the gate turns off the named item.
func (g Gate) Disables(name string) bool {
	switch g.Kind {
	case GateAll:
		return true
	case GateSubset:
		_, ok := g.names[name]
		return ok
	default:
		return false
	}
}

// Names returns the sorted names of a GateSubset, or nil for other kinds.
func (g Gate) Names() []string {
	if g.Kind != GateSubset {
		return nil
	}
	out := make([]string, 0, len(g.names))
	for n := range g.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// String renders the gate the way it is written in config.toml.
func (g Gate) String() string {
	switch g.Kind {
	case GateAll:
		return "true"
	case GateSubset:
		return "[" + strings.Join(g.Names(), ", ") + "]"
	default:
		return "false"
	}
}

// tomlValue is the value written back to config.toml.
func (g Gate) tomlValue() any {
	if g.Kind == GateSubset {
		return g.Names()
	}
	return g.Kind == GateAll
}

// parseGate converts a raw value read from the file or the environment.
// Files produce bool or []any; environment variables produce strings, either
// a boolean literal or a comma separated list.
func parseGate(raw any) (Gate, error) {
	switch v := raw.(type) {
	case nil:
		return DisableNone(), nil
	case bool:
		if v {
			return DisableAll(), nil
		}
		return DisableNone(), nil
	case []string:
		return DisableOnly(v...), nil
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return Gate{}, fmt.Errorf("expected a list of strings, found %T element", item)
			}
			names = append(names, s)
		}
		return DisableOnly(names...), nil
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parseGate(b)
		}
		var names []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				names = append(names, part)
			}
		}
		return DisableOnly(names...), nil
	default:
		return Gate{}, fmt.Errorf("expected a boolean or a list of strings, found %T", raw)
	}
}
