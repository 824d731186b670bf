package guard

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed routes.yaml
var defaultTable []byte

// Table is the console route tree as written in routes.yaml.
type Table struct {
	Groups []Group `yaml:"groups"`
}

type Group struct {
	Guards  []string `yaml:"guards"`
	Screens []Screen `yaml:"screens"`
	Groups  []Group  `yaml:"groups"`
}

type Screen struct {
	Path   string `yaml:"path"`
	Screen string `yaml:"screen"`
}

// Route is one screen with the full guard chain that protects it.
type Route struct {
	Path   string
	Screen string
	Guards []Guard
}

var ErrEmptyTable = errors.New("route table has no screens")

// LoadTable reads the route table from path, or the built-in table when path is
// empty, and resolves it into routes.
func LoadTable(path string) ([]Route, error) {
	data := defaultTable
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read route table: %w", err)
		}
		data = b
	}
	return ParseTable(data)
}

func ParseTable(data []byte) ([]Route, error) {
	var t Table
	if err := yaml.UnmarshalWithOptions(data, &t, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("parse route table: %w", err)
	}
	return t.Resolve()
}

// Resolve flattens the tree, looking up every guard by name. Unknown guards,
// malformed paths and duplicate paths are errors.
func (t Table) Resolve() ([]Route, error) {
	var (
		routes []Route
		errs   []error
		seen   = map[string]bool{}
	)

	var walk func(g Group, parents []Guard)
	walk = func(g Group, parents []Guard) {
		chain := append([]Guard(nil), parents...)
		for _, name := range g.Guards {
			gd, ok := Lookup(name)
			if !ok {
				errs = append(errs, fmt.Errorf("unknown guard %q", name))
				continue
			}
			chain = append(chain, gd)
		}
		for _, s := range g.Screens {
			switch {
			case !strings.HasPrefix(s.Path, "/"):
				errs = append(errs, fmt.Errorf("screen %q: path %q must start with /", s.Screen, s.Path))
				continue
			case s.Screen == "":
				errs = append(errs, fmt.Errorf("path %q has no screen name", s.Path))
				continue
			case seen[s.Path]:
				errs = append(errs, fmt.Errorf("duplicate path %q", s.Path))
				continue
			}
			seen[s.Path] = true
			routes = append(routes, Route{Path: s.Path, Screen: s.Screen, Guards: chain})
		}
		for _, child := range g.Groups {
			walk(child, chain)
		}
	}

	for _, g := range t.Groups {
		walk(g, nil)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, ErrEmptyTable
	}
	return routes, nil
}

// GuardNames lists the chain of r, outermost first.
func (r Route) GuardNames() []string {
	out := make([]string, len(r.Guards))
	for i, g := range r.Guards {
		out[i] = g.Name
	}
	return out
}
