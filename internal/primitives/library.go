// Package primitives holds the signatures of the primitive cells (registers,
// adders, comparators, memories) that structure statements instantiate.
//
// A library is plain configuration data. The standard library is embedded
// from std.yaml; callers may merge additional YAML definitions on top.
package primitives

import (
	_ "embed"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed std.yaml
var stdLibrary []byte

type Direction string

const (
	Input  Direction = "input"
	Output Direction = "output"
)

// Width is either a literal bit width or the name of a primitive parameter.
type Width struct {
	Literal uint64
	Param   string
}

func (w *Width) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: width must be a scalar", value.Line)
	}
	if n, err := strconv.ParseUint(value.Value, 10, 64); err == nil {
		w.Literal = n
		return nil
	}
	w.Param = value.Value
	return nil
}

func (w Width) String() string {
	if w.Param != "" {
		return w.Param
	}
	return strconv.FormatUint(w.Literal, 10)
}

type PortSpec struct {
	Name      string    `yaml:"name"`
	Width     Width     `yaml:"width"`
	Direction Direction `yaml:"direction"`
}

// Primitive is a parametric cell signature.
type Primitive struct {
	Name   string     `yaml:"name"`
	Params []string   `yaml:"params"`
	Ports  []PortSpec `yaml:"ports"`
}

// ResolvedPort is a primitive port with its width bound to concrete parameters.
type ResolvedPort struct {
	Name      string
	Width     uint64
	Direction Direction
}

// Resolve binds params positionally to the primitive's parameter names and
// returns the concrete port list.
func (p *Primitive) Resolve(params []int64) ([]ResolvedPort, error) {
	if len(params) != len(p.Params) {
		return nil, errors.Errorf("primitive %s expects %d parameters, got %d", p.Name, len(p.Params), len(params))
	}

	bound := make(map[string]int64, len(params))
	for i, name := range p.Params {
		bound[name] = params[i]
	}

	ports := make([]ResolvedPort, 0, len(p.Ports))
	for _, spec := range p.Ports {
		width := spec.Width.Literal
		if spec.Width.Param != "" {
			v := bound[spec.Width.Param]
			if v < 0 {
				return nil, errors.Errorf("primitive %s: parameter %s must not be negative, got %d", p.Name, spec.Width.Param, v)
			}
			width = uint64(v)
		}
		ports = append(ports, ResolvedPort{Name: spec.Name, Width: width, Direction: spec.Direction})
	}
	return ports, nil
}

type libraryFile struct {
	Primitives []*Primitive `yaml:"primitives"`
}

// Library is an ordered, name-indexed set of primitives.
type Library struct {
	order []string
	prims map[string]*Primitive
}

func NewLibrary() *Library {
	return &Library{prims: make(map[string]*Primitive)}
}

// Default returns a fresh copy of the embedded standard library.
func Default() *Library {
	lib, err := Load(stdLibrary)
	if err != nil {
		panic(errors.Wrap(err, "embedded std.yaml"))
	}
	return lib
}

// Load parses a YAML library definition.
func Load(data []byte) (*Library, error) {
	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parse primitive library")
	}

	lib := NewLibrary()
	for _, p := range file.Primitives {
		if err := validate(p); err != nil {
			return nil, err
		}
		if _, dup := lib.prims[p.Name]; dup {
			return nil, errors.Errorf("primitive %s defined twice", p.Name)
		}
		lib.Add(p)
	}
	return lib, nil
}

// LoadFile reads a YAML library definition from disk.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read primitive library %s", path)
	}
	lib, err := Load(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return lib, nil
}

func validate(p *Primitive) error {
	if p.Name == "" {
		return errors.New("primitive without a name")
	}
	params := make(map[string]bool, len(p.Params))
	for _, name := range p.Params {
		params[name] = true
	}
	seen := make(map[string]bool, len(p.Ports))
	for _, port := range p.Ports {
		if seen[port.Name] {
			return errors.Errorf("primitive %s: duplicate port %s", p.Name, port.Name)
		}
		seen[port.Name] = true
		if port.Width.Param != "" && !params[port.Width.Param] {
			return errors.Errorf("primitive %s: port %s uses unknown parameter %s", p.Name, port.Name, port.Width.Param)
		}
		if port.Direction != Input && port.Direction != Output {
			return errors.Errorf("primitive %s: port %s has invalid direction %q", p.Name, port.Name, port.Direction)
		}
	}
	return nil
}

// Add inserts or replaces a primitive.
func (l *Library) Add(p *Primitive) {
	if _, ok := l.prims[p.Name]; !ok {
		l.order = append(l.order, p.Name)
	}
	l.prims[p.Name] = p
}

// Merge adds every primitive of other, replacing same-named entries.
func (l *Library) Merge(other *Library) {
	for _, name := range other.order {
		l.Add(other.prims[name])
	}
}

func (l *Library) Lookup(name string) (*Primitive, bool) {
	p, ok := l.prims[name]
	return p, ok
}

// Names returns primitive names in definition order.
func (l *Library) Names() []string {
	return append([]string(nil), l.order...)
}
