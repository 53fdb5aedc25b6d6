// Package cssdata loads the curated CSS properties/at-directives/
// pseudo-class/pseudo-element tables that the completion, hover and
// diagnostic-rule collaborators consume. The parser itself never reads
// this package.
package cssdata

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Browser is the closed set of browsers a support entry can name.
type Browser string

const (
	Edge    Browser = "E"
	Firefox Browser = "FF"
	Safari  Browser = "S"
	Chrome  Browser = "C"
	IE      Browser = "IE"
	Opera   Browser = "O"
)

// Status is an entry's standardization status.
type Status string

const (
	Standard     Status = "standard"
	Experimental Status = "experimental"
	Nonstandard  Status = "nonstandard"
	Obsolete     Status = "obsolete"
)

func (s *Status) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch Status(raw) {
	case Standard, Experimental, Nonstandard, Obsolete, "":
		*s = Status(raw)
		return nil
	default:
		return fmt.Errorf("cssdata: invalid status %q", raw)
	}
}

// BrowserSupportEntry is one "<Browser><Version>" pair, e.g. {Browser: C,
// Version: "1"}. The table never interprets version ordering; it is
// opaque data forwarded to completion/hover collaborators.
type BrowserSupportEntry struct {
	Browser Browser
	Version string
}

func (e *BrowserSupportEntry) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	for _, b := range []Browser{Edge, Firefox, Safari, Chrome, IE, Opera} {
		if len(raw) > len(b) && raw[:len(b)] == string(b) {
			e.Browser = b
			e.Version = raw[len(b):]
			return nil
		}
	}
	return fmt.Errorf("cssdata: invalid browser support entry %q", raw)
}

// BrowserSupport is an opaque compat blob: a typed array for YAML
// round-tripping only, never interpreted here.
type BrowserSupport []BrowserSupportEntry

// Entry is the shared shape of properties, at-directives, pseudo-classes
// and pseudo-elements.
type Entry struct {
	Name           string         `yaml:"name"`
	Description    string         `yaml:"description,omitempty"`
	BrowserSupport BrowserSupport `yaml:"browsers,omitempty"`
	Status         Status         `yaml:"status,omitempty"`
	Restrictions   []string       `yaml:"restrictions,omitempty"`
	Values         []ValueEntry   `yaml:"values,omitempty"`
}

type ValueEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Data is the full four-list provider contract.
type Data struct {
	Properties     []Entry `yaml:"properties"`
	AtDirectives   []Entry `yaml:"atDirectives"`
	PseudoClasses  []Entry `yaml:"pseudoClasses"`
	PseudoElements []Entry `yaml:"pseudoElements"`
}

// Load parses a YAML document (the on-disk format for the bundled data
// file, or a caller-supplied override) into a Data table.
func Load(contents []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(contents, &d); err != nil {
		return nil, fmt.Errorf("cssdata: %w", err)
	}
	return &d, nil
}

// Provider exposes name-indexed lookups over a loaded Data table, built
// once and shared across requests the way a completion/hover
// collaborator wants it. The parser itself never calls it.
type Provider struct {
	data               *Data
	propertiesByName   map[string]*Entry
	atDirectivesByName map[string]*Entry
	pseudoClassByName  map[string]*Entry
	pseudoElemByName   map[string]*Entry
}

func NewProvider(data *Data) *Provider {
	p := &Provider{
		data:               data,
		propertiesByName:   make(map[string]*Entry, len(data.Properties)),
		atDirectivesByName: make(map[string]*Entry, len(data.AtDirectives)),
		pseudoClassByName:  make(map[string]*Entry, len(data.PseudoClasses)),
		pseudoElemByName:   make(map[string]*Entry, len(data.PseudoElements)),
	}
	index := func(entries []Entry, m map[string]*Entry) {
		for i := range entries {
			m[entries[i].Name] = &entries[i]
		}
	}
	index(data.Properties, p.propertiesByName)
	index(data.AtDirectives, p.atDirectivesByName)
	index(data.PseudoClasses, p.pseudoClassByName)
	index(data.PseudoElements, p.pseudoElemByName)
	return p
}

func (p *Provider) Property(name string) (*Entry, bool) {
	e, ok := p.propertiesByName[name]
	return e, ok
}

func (p *Provider) AtDirective(name string) (*Entry, bool) {
	e, ok := p.atDirectivesByName[name]
	return e, ok
}

func (p *Provider) PseudoClass(name string) (*Entry, bool) {
	e, ok := p.pseudoClassByName[name]
	return e, ok
}

func (p *Provider) PseudoElement(name string) (*Entry, bool) {
	e, ok := p.pseudoElemByName[name]
	return e, ok
}

func (p *Provider) Properties() []Entry     { return p.data.Properties }
func (p *Provider) AtDirectives() []Entry   { return p.data.AtDirectives }
func (p *Provider) PseudoClasses() []Entry  { return p.data.PseudoClasses }
func (p *Provider) PseudoElements() []Entry { return p.data.PseudoElements }
