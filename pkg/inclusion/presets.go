package inclusion

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrUnknownPreset is returned when a preset name is not defined.
var ErrUnknownPreset = errors.New("unknown group preset")

// Presets maps preset names to group definitions, for example:
//
//	groups:
//	  gender:
//	    a: {label: Male, names: [JOHN, PETER]}
//	    b: {label: Female, names: [MARY]}
type Presets struct {
	Groups map[string]Groups `yaml:"groups"`
}

// LoadPresets reads a YAML preset file.
func LoadPresets(path string) (*Presets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets: %w", err)
	}
	defer f.Close()

	presets, err := ParsePresets(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("Loaded %d group presets from %s", len(presets.Groups), path)
	return presets, nil
}

// ParsePresets decodes presets from r.
func ParsePresets(r io.Reader) (*Presets, error) {
	var p Presets
	if err := yaml.NewDecoder(r).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	if p.Groups == nil {
		p.Groups = map[string]Groups{}
	}
	return &p, nil
}

// Get returns the named preset with default labels applied.
func (p *Presets) Get(name string) (Groups, error) {
	g, ok := p.Groups[name]
	if !ok {
		return Groups{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return g.WithDefaultLabels(), nil
}

// Names returns the preset names sorted alphabetically.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.Groups))
	for name := range p.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
