// Package encounter loads encounter templates from YAML. A template names
// the participants of a combat so a simulation or admin command can seed an
// encounter without hand-building the roster.
package encounter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParticipantDef is one combatant in a template.
type ParticipantDef struct {
	Name          string  `yaml:"name"`
	Kind          string  `yaml:"kind"` // "player" | "npc"
	MaxHP         float64 `yaml:"max_hp"`
	InitiativeMod int     `yaml:"initiative_mod"`
}

// Template is the static definition of an encounter, loaded from YAML.
type Template struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Participants []ParticipantDef `yaml:"participants"`
}

// Validate checks template-level invariants.
//
// Postcondition: A nil return means the template can seed a combat.
func (t *Template) Validate() error {
	var errs []string
	if t.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if len(t.Participants) < 2 {
		errs = append(errs, fmt.Sprintf("need at least 2 participants, got %d", len(t.Participants)))
	}
	seen := make(map[string]bool, len(t.Participants))
	for i, p := range t.Participants {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("participant %d: name must not be empty", i))
			continue
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Sprintf("duplicate participant name %q", p.Name))
		}
		seen[p.Name] = true
		if p.Kind != "player" && p.Kind != "npc" {
			errs = append(errs, fmt.Sprintf("participant %q: kind must be \"player\" or \"npc\", got %q", p.Name, p.Kind))
		}
		if p.MaxHP <= 0 {
			errs = append(errs, fmt.Sprintf("participant %q: max_hp must be positive, got %v", p.Name, p.MaxHP))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid encounter template: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadFile reads and validates a single template.
//
// Precondition: path must name a readable YAML file.
// Postcondition: Returns a validated template or an error, never both.
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading encounter template %q: %w", path, err)
	}
	var t Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	return &t, nil
}

// LoadDirectory reads every *.yaml file in dir and returns the templates
// keyed by ID. Duplicate IDs across files are an error.
func LoadDirectory(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading encounter dir %q: %w", dir, err)
	}
	templates := make(map[string]*Template)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		t, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := templates[t.ID]; dup {
			return nil, fmt.Errorf("duplicate encounter id %q in %q", t.ID, e.Name())
		}
		templates[t.ID] = t
	}
	return templates, nil
}
