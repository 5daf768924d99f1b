package data

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/arena/internal/world"
)

// Preset is a named difficulty level.
type Preset struct {
	Name             string   `yaml:"name"`
	PlayerHP         int      `yaml:"player_hp"`
	MobTypes         []string `yaml:"mob_types"`
	MaxMobs          int      `yaml:"max_mobs"`
	MobSpawnInterval int64    `yaml:"mob_spawn_interval"`

	MobKinds []world.Kind `yaml:"-"`
}

type presetListFile struct {
	Presets []Preset `yaml:"presets"`
}

// PresetTable holds difficulty presets keyed by lower-case name.
type PresetTable struct {
	presets map[string]*Preset
	order   []string
}

// LoadPresetTable loads difficulty presets from path, or the built-in
// easy/medium/hard set when path is empty.
func LoadPresetTable(path string) (*PresetTable, error) {
	raw, err := readTable(path, "presets.yaml")
	if err != nil {
		return nil, fmt.Errorf("read preset_list: %w", err)
	}
	var f presetListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse preset_list: %w", err)
	}
	t := &PresetTable{presets: make(map[string]*Preset, len(f.Presets))}
	for i := range f.Presets {
		p := &f.Presets[i]
		kinds, err := ParseMobKinds(p.MobTypes)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", p.Name, err)
		}
		p.MobKinds = kinds
		key := strings.ToLower(p.Name)
		t.presets[key] = p
		t.order = append(t.order, key)
	}
	return t, nil
}

// Get returns the preset called name (case-insensitive), or nil.
func (t *PresetTable) Get(name string) *Preset {
	return t.presets[strings.ToLower(name)]
}

// Names returns the preset names in file order.
func (t *PresetTable) Names() []string {
	return append([]string(nil), t.order...)
}

// Count returns the number of presets loaded.
func (t *PresetTable) Count() int {
	return len(t.presets)
}

// ParseMobKinds maps catalog names to mob kinds, dropping duplicates.
func ParseMobKinds(names []string) ([]world.Kind, error) {
	seen := make(map[world.Kind]bool, len(names))
	out := make([]world.Kind, 0, len(names))
	for _, n := range names {
		k, err := world.ParseKind(strings.ToLower(strings.TrimSpace(n)))
		if err != nil {
			return nil, err
		}
		if !k.IsMob() {
			return nil, fmt.Errorf("%q is not a mob kind", n)
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}
