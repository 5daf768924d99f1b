package data

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/arena/internal/world"
)

// MobTemplate holds the static stats for one mob kind loaded from YAML.
type MobTemplate struct {
	Name         string `yaml:"name"`
	HP           int    `yaml:"hp"`
	Damage       int    `yaml:"damage"`
	KillScore    int    `yaml:"kill_score"`
	TicksPerMove int64  `yaml:"ticks_per_move"`

	Kind world.Kind `yaml:"-"`
}

// Stats converts the template to the values a mob entity is built from.
func (m *MobTemplate) Stats() world.MobStats {
	return world.MobStats{
		HP:           m.HP,
		Damage:       m.Damage,
		KillScore:    m.KillScore,
		TicksPerMove: m.TicksPerMove,
	}
}

type mobListFile struct {
	Mobs []MobTemplate `yaml:"mobs"`
}

// MobTable holds mob templates indexed by kind.
type MobTable struct {
	mobs map[world.Kind]*MobTemplate
}

// LoadMobTable loads mob templates from path, or the built-in table when
// path is empty. Every mob kind must be present.
func LoadMobTable(path string) (*MobTable, error) {
	raw, err := readTable(path, "mobs.yaml")
	if err != nil {
		return nil, fmt.Errorf("read mob_list: %w", err)
	}
	var f mobListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse mob_list: %w", err)
	}
	t := &MobTable{mobs: make(map[world.Kind]*MobTemplate, len(f.Mobs))}
	for i := range f.Mobs {
		m := &f.Mobs[i]
		k, err := world.ParseKind(m.Name)
		if err != nil {
			return nil, fmt.Errorf("mob_list: %w", err)
		}
		if !k.IsMob() {
			return nil, fmt.Errorf("mob_list: %q is not a mob", m.Name)
		}
		if m.HP <= 0 || m.TicksPerMove <= 0 {
			return nil, fmt.Errorf("mob_list: %s needs positive hp and ticks_per_move", m.Name)
		}
		m.Kind = k
		t.mobs[k] = m
	}
	for _, k := range world.MobKinds() {
		if _, ok := t.mobs[k]; !ok {
			return nil, fmt.Errorf("mob_list: missing %s", k)
		}
	}
	return t, nil
}

// Get returns the template for kind k, or nil.
func (t *MobTable) Get(k world.Kind) *MobTemplate {
	return t.mobs[k]
}

// Count returns the number of templates loaded.
func (t *MobTable) Count() int {
	return len(t.mobs)
}
