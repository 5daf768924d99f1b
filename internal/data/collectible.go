package data

import (
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/arena/internal/world"
)

// CollectibleTemplate describes the random ranges for one item kind.
type CollectibleTemplate struct {
	Name        string `yaml:"name"`
	Weight      int    `yaml:"weight"`
	PotencyMin  int    `yaml:"potency_min"`
	PotencyMax  int    `yaml:"potency_max"`
	LifetimeMin int64  `yaml:"lifetime_min"`
	LifetimeMax int64  `yaml:"lifetime_max"`

	Kind world.Kind `yaml:"-"`
}

type collectibleListFile struct {
	Collectibles []CollectibleTemplate `yaml:"collectibles"`
}

// CollectibleTable holds the item catalog in file order.
type CollectibleTable struct {
	items       []*CollectibleTemplate
	totalWeight int
}

// LoadCollectibleTable loads the item catalog from path, or the built-in
// catalog when path is empty.
func LoadCollectibleTable(path string) (*CollectibleTable, error) {
	raw, err := readTable(path, "collectibles.yaml")
	if err != nil {
		return nil, fmt.Errorf("read collectible_list: %w", err)
	}
	var f collectibleListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse collectible_list: %w", err)
	}
	t := &CollectibleTable{items: make([]*CollectibleTemplate, 0, len(f.Collectibles))}
	for i := range f.Collectibles {
		c := &f.Collectibles[i]
		k, err := world.ParseKind(c.Name)
		if err != nil {
			return nil, fmt.Errorf("collectible_list: %w", err)
		}
		if !k.IsCollectible() {
			return nil, fmt.Errorf("collectible_list: %q is not a collectible", c.Name)
		}
		if c.PotencyMax < c.PotencyMin || c.LifetimeMax < c.LifetimeMin || c.LifetimeMin <= 0 {
			return nil, fmt.Errorf("collectible_list: %s has an empty range", c.Name)
		}
		if c.Weight <= 0 {
			c.Weight = 1
		}
		c.Kind = k
		t.items = append(t.items, c)
		t.totalWeight += c.Weight
	}
	return t, nil
}

// Count returns the number of templates loaded.
func (t *CollectibleTable) Count() int {
	return len(t.items)
}

// Get returns the template for kind k, or nil.
func (t *CollectibleTable) Get(k world.Kind) *CollectibleTemplate {
	for _, c := range t.items {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

// Roll picks a template by weight and draws its potency and lifetime.
func (t *CollectibleTable) Roll(rng *rand.Rand) (tmpl *CollectibleTemplate, potency int, lifetime int64) {
	if t.totalWeight == 0 {
		return nil, 0, 0
	}
	n := rng.Intn(t.totalWeight)
	for _, c := range t.items {
		if n < c.Weight {
			tmpl = c
			break
		}
		n -= c.Weight
	}
	potency = tmpl.PotencyMin + rng.Intn(tmpl.PotencyMax-tmpl.PotencyMin+1)
	lifetime = tmpl.LifetimeMin + rng.Int63n(tmpl.LifetimeMax-tmpl.LifetimeMin+1)
	return tmpl, potency, lifetime
}
