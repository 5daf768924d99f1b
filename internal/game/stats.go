package game

import (
	"sync"

	"go.uber.org/zap"

	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/world"
)

// Stats summarises a game. Built from bus events on the tick goroutine.
type Stats struct {
	MobsSpawned   int
	Kills         map[world.Kind]int
	ShotsFired    int
	BulletsSpent  int
	ItemsSpawned  int
	ItemsConsumed map[world.Kind]int
	DamageTaken   int
}

// TotalKills sums Kills over every mob kind.
func (s Stats) TotalKills() int {
	n := 0
	for _, v := range s.Kills {
		n += v
	}
	return n
}

type statsRecorder struct {
	mu sync.Mutex
	s  Stats
}

func newStatsRecorder(bus *event.Bus, log *zap.Logger) *statsRecorder {
	r := &statsRecorder{s: Stats{
		Kills:         make(map[world.Kind]int),
		ItemsConsumed: make(map[world.Kind]int),
	}}

	event.Subscribe(bus, func(ev event.MobSpawned) {
		r.mu.Lock()
		r.s.MobsSpawned++
		r.mu.Unlock()
		log.Debug("mob spawned", zap.Stringer("kind", ev.Kind), zap.Stringer("pos", ev.Pos), zap.Uint64("id", uint64(ev.ID)))
	})
	event.Subscribe(bus, func(ev event.MobKilled) {
		r.mu.Lock()
		r.s.Kills[ev.Kind]++
		r.mu.Unlock()
		log.Debug("mob killed", zap.Stringer("kind", ev.Kind), zap.Int("score", ev.Score), zap.Int64("tick", ev.Tick))
	})
	event.Subscribe(bus, func(ev event.PlayerHit) {
		r.mu.Lock()
		r.s.DamageTaken += ev.Damage
		r.mu.Unlock()
		log.Debug("player hit", zap.Stringer("by", ev.By), zap.Int("damage", ev.Damage), zap.Int("hp", ev.HP))
	})
	event.Subscribe(bus, func(ev event.ItemConsumed) {
		if ev.By != world.KindPlayer {
			return
		}
		r.mu.Lock()
		r.s.ItemsConsumed[ev.Kind]++
		r.mu.Unlock()
	})
	event.Subscribe(bus, func(event.ItemSpawned) {
		r.mu.Lock()
		r.s.ItemsSpawned++
		r.mu.Unlock()
	})
	event.Subscribe(bus, func(event.BulletFired) {
		r.mu.Lock()
		r.s.ShotsFired++
		r.mu.Unlock()
	})
	event.Subscribe(bus, func(event.BulletExploded) {
		r.mu.Lock()
		r.s.BulletsSpent++
		r.mu.Unlock()
	})
	return r
}

func (r *statsRecorder) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.s
	out.Kills = make(map[world.Kind]int, len(r.s.Kills))
	for k, v := range r.s.Kills {
		out.Kills[k] = v
	}
	out.ItemsConsumed = make(map[world.Kind]int, len(r.s.ItemsConsumed))
	for k, v := range r.s.ItemsConsumed {
		out.ItemsConsumed[k] = v
	}
	return out
}
