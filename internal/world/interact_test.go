package world

import "testing"

func zombie(p Point) Entity {
	return NewMob(KindZombie, p, MobStats{HP: 3, Damage: 1, KillScore: 10, TicksPerMove: 5}, 0)
}

func TestDirectionOpposite(t *testing.T) {
	cases := map[Direction]Direction{
		Up:        Down,
		Down:      Up,
		Left:      Right,
		Right:     Left,
		UpLeft:    DownRight,
		DownRight: UpLeft,
		UpRight:   DownLeft,
		DownLeft:  UpRight,
	}
	for d, want := range cases {
		if got := d.Opposite(); got != want {
			t.Fatalf("%v.Opposite() = %v, want %v", d, got, want)
		}
	}
}

func TestBulletReflectsOffWall(t *testing.T) {
	for _, dir := range Directions() {
		t.Run(dir.String(), func(t *testing.T) {
			g := newTestGrid(t, 3, 3)
			p := Pt(1, 1)
			res, serial := g.Launch(p, 1, dir, 0)
			if res.Outcome != Moved {
				t.Fatalf("launch into air: %v", res.Outcome)
			}
			res = g.StepBullet(p, serial, 1)
			if res.Outcome != Reflected {
				t.Fatalf("expected reflection, got %v", res.Outcome)
			}
			b := g.Get(p)
			if b.Kind != KindBullet || b.Bullet.Dir != dir.Opposite() {
				t.Fatalf("expected bullet at %v heading %v, got %+v", p, dir.Opposite(), b)
			}
		})
	}
}

func TestMobAttacksPlayer(t *testing.T) {
	g := newTestGrid(t, 6, 6)
	pid, _ := g.SetWithID(Pt(2, 2), NewPlayer(Pt(2, 2), 10, 1))
	mid, _ := g.SetWithID(Pt(3, 2), zombie(Pt(3, 2)))

	res := g.Enter(Pt(3, 2), Pt(2, 2), 7)
	if res.Outcome != Attacked || res.OK() || !res.Acted() {
		t.Fatalf("expected attack, got %+v", res)
	}
	pl, _ := g.GetByID(pid)
	if pl.Actor.HP != 9 {
		t.Fatalf("expected player hp 9, got %d", pl.Actor.HP)
	}
	mob, _ := g.GetByID(mid)
	if mob.Pos != Pt(3, 2) || mob.Actor.LastMoveTick != 7 {
		t.Fatalf("mob should stay and refresh cooldown, got %+v", mob)
	}
}

func TestPlayerBlockedByMobAndWall(t *testing.T) {
	g := newTestGrid(t, 6, 6)
	g.SetWithID(Pt(1, 1), NewPlayer(Pt(1, 1), 10, 1))
	g.SetWithID(Pt(2, 1), zombie(Pt(2, 1)))
	if res := g.Enter(Pt(1, 1), Pt(2, 1), 1); res.Outcome != Blocked {
		t.Fatalf("player into mob: %v", res.Outcome)
	}
	if res := g.Enter(Pt(1, 1), Pt(0, 1), 1); res.Outcome != Blocked {
		t.Fatalf("player into wall: %v", res.Outcome)
	}
	if res := g.Enter(Pt(1, 1), Pt(1, 2), 1); !res.OK() {
		t.Fatalf("player into air: %v", res.Outcome)
	}
	if err := g.CheckIndex(); err != nil {
		t.Fatalf("CheckIndex: %v", err)
	}
}

func TestMobWalksIntoBullet(t *testing.T) {
	g := newTestGrid(t, 6, 6)
	mid, _ := g.SetWithID(Pt(2, 2), zombie(Pt(2, 2)))
	g.Set(Pt(3, 2), NewBullet(Pt(3, 2), 1, 2, Left, 0))

	res := g.Enter(Pt(2, 2), Pt(3, 2), 4)
	if !res.OK() || res.Damage != 2 {
		t.Fatalf("expected move with 2 damage, got %+v", res)
	}
	mob, _ := g.GetByID(mid)
	if mob.Pos != Pt(3, 2) || mob.Actor.HP != 1 {
		t.Fatalf("unexpected mob state %+v", mob)
	}
	if g.HasKind(KindBullet) {
		t.Fatalf("bullet survived the collision")
	}
}

func TestCollectiblePickups(t *testing.T) {
	cases := []struct {
		kind  Kind
		check func(t *testing.T, a Actor)
	}{
		{KindEnergyDrink, func(t *testing.T, a Actor) {
			if a.HP != 15 {
				t.Fatalf("expected healed hp 15, got %d", a.HP)
			}
		}},
		{KindStrengthPotion, func(t *testing.T, a Actor) {
			if a.Damage != 6 {
				t.Fatalf("expected damage 6, got %d", a.Damage)
			}
		}},
		{KindShield, func(t *testing.T, a Actor) {
			if a.ShieldUntil != 15 || !a.Shielded {
				t.Fatalf("expected shield until 15, got %+v", a)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			g := newTestGrid(t, 6, 6)
			pid, _ := g.SetWithID(Pt(2, 2), NewPlayer(Pt(2, 2), 10, 1))
			g.Set(Pt(2, 3), NewCollectible(tc.kind, Pt(2, 3), 5, 100, 0))

			res := g.Enter(Pt(2, 2), Pt(2, 3), 10)
			if res.Outcome != PickedUp || res.Potency != 5 {
				t.Fatalf("expected pick-up, got %+v", res)
			}
			pl, _ := g.GetByID(pid)
			if pl.Pos != Pt(2, 2) {
				t.Fatalf("player advanced onto the item cell")
			}
			if g.KindAt(Pt(2, 3)) != KindAir {
				t.Fatalf("item not consumed")
			}
			tc.check(t, pl.Actor)
		})
	}
}

func TestBulletHits(t *testing.T) {
	t.Run("mob", func(t *testing.T) {
		g := newTestGrid(t, 6, 6)
		mid, _ := g.SetWithID(Pt(3, 2), zombie(Pt(3, 2)))
		_, serial := g.Launch(Pt(2, 2), 2, Right, 0)
		res := g.StepBullet(Pt(2, 2), serial, 1)
		if res.Outcome != Exploded || res.OccupantID != mid || res.Damage != 2 {
			t.Fatalf("unexpected result %+v", res)
		}
		mob, _ := g.GetByID(mid)
		if mob.Actor.HP != 1 {
			t.Fatalf("expected mob hp 1, got %d", mob.Actor.HP)
		}
		if g.KindAt(Pt(2, 2)) != KindAir {
			t.Fatalf("exploded bullet left on grid")
		}
	})
	t.Run("player", func(t *testing.T) {
		g := newTestGrid(t, 6, 6)
		pid, _ := g.SetWithID(Pt(3, 2), NewPlayer(Pt(3, 2), 10, 1))
		_, serial := g.Launch(Pt(2, 2), 3, Right, 0)
		g.StepBullet(Pt(2, 2), serial, 1)
		pl, _ := g.GetByID(pid)
		if pl.Actor.HP != 7 {
			t.Fatalf("expected player hp 7, got %d", pl.Actor.HP)
		}
	})
	t.Run("bullet", func(t *testing.T) {
		g := newTestGrid(t, 6, 6)
		_, a := g.Launch(Pt(2, 2), 1, Right, 0)
		g.Launch(Pt(3, 2), 1, Left, 0)
		res := g.StepBullet(Pt(2, 2), a, 1)
		if res.Outcome != Exploded || g.HasKind(KindBullet) {
			t.Fatalf("expected both bullets gone, got %+v", res)
		}
	})
	t.Run("collectible", func(t *testing.T) {
		g := newTestGrid(t, 6, 6)
		g.Set(Pt(3, 2), NewCollectible(KindEnergyDrink, Pt(3, 2), 5, 100, 0))
		_, serial := g.Launch(Pt(2, 2), 1, Right, 0)
		res := g.StepBullet(Pt(2, 2), serial, 1)
		if res.Outcome != Exploded || g.KindAt(Pt(3, 2)) != KindAir || g.HasKind(KindBullet) {
			t.Fatalf("expected shattered item and spent bullet, got %+v", res)
		}
	})
}

func TestLaunchPointBlank(t *testing.T) {
	g := newTestGrid(t, 6, 6)
	mid, _ := g.SetWithID(Pt(2, 2), zombie(Pt(2, 2)))
	res, _ := g.Launch(Pt(2, 2), 1, Up, 0)
	if res.Outcome != Exploded {
		t.Fatalf("expected point-blank explosion, got %v", res.Outcome)
	}
	if g.HasKind(KindBullet) {
		t.Fatalf("point-blank bullet was placed")
	}
	mob, _ := g.GetByID(mid)
	if mob.Actor.HP != 2 {
		t.Fatalf("expected mob hp 2, got %d", mob.Actor.HP)
	}
}

func TestStepBulletStaleSerial(t *testing.T) {
	g := newTestGrid(t, 6, 6)
	_, serial := g.Launch(Pt(2, 2), 1, Right, 0)
	if res := g.StepBullet(Pt(2, 2), serial+1, 1); res.Outcome != Stale {
		t.Fatalf("expected stale, got %v", res.Outcome)
	}
	if !g.RemoveBullet(Pt(2, 2), serial) {
		t.Fatalf("RemoveBullet failed")
	}
	if res := g.StepBullet(Pt(2, 2), serial, 1); res.Outcome != Stale {
		t.Fatalf("expected stale after removal, got %v", res.Outcome)
	}
}

func TestAdvanceFollowsPath(t *testing.T) {
	g := newTestGrid(t, 8, 8)
	mid, _ := g.SetWithID(Pt(1, 1), zombie(Pt(1, 1)))
	g.SetPath(mid, []Point{Pt(2, 2), Pt(3, 3)}, Pt(3, 3))

	if res := g.Advance(mid, 5); !res.OK() {
		t.Fatalf("first step: %v", res.Outcome)
	}
	mob, _ := g.GetByID(mid)
	if mob.Pos != Pt(2, 2) || len(mob.Actor.Path) != 1 || mob.Actor.LastMoveTick != 5 {
		t.Fatalf("unexpected mob after step: %+v", mob)
	}

	g.SetWithID(Pt(3, 3), NewPlayer(Pt(3, 3), 5, 1))
	if res := g.Advance(mid, 10); res.Outcome != Attacked {
		t.Fatalf("expected attack at path end, got %v", res.Outcome)
	}
	mob, _ = g.GetByID(mid)
	if len(mob.Actor.Path) != 1 {
		t.Fatalf("attack should keep the path head, got %v", mob.Actor.Path)
	}
}

func TestAdvanceDropsDisconnectedPath(t *testing.T) {
	g := newTestGrid(t, 8, 8)
	mid, _ := g.SetWithID(Pt(1, 1), zombie(Pt(1, 1)))
	g.SetPath(mid, []Point{Pt(4, 4)}, Pt(4, 4))
	if res := g.Advance(mid, 1); res.Outcome != Blocked {
		t.Fatalf("expected blocked, got %v", res.Outcome)
	}
	mob, _ := g.GetByID(mid)
	if len(mob.Actor.Path) != 0 {
		t.Fatalf("expected path cleared, got %v", mob.Actor.Path)
	}
}
