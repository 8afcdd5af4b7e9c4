package stream

import (
	"math/rand"
	"testing"
)

func slotTemplate(coins, obstacles int) Template {
	t := Template{Name: "deco", Length: 20}
	for i := 0; i < coins; i++ {
		t.Slots = append(t.Slots, SlotTemplate{Kind: SlotCoin, Offset: float64(i)})
	}
	for i := 0; i < obstacles; i++ {
		t.Slots = append(t.Slots, SlotTemplate{Kind: SlotObstacle, Offset: float64(i)})
	}
	return t
}

func TestDecoratorBounds(t *testing.T) {
	const coins, obstacles = 5, 3
	seg := newSegment(0, slotTemplate(coins, obstacles))
	d := NewDecorator(false)
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 2000; i++ {
		d.Populate(seg, rng)

		if seg.SlotCount() != coins+obstacles {
			t.Fatalf("slot count changed to %d", seg.SlotCount())
		}

		vc := seg.VisibleCount(SlotCoin)
		if vc < 0 || vc >= coins {
			t.Fatalf("visible coins %d outside [0, %d)", vc, coins)
		}
		vo := seg.VisibleCount(SlotObstacle)
		if vo < 0 || vo >= obstacles {
			t.Fatalf("visible obstacles %d outside [0, %d)", vo, obstacles)
		}

		hidden := 0
		for _, sl := range seg.Slots() {
			if sl.Kind == SlotCoin && !sl.Visible {
				hidden++
			}
		}
		if vc+hidden != coins {
			t.Fatalf("coins not accounted for: visible=%d hidden=%d total=%d", vc, hidden, coins)
		}
	}
}

func TestDecoratorInclusiveReachesFullReveal(t *testing.T) {
	const coins = 3
	seg := newSegment(0, slotTemplate(coins, 1))
	d := NewDecorator(true)
	rng := rand.New(rand.NewSource(5))

	full := false
	for i := 0; i < 500; i++ {
		d.Populate(seg, rng)
		vc := seg.VisibleCount(SlotCoin)
		if vc < 0 || vc > coins {
			t.Fatalf("visible coins %d outside [0, %d]", vc, coins)
		}
		if vc == coins {
			full = true
		}
	}
	if !full {
		t.Error("inclusive reveal never showed every coin in 500 draws")
	}
}

func TestDecoratorSingleSlotNeverRevealed(t *testing.T) {
	seg := newSegment(0, slotTemplate(1, 1))
	d := NewDecorator(false)
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 100; i++ {
		d.Populate(seg, rng)
		if seg.VisibleCount(SlotCoin) != 0 || seg.VisibleCount(SlotObstacle) != 0 {
			t.Fatal("exclusive draw on a single slot group must reveal nothing")
		}
	}
}

func TestDecoratorEmptyGroup(t *testing.T) {
	seg := newSegment(0, slotTemplate(4, 0))
	d := NewDecorator(false)
	rng := rand.New(rand.NewSource(2))

	// Must not panic on the empty obstacle group
	d.Populate(seg, rng)

	if seg.CountKind(SlotObstacle) != 0 {
		t.Errorf("expected no obstacle slots, got %d", seg.CountKind(SlotObstacle))
	}
}

func TestDecoratorDeterminism(t *testing.T) {
	a := newSegment(0, slotTemplate(6, 4))
	b := newSegment(0, slotTemplate(6, 4))
	d := NewDecorator(false)
	rngA := rand.New(rand.NewSource(1234))
	rngB := rand.New(rand.NewSource(1234))

	for i := 0; i < 50; i++ {
		d.Populate(a, rngA)
		d.Populate(b, rngB)
		sa, sb := a.Slots(), b.Slots()
		for j := range sa {
			if sa[j].Visible != sb[j].Visible {
				t.Fatalf("draw %d slot %d differs between identical seeds", i, j)
			}
		}
	}
}
