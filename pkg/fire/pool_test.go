package fire

import "testing"

func TestNewPool(t *testing.T) {
	const n = 64
	p := NewPool(n)

	if p.Count != 0 {
		t.Errorf("Count = %d, want 0", p.Count)
	}
	if p.Capacity != n {
		t.Errorf("Capacity = %d, want %d", p.Capacity, n)
	}

	lengths := map[string]int{
		"X":          len(p.X),
		"Y":          len(p.Y),
		"VX":         len(p.VX),
		"VY":         len(p.VY),
		"Size":       len(p.Size),
		"Life":       len(p.Life),
		"MaxLife":    len(p.MaxLife),
		"Opacity":    len(p.Opacity),
		"ColorIndex": len(p.ColorIndex),
		"Kind":       len(p.Kind),
	}
	for name, l := range lengths {
		if l != n {
			t.Errorf("len(%s) = %d, want %d", name, l, n)
		}
	}
}

func TestNewPoolNegativeCapacity(t *testing.T) {
	p := NewPool(-3)
	if p.Capacity != 0 || len(p.X) != 0 {
		t.Errorf("negative capacity should yield an empty pool, got %d", p.Capacity)
	}
}

func TestPoolRemoveSwapsLast(t *testing.T) {
	p := NewPool(8)
	for i := 0; i < 4; i++ {
		p.X[i] = float64(i)
		p.Y[i] = float64(i * 10)
		p.Kind[i] = KindEmber
		p.ColorIndex[i] = uint8(i)
	}
	p.Kind[3] = KindFlame
	p.Count = 4

	p.Remove(1)

	if p.Count != 3 {
		t.Fatalf("Count = %d, want 3", p.Count)
	}
	if p.X[1] != 3 || p.Y[1] != 30 || p.Kind[1] != KindFlame || p.ColorIndex[1] != 3 {
		t.Errorf("slot 1 should hold the former last particle, got x=%v y=%v kind=%v color=%d",
			p.X[1], p.Y[1], p.Kind[1], p.ColorIndex[1])
	}
	if p.X[0] != 0 || p.X[2] != 2 {
		t.Error("untouched slots changed")
	}
}

func TestPoolRemoveLastAndOutOfRange(t *testing.T) {
	p := NewPool(4)
	p.X[0], p.X[1] = 1, 2
	p.Count = 2

	p.Remove(1)
	if p.Count != 1 || p.X[0] != 1 {
		t.Errorf("removing the last slot: Count=%d X[0]=%v", p.Count, p.X[0])
	}

	p.Remove(5)
	p.Remove(-1)
	p.Remove(1) // index == Count, not live
	if p.Count != 1 {
		t.Errorf("out-of-range Remove changed Count to %d", p.Count)
	}

	p.Remove(0)
	if p.Count != 0 {
		t.Errorf("Count = %d, want 0", p.Count)
	}
	p.Remove(0)
	if p.Count != 0 {
		t.Error("Remove on an empty pool must be a no-op")
	}
}

func TestPoolLifeRatio(t *testing.T) {
	p := NewPool(3)
	p.Count = 3
	p.Life[0], p.MaxLife[0] = 1, 4
	p.Life[1], p.MaxLife[1] = -0.2, 4
	p.Life[2], p.MaxLife[2] = 1, 0

	if got := p.LifeRatio(0); got != 0.25 {
		t.Errorf("LifeRatio(0) = %v, want 0.25", got)
	}
	if got := p.LifeRatio(1); got != 0 {
		t.Errorf("pending spawn LifeRatio = %v, want 0", got)
	}
	if got := p.LifeRatio(2); got != 0 {
		t.Errorf("zero MaxLife LifeRatio = %v, want 0", got)
	}
}

func TestKindString(t *testing.T) {
	if KindEmber.String() != "ember" || KindFlame.String() != "flame" {
		t.Errorf("unexpected kind names %q %q", KindEmber, KindFlame)
	}
}
