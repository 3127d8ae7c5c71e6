package strategy

import (
	"testing"

	"github.com/aday913/alpaca-trading-bot/internal/domain"
)

// stubStrategy is a minimal Strategy implementation used in registry tests.
type stubStrategy struct {
	name string
}

func (s *stubStrategy) Name() string                        { return s.name }
func (s *stubStrategy) Predict(_ []float64) domain.Decision { return domain.Hold }

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	s := &stubStrategy{name: "test-strategy"}

	r.Register(s)

	got, ok := r.Get("test-strategy")
	if !ok {
		t.Fatal("Get returned false for registered strategy")
	}
	if got.Name() != "test-strategy" {
		t.Errorf("Get returned strategy with Name() = %q, want %q", got.Name(), "test-strategy")
	}
}

func TestRegistryGet_NotFound(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get("nonexistent")
	if ok {
		t.Error("Get returned true for unregistered strategy")
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubStrategy{name: "beta"})
	r.Register(&stubStrategy{name: "alpha"})

	names := r.List()
	if len(names) != 2 {
		t.Fatalf("List returned %d names, want 2", len(names))
	}
	// List returns sorted names.
	if names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("List returned %v, want [alpha beta]", names)
	}
}

func TestSMACrossThreeDayCrossover(t *testing.T) {
	// short=1, long=2 over closes [100, 110, 90]:
	// day 1: 100 vs 100 -> sell, day 2: 110 vs 105 -> buy,
	// day 3: 90 vs 100 -> sell.
	s := NewSMACross(1, 2)

	cases := []struct {
		history []float64
		want    domain.Decision
	}{
		{[]float64{100}, domain.Sell},
		{[]float64{100, 110}, domain.Buy},
		{[]float64{100, 110, 90}, domain.Sell},
	}
	for _, c := range cases {
		if got := s.Predict(c.history); got != c.want {
			t.Errorf("Predict(%v) = %v, want %v", c.history, got, c.want)
		}
	}
}

func TestSMACrossProgressiveWindow(t *testing.T) {
	// With fewer observations than the windows, both averages cover all
	// available data and therefore coincide -> sell.
	s := NewSMACross(20, 50)
	if got := s.Predict([]float64{150, 151, 152}); got != domain.Sell {
		t.Errorf("Predict on short history = %v, want Sell", got)
	}
}

func TestSMACrossNeverHolds(t *testing.T) {
	s := NewSMACross(2, 5)
	history := []float64{}
	for i := 0; i < 40; i++ {
		history = append(history, 100+float64(i%7))
		if got := s.Predict(history); got == domain.Hold {
			t.Fatalf("Predict(%d bars) returned Hold", len(history))
		}
	}
}

func TestSMACrossDeterministic(t *testing.T) {
	s := NewSMACross(3, 8)
	history := []float64{10, 12, 11, 13, 14, 12, 15, 16, 14, 17}

	first := s.Predict(history)
	for i := 0; i < 10; i++ {
		if got := s.Predict(history); got != first {
			t.Fatalf("Predict changed between identical calls: %v then %v", first, got)
		}
	}
}

func TestSMACrossDoesNotMutateHistory(t *testing.T) {
	s := NewSMACross(2, 4)
	history := []float64{1, 2, 3, 4, 5}
	want := []float64{1, 2, 3, 4, 5}

	s.Predict(history)
	for i := range want {
		if history[i] != want[i] {
			t.Fatal("Predict mutated the price history")
		}
	}
}

func TestRandomCoversAllDecisions(t *testing.T) {
	r := NewRandom(1)
	seen := make(map[domain.Decision]bool)
	for i := 0; i < 300; i++ {
		seen[r.Predict(nil)] = true
	}
	for _, d := range []domain.Decision{domain.Buy, domain.Sell, domain.Hold} {
		if !seen[d] {
			t.Errorf("Random never produced %v in 300 draws", d)
		}
	}
}

func TestRandomSeededReproducible(t *testing.T) {
	a := NewRandom(42)
	b := NewRandom(42)
	for i := 0; i < 50; i++ {
		if got, want := a.Predict(nil), b.Predict(nil); got != want {
			t.Fatalf("draw %d diverged: %v vs %v", i, got, want)
		}
	}
}
