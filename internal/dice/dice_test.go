package dice

import "testing"

func TestTakeRespectsLimit(t *testing.T) {
	s := NewSet(Four, Four, Two, Six)
	taken := s.Take(Is(Four), 1)
	if taken.Len() != 1 || taken.Faces()[0] != Four {
		t.Fatalf("expected one Four taken, got %s", taken)
	}
	if s.Len() != 3 || s.CountFace(Four) != 1 {
		t.Fatalf("expected one Four left behind, got %s", s)
	}
}

func TestTakeUnlimited(t *testing.T) {
	s := NewSet(Six, One, Five, Six)
	taken := s.Take(Above(Four), -1)
	if got := taken.String(); got != "{5,6,6}" {
		t.Fatalf("unexpected taken set %s", got)
	}
	if got := s.String(); got != "{1}" {
		t.Fatalf("unexpected remainder %s", got)
	}
}

func TestMaxAndTakeMax(t *testing.T) {
	var empty Set
	if _, ok := empty.Max(); ok {
		t.Fatalf("empty set must not report a max")
	}
	s := NewSet(Three, Five, One)
	d, ok := s.TakeMax()
	if !ok || d.Value != Five {
		t.Fatalf("expected Five, got %v", d.Value)
	}
	if s.Len() != 2 || s.Contains(Five) {
		t.Fatalf("max die should be removed, got %s", s)
	}
}

func TestSumAndCount(t *testing.T) {
	s := NewSet(Four, Two, Six, Six, Six)
	if s.Sum() != 24 {
		t.Fatalf("expected sum 24, got %d", s.Sum())
	}
	if n := s.Count(Above(Five)); n != 3 {
		t.Fatalf("expected 3 sixes, got %d", n)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewSet(One, Two)
	c := s.Clone()
	c.Push(Die{Value: Six})
	if s.Len() != 2 {
		t.Fatalf("clone mutated original: %s", s)
	}
}

func TestNumberOfDiceSaturates(t *testing.T) {
	tests := []struct {
		name string
		from NumberOfDice
		sub  int
		want NumberOfDice
	}{
		{name: "plain", from: Five, sub: 2, want: 3},
		{name: "to zero", from: 2, sub: 2, want: Zero},
		{name: "below zero", from: 1, sub: 4, want: Zero},
		{name: "negative adds but clamps", from: 4, sub: -3, want: Five},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.Sub(tt.sub); got != tt.want {
				t.Fatalf("%s.Sub(%d) = %s, want %s", tt.from, tt.sub, got, tt.want)
			}
		})
	}
	if Count(9) != Five {
		t.Fatalf("Count must clamp at five")
	}
}
