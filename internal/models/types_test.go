package models

import (
	"testing"
)

func TestCostArithmetic(t *testing.T) {
	a := Cost{Food: 50, Wood: 30, Gold: 20, Stone: 0}
	b := Cost{Food: 10, Wood: 40, Gold: 5, Stone: 15}

	if got := a.Add(b); got != (Cost{Food: 60, Wood: 70, Gold: 25, Stone: 15}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Cost{Food: 40, Wood: -10, Gold: 15, Stone: -15}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Sub(b).NonNegative(); got != (Cost{Food: 40, Gold: 15}) {
		t.Errorf("NonNegative = %v", got)
	}
	if got := a.Scale(1.5); got != (Cost{Food: 75, Wood: 45, Gold: 30}) {
		t.Errorf("Scale = %v", got)
	}
	if a.Total() != 100 {
		t.Errorf("Total = %d, want 100", a.Total())
	}
}

func TestCostGet(t *testing.T) {
	c := Cost{Food: 1, Wood: 2, Gold: 3, Stone: 4}
	for i, r := range AllResources() {
		if c.Get(r) != i+1 {
			t.Errorf("Get(%s) = %d, want %d", r, c.Get(r), i+1)
		}
	}
}

func TestParseResource(t *testing.T) {
	for _, r := range AllResources() {
		got, err := ParseResource(r.String())
		if err != nil {
			t.Fatalf("ParseResource(%q): %v", r.String(), err)
		}
		if got != r {
			t.Errorf("ParseResource(%q) = %v, want %v", r.String(), got, r)
		}
	}
	if _, err := ParseResource("iron"); err == nil {
		t.Error("expected error for unknown resource")
	}
}

func TestSplitOf(t *testing.T) {
	tests := []struct {
		name string
		cost Cost
		want Split
	}{
		{"even", Cost{Food: 25, Wood: 25, Gold: 25, Stone: 25}, Split{25, 25, 25, 25}},
		{"food only", Cost{Food: 60}, Split{Food: 100}},
		{"truncation", Cost{Food: 1, Wood: 1, Gold: 1}, Split{33, 33, 33, 0}},
		{"zero", Cost{}, EvenSplit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitOf(tt.cost)
			if got != tt.want {
				t.Errorf("SplitOf(%v) = %v, want %v", tt.cost, got, tt.want)
			}
		})
	}
}

func FuzzSplitOf(f *testing.F) {
	f.Add(uint16(50), uint16(30), uint16(20), uint16(0))
	f.Add(uint16(0), uint16(0), uint16(0), uint16(0))
	f.Add(uint16(1), uint16(1), uint16(1), uint16(65535))

	f.Fuzz(func(t *testing.T, food, wood, gold, stone uint16) {
		s := SplitOf(Cost{Food: int(food), Wood: int(wood), Gold: int(gold), Stone: int(stone)})
		for _, r := range AllResources() {
			if v := s.Get(r); v < 0 || v > 100 {
				t.Errorf("%s share %d out of range", r, v)
			}
		}
		// Truncation loses less than one point per resource
		if sum := s.Sum(); sum < 97 || sum > 100 {
			t.Errorf("split %v sums to %d", s, sum)
		}
	})
}
