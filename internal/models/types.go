package models

import "fmt"

// Resource represents one of the four gatherable resource types
type Resource int

const (
	Food Resource = iota
	Wood
	Gold
	Stone
)

// AllResources returns all resource types in deterministic order
func AllResources() []Resource {
	return []Resource{Food, Wood, Gold, Stone}
}

// String returns the lowercase resource name
func (r Resource) String() string {
	switch r {
	case Food:
		return "food"
	case Wood:
		return "wood"
	case Gold:
		return "gold"
	case Stone:
		return "stone"
	default:
		return "unknown"
	}
}

// ParseResource converts a resource name to a Resource
func ParseResource(s string) (Resource, error) {
	switch s {
	case "food":
		return Food, nil
	case "wood":
		return Wood, nil
	case "gold":
		return Gold, nil
	case "stone":
		return Stone, nil
	}
	return 0, fmt.Errorf("unknown resource %q", s)
}

// Cost represents a four-resource vector (no maps)
type Cost struct {
	Food  int
	Wood  int
	Gold  int
	Stone int
}

// Get returns the amount for a specific resource type
func (c Cost) Get(r Resource) int {
	switch r {
	case Food:
		return c.Food
	case Wood:
		return c.Wood
	case Gold:
		return c.Gold
	case Stone:
		return c.Stone
	}
	return 0
}

// Total returns the sum of all four resources
func (c Cost) Total() int {
	return c.Food + c.Wood + c.Gold + c.Stone
}

// Add returns c + o
func (c Cost) Add(o Cost) Cost {
	return Cost{
		Food:  c.Food + o.Food,
		Wood:  c.Wood + o.Wood,
		Gold:  c.Gold + o.Gold,
		Stone: c.Stone + o.Stone,
	}
}

// Sub returns c - o
func (c Cost) Sub(o Cost) Cost {
	return Cost{
		Food:  c.Food - o.Food,
		Wood:  c.Wood - o.Wood,
		Gold:  c.Gold - o.Gold,
		Stone: c.Stone - o.Stone,
	}
}

// Scale multiplies every component by f, truncating toward zero
func (c Cost) Scale(f float64) Cost {
	return Cost{
		Food:  int(float64(c.Food) * f),
		Wood:  int(float64(c.Wood) * f),
		Gold:  int(float64(c.Gold) * f),
		Stone: int(float64(c.Stone) * f),
	}
}

// NonNegative clamps negative components to zero
func (c Cost) NonNegative() Cost {
	return Cost{
		Food:  max(0, c.Food),
		Wood:  max(0, c.Wood),
		Gold:  max(0, c.Gold),
		Stone: max(0, c.Stone),
	}
}

// IsZero reports whether every component is zero
func (c Cost) IsZero() bool {
	return c == Cost{}
}

// String formats the cost as F/W/G/S
func (c Cost) String() string {
	return fmt.Sprintf("F:%d W:%d G:%d S:%d", c.Food, c.Wood, c.Gold, c.Stone)
}

// Split is a gatherer distribution in percent per resource
type Split struct {
	Food  int
	Wood  int
	Gold  int
	Stone int
}

// Get returns the percentage for a resource type
func (s Split) Get(r Resource) int {
	switch r {
	case Food:
		return s.Food
	case Wood:
		return s.Wood
	case Gold:
		return s.Gold
	case Stone:
		return s.Stone
	}
	return 0
}

// Sum returns the sum of all four percentages
func (s Split) Sum() int {
	return s.Food + s.Wood + s.Gold + s.Stone
}

// EvenSplit distributes gatherers equally between all resources
var EvenSplit = Split{Food: 25, Wood: 25, Gold: 25, Stone: 25}

// SplitOf returns each resource's share of the cost total, truncated.
// A zero total yields EvenSplit.
func SplitOf(c Cost) Split {
	total := c.Total()
	if total <= 0 {
		return EvenSplit
	}
	share := func(v int) int {
		return min(100, max(0, 100*v/total))
	}
	return Split{
		Food:  share(c.Food),
		Wood:  share(c.Wood),
		Gold:  share(c.Gold),
		Stone: share(c.Stone),
	}
}
