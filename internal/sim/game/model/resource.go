package model

import (
	"sort"
	"strings"
)

type Resource string

const (
	Silica      Resource = "SILICA"
	Sulfur      Resource = "SULFUR"
	Salt        Resource = "SALT"
	Iron        Resource = "IRON"
	Hydrocarbon Resource = "HYDROCARBON"
)

// Resources lists every cube color in canonical order.
var Resources = []Resource{Silica, Sulfur, Salt, Iron, Hydrocarbon}

func ParseResource(s string) (Resource, bool) {
	r := Resource(strings.ToUpper(strings.TrimSpace(s)))
	for _, x := range Resources {
		if x == r {
			return r, true
		}
	}
	return "", false
}

// Cubes counts cubes by color.
type Cubes map[Resource]int

func (c Cubes) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

func (c Cubes) Clone() Cubes {
	out := make(Cubes, len(c))
	for k, v := range c {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

func (c Cubes) Add(r Resource, n int) {
	c[r] += n
	if c[r] == 0 {
		delete(c, r)
	}
}

// Take removes n cubes of r and reports whether enough were present.
func (c Cubes) Take(r Resource, n int) bool {
	if c[r] < n {
		return false
	}
	c.Add(r, -n)
	return true
}

// List expands the counts into a sorted slice, one entry per cube.
func (c Cubes) List() []Resource {
	out := make([]Resource, 0, c.Total())
	for _, r := range Resources {
		for i := 0; i < c[r]; i++ {
			out = append(out, r)
		}
	}
	return out
}

// CountList tallies a cube list.
func CountList(list []Resource) Cubes {
	out := Cubes{}
	for _, r := range list {
		out.Add(r, 1)
	}
	return out
}

// SortedResources returns the keys of c in canonical order.
func (c Cubes) SortedResources() []Resource {
	out := make([]Resource, 0, len(c))
	for r, n := range c {
		if n > 0 {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return resourceIndex(out[i]) < resourceIndex(out[j]) })
	return out
}

func resourceIndex(r Resource) int {
	for i, x := range Resources {
		if x == r {
			return i
		}
	}
	return len(Resources)
}
