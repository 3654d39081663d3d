package physics

// SweepAndPrune implements a 1-axis sweep for broad-phase collision
// detection. It projects body AABBs onto the X axis, sorts endpoints, and
// reports overlapping pairs. Endpoints are rebuilt from the given bounds on
// every call, so no ordering is carried over between ticks.
// Origin: Baraff & Witkin (SIGGRAPH 1992); Bullet Physics.
type SweepAndPrune struct {
	endpoints []sapEndpoint
	pairs     []Pair
	active    []BodyID
}

type sapEndpoint struct {
	value float64
	id    BodyID
	isMin bool
}

// Pair is two body IDs whose bounding intervals overlap.
type Pair struct {
	A, B BodyID
}

// NewSweepAndPrune creates a broad phase preallocated for maxBodies.
func NewSweepAndPrune(maxBodies int) *SweepAndPrune {
	return &SweepAndPrune{
		endpoints: make([]sapEndpoint, 0, maxBodies*2),
		pairs:     make([]Pair, 0, maxBodies),
		active:    make([]BodyID, 0, maxBodies/4+4),
	}
}

// Update rebuilds endpoints from bounds and returns overlapping pairs. The
// returned slice is reused on subsequent calls.
func (s *SweepAndPrune) Update(bounds []AABB) []Pair {
	s.pairs = s.pairs[:0]
	s.endpoints = s.endpoints[:0]

	for _, b := range bounds {
		s.endpoints = append(s.endpoints,
			sapEndpoint{b.MinX, b.ID, true},
			sapEndpoint{b.MaxX, b.ID, false},
		)
	}

	if len(s.endpoints) > 1 {
		insertionSortEndpoints(s.endpoints)
	}

	s.active = s.active[:0]
	for _, ep := range s.endpoints {
		if ep.isMin {
			for _, other := range s.active {
				s.pairs = append(s.pairs, Pair{ep.id, other})
			}
			s.active = append(s.active, ep.id)
		} else {
			for i, id := range s.active {
				if id == ep.id {
					s.active[i] = s.active[len(s.active)-1]
					s.active = s.active[:len(s.active)-1]
					break
				}
			}
		}
	}

	return s.pairs
}

// AABB is an axis-aligned bounding box tagged with its owning body.
type AABB struct {
	ID   BodyID
	MinX float64
	MaxX float64
}

// insertionSortEndpoints sorts in-place. O(n) for nearly-sorted data.
func insertionSortEndpoints(eps []sapEndpoint) {
	for i := 1; i < len(eps); i++ {
		key := eps[i]
		j := i - 1
		for j >= 0 && eps[j].value > key.value {
			eps[j+1] = eps[j]
			j--
		}
		eps[j+1] = key
	}
}
