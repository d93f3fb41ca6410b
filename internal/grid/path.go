package grid

// Predicate decides something about a cell during a search.
type Predicate func(c *Cell) bool

// FindPath runs a breadth-first search from start over cardinal moves.
// A neighbor is entered when walkable accepts it or when it satisfies goal.
// The returned path begins at start and ends at the first goal cell found;
// it is nil when no goal is reachable. A start cell that satisfies goal
// yields a single-element path.
func (g *Grid) FindPath(start Coord, walkable, goal Predicate) []Coord {
	first := g.At(start)
	if first == nil {
		return nil
	}
	if goal(first) {
		return []Coord{start}
	}

	prev := make(map[Coord]Coord, 64)
	prev[start] = start
	queue := []Coord{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, n := range g.Neighbors(cur) {
			if _, seen := prev[n]; seen {
				continue
			}
			cell := g.At(n)
			isGoal := goal(cell)
			if !isGoal && !walkable(cell) {
				continue
			}
			prev[n] = cur
			if isGoal {
				return unwind(prev, start, n)
			}
			queue = append(queue, n)
		}
	}
	return nil
}

func unwind(prev map[Coord]Coord, start, end Coord) []Coord {
	var rev []Coord
	for c := end; c != start; c = prev[c] {
		rev = append(rev, c)
	}
	rev = append(rev, start)
	out := make([]Coord, len(rev))
	for i, c := range rev {
		out[len(rev)-1-i] = c
	}
	return out
}

// IsRoad matches path, entrance, and exit cells.
func IsRoad(c *Cell) bool {
	return c.Kind.Road()
}

// IsExit matches entrance and exit cells.
func IsExit(c *Cell) bool {
	return c.Kind == KindEntrance || c.Kind == KindExit
}

// InBuilding matches cells belonging to the building rooted at root.
func InBuilding(root Coord) Predicate {
	return func(c *Cell) bool {
		return c.Kind == KindBuilding && c.RootCoord() == root
	}
}
