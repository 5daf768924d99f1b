// Package nav steers mobs: A* over the arena grid plus target selection.
package nav

import (
	"container/heap"

	"github.com/l1jgo/arena/internal/world"
)

// CellReader is the read-only view of the grid the search needs.
// *world.Grid satisfies it; each KindAt call takes the grid lock on its
// own, so a search never holds the lock across its whole run and may see
// cells change underneath it.
type CellReader interface {
	KindAt(p world.Point) world.Kind
	Interior(p world.Point) bool
}

// Walkable reports whether the search may expand into p.
func Walkable(cells CellReader, p world.Point) bool {
	return cells.Interior(p) && cells.KindAt(p) != world.KindWall
}

// Heuristic is the Manhattan distance. With diagonal steps allowed it can
// overestimate, so the first path found is not always the shortest one.
func Heuristic(a, b world.Point) int {
	return world.Manhattan(a, b)
}

type node struct {
	p     world.Point
	g     int
	f     int
	seq   int
	index int
}

// frontier orders by f, then by discovery order.
type frontier []*node

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq frontier) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *frontier) Push(x any) {
	n := x.(*node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *frontier) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// FindPath searches from start to goal over 8-connected interior cells,
// one unit per step. The result runs nearest-first, excludes start and
// ends with goal. It is nil when goal is unreachable or equal to start.
func FindPath(cells CellReader, start, goal world.Point) []world.Point {
	if start == goal || !Walkable(cells, goal) {
		return nil
	}

	open := &frontier{}
	seq := 0
	heap.Push(open, &node{p: start, g: 0, f: Heuristic(start, goal), seq: seq})
	gScore := map[world.Point]int{start: 0}
	parent := make(map[world.Point]world.Point)
	closed := make(map[world.Point]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		if _, done := closed[current.p]; done {
			continue
		}
		closed[current.p] = struct{}{}
		if current.p == goal {
			return reconstruct(parent, start, goal)
		}

		for _, dir := range world.Directions() {
			next := current.p.Step(dir)
			if _, done := closed[next]; done {
				continue
			}
			if !Walkable(cells, next) {
				continue
			}
			tentative := current.g + 1
			if prev, ok := gScore[next]; ok && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			parent[next] = current.p
			seq++
			heap.Push(open, &node{
				p:   next,
				g:   tentative,
				f:   tentative + Heuristic(next, goal),
				seq: seq,
			})
		}
	}
	return nil
}

func reconstruct(parent map[world.Point]world.Point, start, goal world.Point) []world.Point {
	var path []world.Point
	for p := goal; p != start; p = parent[p] {
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
