package systems

import (
	"container/heap"
	"math"
)

// Grid - то, по чему ищется путь.
type Grid interface {
	Dimensions() (width, height int)
	IsPassable(idx int) bool
}

// NavigationPath - результат поиска. Steps[0] - стартовая клетка.
type NavigationPath struct {
	Success bool
	Steps   []int
}

const (
	orthogonalCost = 1.0
	diagonalCost   = 1.45
	// maxPathSteps ограничивает число раскрытых узлов.
	maxPathSteps = 65536
)

// pathNode - элемент открытого списка A*.
type pathNode struct {
	idx   int
	f     float64
	index int // позиция в куче
}

// openSet реализует heap.Interface (min-heap по f).
type openSet []*pathNode

func (pq openSet) Len() int { return len(pq) }

func (pq openSet) Less(i, j int) bool { return pq[i].f < pq[j].f }

func (pq openSet) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *openSet) Push(x interface{}) {
	item := x.(*pathNode)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *openSet) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// FindPath ищет путь A* в 8 направлениях. Цель допускается, даже если
// она непроходима (на ней стоит игрок), старт тоже.
func FindPath(start, goal int, g Grid) NavigationPath {
	w, h := g.Dimensions()
	n := w * h
	if start < 0 || goal < 0 || start >= n || goal >= n {
		return NavigationPath{}
	}
	if start == goal {
		return NavigationPath{Success: true, Steps: []int{start}}
	}

	gx, gy := goal%w, goal/w
	heuristic := func(idx int) float64 {
		x, y := idx%w, idx/w
		return math.Hypot(float64(x-gx), float64(y-gy))
	}

	cost := map[int]float64{start: 0}
	parent := map[int]int{}
	closed := map[int]bool{}
	nodes := map[int]*pathNode{}

	open := &openSet{}
	first := &pathNode{idx: start, f: heuristic(start)}
	heap.Push(open, first)
	nodes[start] = first

	for expanded := 0; open.Len() > 0 && expanded < maxPathSteps; expanded++ {
		cur := heap.Pop(open).(*pathNode)
		delete(nodes, cur.idx)
		if cur.idx == goal {
			return NavigationPath{Success: true, Steps: rebuildPath(parent, start, goal)}
		}
		closed[cur.idx] = true

		cx, cy := cur.idx%w, cur.idx/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := cx+dx, cy+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				next := ny*w + nx
				if closed[next] || (next != goal && !g.IsPassable(next)) {
					continue
				}

				step := orthogonalCost
				if dx != 0 && dy != 0 {
					step = diagonalCost
				}
				tentative := cost[cur.idx] + step
				if old, seen := cost[next]; seen && tentative >= old {
					continue
				}
				cost[next] = tentative
				parent[next] = cur.idx

				f := tentative + heuristic(next)
				if node, inOpen := nodes[next]; inOpen {
					node.f = f
					heap.Fix(open, node.index)
				} else {
					node := &pathNode{idx: next, f: f}
					heap.Push(open, node)
					nodes[next] = node
				}
			}
		}
	}
	return NavigationPath{}
}

func rebuildPath(parent map[int]int, start, goal int) []int {
	steps := []int{goal}
	for cur := goal; cur != start; {
		cur = parent[cur]
		steps = append(steps, cur)
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}
