package models

import (
	"fmt"
	"math"
	mrand "math/rand/v2"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/vptree"
)

// SearchStructure selects how nearest neighbours are located. All structures
// are exact and return the same neighbour sets.
type SearchStructure int

const (
	LinearSearch SearchStructure = iota
	VPTreeSearch
	KDTreeSearch
)

// SearchStructures lists the structures in enumeration order.
var SearchStructures = []SearchStructure{LinearSearch, VPTreeSearch, KDTreeSearch}

func (s SearchStructure) String() string {
	switch s {
	case LinearSearch:
		return "LinearNNSearch"
	case VPTreeSearch:
		return "VPTree"
	case KDTreeSearch:
		return "KDTree"
	default:
		return fmt.Sprintf("SearchStructure(%d)", int(s))
	}
}

func ParseSearchStructure(name string) (SearchStructure, error) {
	switch strings.ToLower(name) {
	case "linear", "linearnnsearch":
		return LinearSearch, nil
	case "vptree", "covertree":
		return VPTreeSearch, nil
	case "kdtree":
		return KDTreeSearch, nil
	default:
		return 0, fmt.Errorf("unknown search structure: %s", name)
	}
}

type neighbour struct {
	index int
	dist  float64 // squared Euclidean
}

type neighbourIndex interface {
	// nearest returns the k closest training points to q, plus any others tied
	// with the k-th distance, ordered by distance then index.
	nearest(q []float64, k int) []neighbour
}

func newNeighbourIndex(structure SearchStructure, points [][]float64, seed uint64) (neighbourIndex, error) {
	// A k-d tree cannot cycle through zero dimensions.
	if len(points) == 0 || len(points[0]) == 0 {
		return &linearIndex{points: points}, nil
	}

	switch structure {
	case LinearSearch:
		return &linearIndex{points: points}, nil
	case KDTreeSearch:
		return newKDIndex(points), nil
	case VPTreeSearch:
		return newVPIndex(points, seed)
	default:
		return nil, fmt.Errorf("unknown search structure: %v", structure)
	}
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// collect recomputes exact distances for the candidate ids so every structure
// yields bit-identical results.
func collect(points [][]float64, q []float64, ids []int, k int) []neighbour {
	out := make([]neighbour, len(ids))
	for i, id := range ids {
		out[i] = neighbour{index: id, dist: squaredDistance(q, points[id])}
	}
	sortNeighbours(out)
	return withTies(out, k)
}

// withTies keeps the first k of a sorted slice and everything tied with the
// k-th distance.
func withTies(sorted []neighbour, k int) []neighbour {
	if k >= len(sorted) {
		return sorted
	}
	cut := k
	for cut < len(sorted) && sorted[cut].dist == sorted[k-1].dist {
		cut++
	}
	return sorted[:cut]
}

func sortNeighbours(ns []neighbour) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].dist != ns[j].dist {
			return ns[i].dist < ns[j].dist
		}
		return ns[i].index < ns[j].index
	})
}

type linearIndex struct {
	points [][]float64
}

func (li *linearIndex) nearest(q []float64, k int) []neighbour {
	all := make([]neighbour, len(li.points))
	for i, p := range li.points {
		all[i] = neighbour{index: i, dist: squaredDistance(q, p)}
	}
	sortNeighbours(all)
	return withTies(all, k)
}

type kdPoint struct {
	id  int
	vec []float64
}

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.vec[d] - c.(kdPoint).vec[d]
}

func (p kdPoint) Dims() int { return len(p.vec) }

func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	return squaredDistance(p.vec, c.(kdPoint).vec)
}

type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p kdPoints) Len() int                              { return len(p) }
func (p kdPoints) Pivot(d kdtree.Dim) int                { return kdPlane{kdPoints: p, Dim: d}.Pivot() }
func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type kdPlane struct {
	kdtree.Dim
	kdPoints
}

func (p kdPlane) Less(i, j int) bool { return p.kdPoints[i].vec[p.Dim] < p.kdPoints[j].vec[p.Dim] }
func (p kdPlane) Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfRandoms(p, 100)) }
func (p kdPlane) Swap(i, j int)      { p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i] }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.kdPoints = p.kdPoints[start:end]
	return p
}

type kdIndex struct {
	points [][]float64
	tree   *kdtree.Tree
}

func newKDIndex(points [][]float64) *kdIndex {
	pts := make(kdPoints, len(points))
	for i, p := range points {
		pts[i] = kdPoint{id: i, vec: p}
	}
	return &kdIndex{points: points, tree: kdtree.New(pts, false)}
}

func (ki *kdIndex) nearest(q []float64, k int) []neighbour {
	query := kdPoint{id: -1, vec: q}

	keeper := kdtree.NewNKeeper(k)
	ki.tree.NearestSet(keeper, query)
	if keeper.Len() == 0 {
		return nil
	}
	radius := 0.0
	for _, c := range keeper.Heap {
		radius = math.Max(radius, c.Dist)
	}

	within := kdtree.NewDistKeeper(radius)
	ki.tree.NearestSet(within, query)

	ids := make([]int, 0, within.Len())
	for _, c := range within.Heap {
		ids = append(ids, c.Comparable.(kdPoint).id)
	}
	return collect(ki.points, q, ids, k)
}

type vpPoint struct {
	id  int
	vec []float64
}

func (p vpPoint) Distance(c vptree.Comparable) float64 {
	return math.Sqrt(squaredDistance(p.vec, c.(vpPoint).vec))
}

type vpIndex struct {
	points [][]float64
	tree   *vptree.Tree
}

func newVPIndex(points [][]float64, seed uint64) (*vpIndex, error) {
	pts := make([]vptree.Comparable, len(points))
	for i, p := range points {
		pts[i] = vpPoint{id: i, vec: p}
	}
	tree, err := vptree.New(pts, 3, mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	if err != nil {
		return nil, err
	}
	return &vpIndex{points: points, tree: tree}, nil
}

func (vi *vpIndex) nearest(q []float64, k int) []neighbour {
	query := vpPoint{id: -1, vec: q}

	keeper := vptree.NewNKeeper(k)
	vi.tree.NearestSet(keeper, query)
	if keeper.Len() == 0 {
		return nil
	}
	radius := 0.0
	for _, c := range keeper.Heap {
		radius = math.Max(radius, c.Dist)
	}

	within := vptree.NewDistKeeper(radius)
	vi.tree.NearestSet(within, query)

	ids := make([]int, 0, within.Len())
	for _, c := range within.Heap {
		ids = append(ids, c.Comparable.(vpPoint).id)
	}
	return collect(vi.points, q, ids, k)
}
