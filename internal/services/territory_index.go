package services

import (
	"geo-photo-game/internal/domain"
	"slices"

	"github.com/dhconnelly/rtreego"
)

const (
	indexDimensions  = 2
	indexMinChildren = 2
	indexMaxChildren = 8
	// Padding keeps bounding boxes of thin polygons non-degenerate.
	boundsPadding = 1e-9
)

type territoryItem struct {
	index int
	area  domain.Area
	rect  *rtreego.Rect
}

func (t *territoryItem) Bounds() *rtreego.Rect { return t.rect }

// Bounding-box R-tree over territories. Candidates from the tree are
// confirmed with an exact point-in-polygon test.
type TerritoryIndex struct {
	tree  *rtreego.Rtree
	count int
}

func NewTerritoryIndex(areas []domain.Area) *TerritoryIndex {
	idx := &TerritoryIndex{tree: rtreego.NewTree(indexDimensions, indexMinChildren, indexMaxChildren)}

	for i, a := range areas {
		if len(a.Coords) < domain.MinTerritoryPoints {
			continue
		}
		min, max := domain.PolygonBounds(a.Coords)
		rect, err := rtreego.NewRect(
			rtreego.Point{min.Lat - boundsPadding, min.Lng - boundsPadding},
			[]float64{max.Lat - min.Lat + 2*boundsPadding, max.Lng - min.Lng + 2*boundsPadding},
		)
		if err != nil {
			continue
		}
		idx.tree.Insert(&territoryItem{index: i, area: a, rect: rect})
		idx.count++
	}
	return idx
}

func (t *TerritoryIndex) Len() int { return t.count }

// Positions of the territories containing p, in ascending order.
func (t *TerritoryIndex) Containing(p domain.Coordinates) []int {
	if t.count == 0 {
		return nil
	}

	query := rtreego.Point{p.Lat, p.Lng}.ToRect(boundsPadding)
	hits := t.tree.SearchIntersect(query)

	out := make([]int, 0, len(hits))
	for _, h := range hits {
		item, ok := h.(*territoryItem)
		if !ok {
			continue
		}
		if domain.PolygonContains(item.area.Coords, p) {
			out = append(out, item.index)
		}
	}
	slices.Sort(out)
	return out
}
