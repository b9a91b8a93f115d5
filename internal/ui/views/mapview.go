package views

import (
	"math"
	"strings"

	"soturidash/internal/domain"
)

const (
	MinZoom     = 3
	MaxZoom     = 19
	DefaultZoom = 16
	// FocusZoom is the minimum zoom applied when flying to an entity
	FocusZoom = 17
)

// Viewport is the visible part of the map
type Viewport struct {
	Center domain.Position
	Zoom   int
}

// ClampZoom keeps z within the supported range
func ClampZoom(z int) int {
	return max(MinZoom, min(MaxZoom, z))
}

// degreesPerCol is the longitude span of one terminal cell. A 256px tile
// spans 360/2^zoom degrees and a cell is treated as 8px wide.
func (v Viewport) degreesPerCol() float64 {
	return 360.0 / math.Pow(2, float64(ClampZoom(v.Zoom))) / 32
}

// degreesPerRow is twice the column span since cells are about twice as
// tall as they are wide
func (v Viewport) degreesPerRow() float64 {
	return v.degreesPerCol() * 2
}

// Project converts a position into a cell of a width x height map. ok is
// false when the position falls outside the map.
func (v Viewport) Project(p domain.Position, width, height int) (col, row int, ok bool) {
	col = width/2 + int(math.Round((p.Lng-v.Center.Lng)/v.degreesPerCol()))
	row = height/2 - int(math.Round((p.Lat-v.Center.Lat)/v.degreesPerRow()))
	ok = col >= 0 && col < width && row >= 0 && row < height
	return col, row, ok
}

// Pan moves the center by dx columns and dy rows
func (v Viewport) Pan(dx, dy int) Viewport {
	v.Center.Lng += float64(dx) * v.degreesPerCol()
	v.Center.Lat -= float64(dy) * v.degreesPerRow()
	return v
}

// MapRenderer draws entities as markers on a character grid
type MapRenderer struct {
	styles *Styles
}

// NewMapRenderer creates a new map renderer
func NewMapRenderer(styles *Styles) *MapRenderer {
	return &MapRenderer{styles: styles}
}

type cell struct {
	ch     string
	entity domain.Entity
}

// layout places every visible entity. Players are placed after enemies so a
// player wins a shared cell.
func layout(v Viewport, players []domain.Player, enemies []domain.Enemy, width, height int) map[[2]int]cell {
	cells := make(map[[2]int]cell)
	for _, e := range enemies {
		if col, row, ok := v.Project(e.Position, width, height); ok {
			cells[[2]int{col, row}] = cell{ch: "e", entity: e}
		}
	}
	for _, p := range players {
		if col, row, ok := v.Project(p.Position, width, height); ok {
			cells[[2]int{col, row}] = cell{ch: "@", entity: p}
		}
	}
	return cells
}

// Render draws the map. The selected entity, if visible, is highlighted.
func (mr *MapRenderer) Render(v Viewport, players []domain.Player, enemies []domain.Enemy, selected domain.Entity, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	cells := layout(v, players, enemies, width, height)

	var b strings.Builder
	for row := 0; row < height; row++ {
		if row > 0 {
			b.WriteString("\n")
		}
		for col := 0; col < width; col++ {
			c, ok := cells[[2]int{col, row}]
			switch {
			case ok && selected != nil && sameEntity(c.entity, selected):
				b.WriteString(mr.styles.SelectedMarker.Render(c.ch))
			case ok && c.ch == "@":
				b.WriteString(mr.styles.PlayerMarker.Render(c.ch))
			case ok:
				b.WriteString(mr.styles.EnemyMarker.Render(c.ch))
			case col == width/2 && row == height/2:
				b.WriteString(mr.styles.MapCenter.Render("+"))
			case col%8 == 0 && row%4 == 0:
				b.WriteString(mr.styles.MapGrid.Render("·"))
			default:
				b.WriteString(" ")
			}
		}
	}
	return b.String()
}

// EntityAt returns the entity drawn at cell (col, row) of the map
func EntityAt(v Viewport, players []domain.Player, enemies []domain.Enemy, width, height, col, row int) (domain.Entity, bool) {
	c, ok := layout(v, players, enemies, width, height)[[2]int{col, row}]
	if !ok {
		return nil, false
	}
	return c.entity, true
}

func sameEntity(a, b domain.Entity) bool {
	switch x := a.(type) {
	case domain.Player:
		y, ok := b.(domain.Player)
		return ok && x.Name == y.Name
	case domain.Enemy:
		y, ok := b.(domain.Enemy)
		return ok && x.ID == y.ID
	default:
		return false
	}
}
