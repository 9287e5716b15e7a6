package deepzoom

import (
	"math"
)

// Tile is a tile the viewer would request for the current view.
type Tile struct {
	Level int    `json:"level"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	URL   string `json:"url"`
}

// Level returns the viewer level drawn at the current zoom: the coarsest
// level with at least one level pixel per screen pixel.
func (v *Viewer) Level() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.level()
}

func (v *Viewer) level() int {
	src := v.source
	if src == nil {
		return 0
	}
	ratio := v.zoom * v.container.Width / float64(src.Width)
	for l := src.MinLevel; l <= src.MaxLevel; l++ {
		if src.LevelScale(l) >= ratio {
			return l
		}
	}
	return src.MaxLevel
}

// VisibleTiles lists the tiles covering the viewport at the current level,
// row by row.
func (v *Viewer) VisibleTiles() []Tile {
	v.mu.Lock()
	src := v.source
	if src == nil || v.zoom <= 0 || v.container.Width == 0 {
		v.mu.Unlock()
		return nil
	}
	level := v.level()
	halfW := 0.5 / v.zoom
	halfH := 0.5 * v.container.Height / v.container.Width / v.zoom
	left, right := v.center.X-halfW, v.center.X+halfW
	top, bottom := v.center.Y-halfH, v.center.Y+halfH
	v.mu.Unlock()

	// viewport units are fractions of the content width on both axes
	scale := src.LevelScale(level) * float64(src.Width)
	levelW := math.Ceil(float64(src.Width) * src.LevelScale(level))
	levelH := math.Ceil(float64(src.Height) * src.LevelScale(level))
	cols := int(math.Ceil(levelW / float64(src.TileWidth)))
	rows := int(math.Ceil(levelH / float64(src.TileHeight)))

	x0 := tileIndex(left*scale, src.TileWidth, cols)
	x1 := tileIndex(right*scale, src.TileWidth, cols)
	y0 := tileIndex(top*scale, src.TileHeight, rows)
	y1 := tileIndex(bottom*scale, src.TileHeight, rows)

	var tiles []Tile
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			tiles = append(tiles, Tile{Level: level, X: x, Y: y, URL: src.TileURL(level, x, y)})
		}
	}
	return tiles
}

func tileIndex(px float64, tile, count int) int {
	i := int(math.Floor(px / float64(tile)))
	if i < 0 {
		return 0
	}
	if i > count-1 {
		return count - 1
	}
	return i
}
