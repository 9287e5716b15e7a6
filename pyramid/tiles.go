package pyramid

import (
	"strconv"
	"strings"
)

// TileAddress is a tile request expressed in the slide server's terms:
// source level, level-0 pixel origin and the tile size to fetch.
type TileAddress struct {
	Level  int
	X      int
	Y      int
	Width  int
	Height int
}

// SourceLevel inverts a viewer level (0 = coarsest) into a source pyramid
// level (0 = finest).
func (d *Descriptor) SourceLevel(viewerLevel int) int {
	return d.LevelCount - viewerLevel - 1
}

// LevelScale is the scale of viewerLevel relative to the full resolution.
func (d *Descriptor) LevelScale(viewerLevel int) float64 {
	return 1 / float64(d.downsamples[d.SourceLevel(viewerLevel)])
}

// Address translates a viewer tile request. Tiles overrunning the slide edge
// are clipped to the pixels that exist at the target level.
func (d *Descriptor) Address(viewerLevel, tileX, tileY int) TileAddress {
	level := d.SourceLevel(viewerLevel)
	downsample := d.downsamples[level]

	originX := tileX * d.TileWidth * downsample
	originY := tileY * d.TileHeight * downsample

	return TileAddress{
		Level:  level,
		X:      originX,
		Y:      originY,
		Width:  clip(originX, d.TileWidth, downsample, d.BaseWidth),
		Height: clip(originY, d.TileHeight, downsample, d.BaseHeight),
	}
}

// TileURL resolves a viewer tile request into the slide server URL.
func (d *Descriptor) TileURL(viewerLevel, tileX, tileY int) string {
	return d.Address(viewerLevel, tileX, tileY).URL(d.TileURLTemplate)
}

// URL substitutes the address into a template with {tileX}, {tileY},
// {level}, {tileWidth} and {tileHeight} placeholders.
func (a TileAddress) URL(template string) string {
	return strings.NewReplacer(
		"{tileX}", strconv.Itoa(a.X),
		"{tileY}", strconv.Itoa(a.Y),
		"{level}", strconv.Itoa(a.Level),
		"{tileWidth}", strconv.Itoa(a.Width),
		"{tileHeight}", strconv.Itoa(a.Height),
	).Replace(template)
}

func clip(origin, tile, downsample, base int) int {
	if origin+downsample*tile <= base {
		return tile
	}
	available := (base - origin) / downsample
	if available < 1 {
		return 1
	}
	if available > tile {
		return tile
	}
	return available
}

// TileSource is the configuration handed to the deep-zoom viewer.
type TileSource struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	TileWidth  int `json:"tileWidth"`
	TileHeight int `json:"tileHeight"`
	MinLevel   int `json:"minLevel"`
	MaxLevel   int `json:"maxLevel"`

	descriptor *Descriptor
}

// TileSource builds the viewer configuration for d.
func (d *Descriptor) TileSource() *TileSource {
	return &TileSource{
		Width:      d.BaseWidth,
		Height:     d.BaseHeight,
		TileWidth:  d.TileWidth,
		TileHeight: d.TileHeight,
		MinLevel:   0,
		MaxLevel:   d.LevelCount - 1,
		descriptor: d,
	}
}

func (s *TileSource) Descriptor() *Descriptor {
	return s.descriptor
}

func (s *TileSource) LevelScale(level int) float64 {
	return s.descriptor.LevelScale(level)
}

func (s *TileSource) TileURL(level, x, y int) string {
	return s.descriptor.TileURL(level, x, y)
}
