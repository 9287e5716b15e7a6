// Package pyramid turns slide metadata into a pyramid descriptor and maps
// deep-zoom tile requests onto the remote slide server's addressing.
package pyramid

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// OpenSlide property names served by the slide server.
const (
	KeyLevelCount = "openslide.level-count"
	KeyWidth      = "openslide.level[0].width"
	KeyHeight     = "openslide.level[0].height"
	KeyTileWidth  = "openslide.level[0].tile-width"
	KeyTileHeight = "openslide.level[0].tile-height"
	KeyTileURL    = "openslide.remoteserver.uri"
	KeyAperioMPP  = "aperio.MPP"
	KeyMPPX       = "openslide.mpp-x"
)

var ErrMalformedDescriptor = errors.New("malformed descriptor")

// DownsampleKey returns the property name of the downsample of level i.
func DownsampleKey(i int) string {
	return fmt.Sprintf("openslide.level[%d].downsample", i)
}

// Descriptor is the structured form of a slide metadata record. Level 0 is
// the highest resolution. A parsed descriptor is shared by the viewer and
// must be treated as read-only; the downsamples are only handed out as
// copies.
type Descriptor struct {
	LevelCount      int
	BaseWidth       int
	BaseHeight      int
	TileWidth       int
	TileHeight      int
	TileURLTemplate string

	downsamples     []int
	micronsPerPixel float64
	hasResolution   bool
}

// Parse validates record and builds a Descriptor. Missing or non-numeric
// structural fields fail with ErrMalformedDescriptor; a missing resolution
// only marks it unknown.
func Parse(record map[string]string) (*Descriptor, error) {
	d := &Descriptor{}
	var err error

	if d.LevelCount, err = positiveInt(record, KeyLevelCount); err != nil {
		return nil, err
	}
	if d.BaseWidth, err = positiveInt(record, KeyWidth); err != nil {
		return nil, err
	}
	if d.BaseHeight, err = positiveInt(record, KeyHeight); err != nil {
		return nil, err
	}
	if d.TileWidth, err = positiveInt(record, KeyTileWidth); err != nil {
		return nil, err
	}
	if d.TileHeight, err = positiveInt(record, KeyTileHeight); err != nil {
		return nil, err
	}

	d.TileURLTemplate = strings.TrimSpace(record[KeyTileURL])
	if d.TileURLTemplate == "" {
		return nil, errors.Wrapf(ErrMalformedDescriptor, "missing %s", KeyTileURL)
	}

	// every level needs its own downsample key, so a level count larger than
	// the record is malformed
	if d.LevelCount > len(record) {
		return nil, errors.Wrapf(ErrMalformedDescriptor, "%s %d exceeds the %d properties of the record", KeyLevelCount, d.LevelCount, len(record))
	}

	d.downsamples = make([]int, d.LevelCount)
	for i := range d.downsamples {
		key := DownsampleKey(i)
		v, ok := record[key]
		if !ok {
			return nil, errors.Wrapf(ErrMalformedDescriptor, "missing %s", key)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.Wrapf(ErrMalformedDescriptor, "%s is not numeric: %q", key, v)
		}
		ds := int(math.Floor(f))
		// a zero downsample would divide by zero when addressing tiles
		if ds < 1 {
			ds = 1
		}
		d.downsamples[i] = ds
	}

	d.micronsPerPixel, d.hasResolution = resolution(record)

	return d, nil
}

// Downsamples returns a copy of the per-level downsample factors, finest
// level first.
func (d *Descriptor) Downsamples() []int {
	out := make([]int, len(d.downsamples))
	copy(out, d.downsamples)
	return out
}

// Downsample returns the downsample factor of source level.
func (d *Descriptor) Downsample(level int) int {
	return d.downsamples[level]
}

// MicronsPerPixel returns the slide resolution and whether it is known.
func (d *Descriptor) MicronsPerPixel() (float64, bool) {
	return d.micronsPerPixel, d.hasResolution
}

func (d *Descriptor) HasResolution() bool {
	return d.hasResolution
}

// PixelsPerMeter is the scalebar input: 1e6/mpp, or 0 when unknown.
func (d *Descriptor) PixelsPerMeter() float64 {
	if !d.hasResolution {
		return 0
	}
	return 1e6 / d.micronsPerPixel
}

func positiveInt(record map[string]string, key string) (int, error) {
	v, ok := record[key]
	if !ok {
		return 0, errors.Wrapf(ErrMalformedDescriptor, "missing %s", key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedDescriptor, "%s is not an integer: %q", key, v)
	}
	if n < 1 {
		return 0, errors.Wrapf(ErrMalformedDescriptor, "%s must be positive, got %d", key, n)
	}
	return n, nil
}

func resolution(record map[string]string) (float64, bool) {
	for _, key := range []string{KeyAperioMPP, KeyMPPX} {
		v, ok := record[key]
		if !ok {
			continue
		}
		mpp, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(mpp) || math.IsInf(mpp, 0) || mpp <= 0 {
			continue
		}
		return mpp, true
	}
	return 0, false
}
