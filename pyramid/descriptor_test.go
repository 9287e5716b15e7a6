package pyramid

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const template = "http://slides/tile?level={level}&x={tileX}&y={tileY}&w={tileWidth}&h={tileHeight}"

func record() map[string]string {
	return map[string]string{
		KeyLevelCount:      "3",
		KeyWidth:           "1000",
		KeyHeight:          "600",
		KeyTileWidth:       "256",
		KeyTileHeight:      "256",
		KeyTileURL:         template,
		DownsampleKey(0):   "1",
		DownsampleKey(1):   "4.000345",
		DownsampleKey(2):   "16.0021",
		KeyAperioMPP:       "0.2527",
		"openslide.vendor": "aperio",
	}
}

func TestParse(t *testing.T) {
	d, err := Parse(record())
	require.NoError(t, err)

	assert.Equal(t, 3, d.LevelCount)
	assert.Equal(t, 1000, d.BaseWidth)
	assert.Equal(t, 600, d.BaseHeight)
	assert.Equal(t, 256, d.TileWidth)
	assert.Equal(t, 256, d.TileHeight)
	assert.Equal(t, []int{1, 4, 16}, d.Downsamples())
	assert.Equal(t, template, d.TileURLTemplate)

	mpp, ok := d.MicronsPerPixel()
	assert.True(t, ok)
	assert.InDelta(t, 0.2527, mpp, 1e-9)
	assert.InDelta(t, 1e6/0.2527, d.PixelsPerMeter(), 1e-6)
}

func TestParseTileDimensionsAreNotSwapped(t *testing.T) {
	r := record()
	r[KeyTileWidth] = "512"
	r[KeyTileHeight] = "240"

	d, err := Parse(r)
	require.NoError(t, err)
	assert.Equal(t, 512, d.TileWidth)
	assert.Equal(t, 240, d.TileHeight)
}

func TestParseResolutionOptional(t *testing.T) {
	r := record()
	delete(r, KeyAperioMPP)

	d, err := Parse(r)
	require.NoError(t, err)
	assert.False(t, d.HasResolution())
	assert.Equal(t, 0.0, d.PixelsPerMeter())

	r[KeyAperioMPP] = "n/a"
	d, err = Parse(r)
	require.NoError(t, err)
	assert.False(t, d.HasResolution())
}

func TestParseResolutionFallback(t *testing.T) {
	r := record()
	delete(r, KeyAperioMPP)
	r[KeyMPPX] = "0.5"

	d, err := Parse(r)
	require.NoError(t, err)
	mpp, ok := d.MicronsPerPixel()
	assert.True(t, ok)
	assert.Equal(t, 0.5, mpp)
}

func TestParseZeroDownsampleClamped(t *testing.T) {
	r := record()
	r[DownsampleKey(0)] = "0.4"

	d, err := Parse(r)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Downsample(0))
}

func TestDownsamplesIsACopy(t *testing.T) {
	d, err := Parse(record())
	require.NoError(t, err)

	ds := d.Downsamples()
	ds[1] = 99
	assert.Equal(t, 4, d.Downsample(1))
	assert.Equal(t, 0.25, d.LevelScale(1))
}

func TestParseHugeLevelCount(t *testing.T) {
	r := record()
	r[KeyLevelCount] = "2000000000"

	d, err := Parse(r)
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, ErrMalformedDescriptor), "got %v", err)
	assert.Contains(t, err.Error(), KeyLevelCount)
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]func(map[string]string){
		"missing level count":    func(r map[string]string) { delete(r, KeyLevelCount) },
		"zero level count":       func(r map[string]string) { r[KeyLevelCount] = "0" },
		"non numeric width":      func(r map[string]string) { r[KeyWidth] = "wide" },
		"missing height":         func(r map[string]string) { delete(r, KeyHeight) },
		"missing tile width":     func(r map[string]string) { delete(r, KeyTileWidth) },
		"negative tile height":   func(r map[string]string) { r[KeyTileHeight] = "-256" },
		"missing template":       func(r map[string]string) { delete(r, KeyTileURL) },
		"missing downsample":     func(r map[string]string) { delete(r, DownsampleKey(2)) },
		"non numeric downsample": func(r map[string]string) { r[DownsampleKey(1)] = "x" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := record()
			mutate(r)

			d, err := Parse(r)
			assert.Nil(t, d)
			assert.True(t, errors.Is(err, ErrMalformedDescriptor), "got %v", err)
		})
	}
}
