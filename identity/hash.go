// Package identity derives content-based identities for annotations.
//
// Identity is keyed on geometry, not on the annotation's external id: two
// annotations with identical coordinates are the same element as far as the
// overlay is concerned. Callers that need to tell such annotations apart must
// de-duplicate them before drawing.
package identity

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"github.com/juruen/slideview/model"
)

// Hash digests an ordered coordinate array.
func Hash(coords []model.Position) string {
	h := sha256.New()
	writePositions(h, coords)
	return hex.EncodeToString(h.Sum(nil))
}

// Of digests the complete coordinates of g, including its type and ring
// structure. It is the id given to the drawn overlay element.
func Of(g model.Geometry) string {
	h := sha256.New()
	h.Write([]byte(g.Type))
	h.Write([]byte{0})

	switch g.Type {
	case model.Polygon:
		writeUint(h, uint64(len(g.Rings)))
		for _, ring := range g.Rings {
			writePositions(h, ring)
		}
	default:
		writePositions(h, g.Line)
	}

	return hex.EncodeToString(h.Sum(nil))
}

func writePositions(h hash.Hash, coords []model.Position) {
	writeUint(h, uint64(len(coords)))
	for _, p := range coords {
		writeUint(h, math.Float64bits(p.X()))
		writeUint(h, math.Float64bits(p.Y()))
	}
}

func writeUint(h hash.Hash, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}
