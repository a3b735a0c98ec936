package archive

import (
	"encoding/binary"
	"math"
)

// ChunkDecoder turns raw chunk bytes into float64 samples. Spec §1 lists
// "the on-wire meteorological-data file format itself" as an external
// collaborator ("we specify only the operations the reader invokes on
// it") — archive depends only on this interface, never on a concrete wire
// format.
type ChunkDecoder interface {
	Decode(raw []byte) ([]float64, error)
}

// missingInt16 is the sentinel raw value meaning "no data at this sample",
// matching spec §3's scalefactor float→int16 compression description.
const missingInt16 = math.MinInt16

// Int16ScaledDecoder is the reference ChunkDecoder: little-endian int16
// samples divided by Scale, with missingInt16 decoding to NaN. Concrete
// archive formats are free to supply their own ChunkDecoder; this one
// exists so Store is usable without a production wire-format
// implementation plugged in.
type Int16ScaledDecoder struct {
	Scale float64
}

func (d Int16ScaledDecoder) Decode(raw []byte) ([]float64, error) {
	if len(raw)%2 != 0 {
		return nil, errTruncatedChunk
	}
	n := len(raw) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		if v == missingInt16 {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(v) / d.Scale
	}
	return out, nil
}

// EncodeInt16Scaled is the inverse of Int16ScaledDecoder.Decode, used by
// tests to build fixture chunks without depending on a real archive file.
func EncodeInt16Scaled(samples []float64, scale float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, v := range samples {
		var iv int16
		if math.IsNaN(v) {
			iv = missingInt16
		} else {
			iv = int16(math.Round(v * scale))
		}
		binary.LittleEndian.PutUint16(out[i*2:i*2+2], uint16(iv))
	}
	return out
}
