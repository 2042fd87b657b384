//go:build goexperiment.simd && amd64

package csvindex

import (
	"math/bits"
	"unsafe"

	"simd/archsimd"

	"golang.org/x/sys/cpu"
)

// =============================================================================
// Vector Scanners (16- and 32-lane)
// =============================================================================
//
// NOTE: The simd/archsimd package in Go 1.26 is an experimental feature
// enabled via GOEXPERIMENT=simd, and is AMD64-specific.
// See: https://github.com/golang/go/issues/73787 (archsimd proposal)
//
// NOTE: archsimd's Equal().ToBits() lowers to VPMOVB2M (AVX-512BW), which
// raises SIGILL on CPUs without AVX-512, including most CI runners. Both
// vector scanners are therefore gated on the same runtime check the masks
// need, and fall back to the scalar scanner when it fails.
//
// TODO: Drop the golang.org/x/sys/cpu gate when archsimd grows its own CPU
// feature detection (open question in the proposal as of Go 1.26).
//
// =============================================================================

// useAVX512 is set once at init time. All three flags are required:
// AVX512F (foundation), AVX512BW (ToBits uses VPMOVB2M), AVX512VL
// (128/256-bit vectors under AVX-512 encodings).
var useAVX512 bool

func init() {
	useAVX512 = cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512VL
}

const (
	stride16 = 16
	stride32 = 32
)

// scanV16 scans 16 bytes per stride: broadcast each of the four match bytes,
// compare the stride against all four, OR the lane masks, and only run the
// scalar emission loop on strides whose mask is non-empty.
func scanV16(buf []byte, base uint32, n int, delim, quote, row byte, out *tokenStream) {
	if !useAVX512 {
		scanScalar(buf, base, n, delim, quote, row, out)
		return
	}

	delimCmp := archsimd.BroadcastInt8x16(int8(delim))
	quoteCmp := archsimd.BroadcastInt8x16(int8(quote))
	rowCmp := archsimd.BroadcastInt8x16(int8(row))
	zeroCmp := archsimd.BroadcastInt8x16(0)

	for i := 0; i+stride16 <= n; i += stride16 {
		v := archsimd.LoadInt8x16((*[stride16]int8)(unsafe.Pointer(&buf[i])))
		mask := uint32(v.Equal(delimCmp).ToBits()) |
			uint32(v.Equal(quoteCmp).ToBits()) |
			uint32(v.Equal(rowCmp).ToBits()) |
			uint32(v.Equal(zeroCmp).ToBits())
		if mask == 0 {
			continue
		}
		if emitStride(buf, base, i, i+stride16, bits.OnesCount32(mask), delim, quote, row, out) {
			return
		}
	}
}

// scanV32 is scanV16 with 32-byte strides.
func scanV32(buf []byte, base uint32, n int, delim, quote, row byte, out *tokenStream) {
	if !useAVX512 {
		scanScalar(buf, base, n, delim, quote, row, out)
		return
	}

	delimCmp := archsimd.BroadcastInt8x32(int8(delim))
	quoteCmp := archsimd.BroadcastInt8x32(int8(quote))
	rowCmp := archsimd.BroadcastInt8x32(int8(row))
	zeroCmp := archsimd.BroadcastInt8x32(0)

	for i := 0; i+stride32 <= n; i += stride32 {
		v := archsimd.LoadInt8x32((*[stride32]int8)(unsafe.Pointer(&buf[i])))
		mask := uint32(v.Equal(delimCmp).ToBits()) |
			uint32(v.Equal(quoteCmp).ToBits()) |
			uint32(v.Equal(rowCmp).ToBits()) |
			uint32(v.Equal(zeroCmp).ToBits())
		if mask == 0 {
			continue
		}
		if emitStride(buf, base, i, i+stride32, bits.OnesCount32(mask), delim, quote, row, out) {
			return
		}
	}
}
