package rv32

import (
	"math"

	"github.com/riscvgo/rv32emu/rv32/riscv"
)

// nativeFloat32 is the engine's default FPBackend: every op is implemented
// on top of Go's native float32 arithmetic. This is a documented stand-in,
// not an attempt at a fully IEEE-754-conformant softfloat library — its
// arithmetic results are rounding-mode-insensitive (native Go float32 ops
// always round to nearest-even; only float-to-int conversion honours
// RTZ/RDN/RUP) and it only approximates the exception-flag set a real
// softfloat oracle would produce. A host that needs exact flag fidelity or
// non-default rounding modes supplies its own FPBackend; the engine never
// assumes this is the only implementation (see SPEC_FULL.md §6).
type nativeFloat32 struct{}

// NewNativeFPBackend returns the engine's default FPBackend.
func NewNativeFPBackend() FPBackend { return nativeFloat32{} }

func (nativeFloat32) Add(a, b uint32, rm uint8) (uint32, uint8) {
	fa, fb := math.Float32frombits(a), math.Float32frombits(b)
	r := fa + fb
	return math.Float32bits(r), binFlags(fa, fb, r)
}

func (nativeFloat32) Sub(a, b uint32, rm uint8) (uint32, uint8) {
	fa, fb := math.Float32frombits(a), math.Float32frombits(b)
	r := fa - fb
	return math.Float32bits(r), binFlags(fa, fb, r)
}

func (nativeFloat32) Mul(a, b uint32, rm uint8) (uint32, uint8) {
	fa, fb := math.Float32frombits(a), math.Float32frombits(b)
	r := fa * fb
	return math.Float32bits(r), binFlags(fa, fb, r)
}

func (nativeFloat32) Div(a, b uint32, rm uint8) (uint32, uint8) {
	fa, fb := math.Float32frombits(a), math.Float32frombits(b)
	r := fa / fb
	flags := binFlags(fa, fb, r)
	if fb == 0 && !math.IsNaN(float64(fa)) && fa != 0 {
		flags |= riscv.FFlagDZ
	}
	return math.Float32bits(r), flags
}

func (nativeFloat32) Sqrt(a uint32, rm uint8) (uint32, uint8) {
	fa := math.Float32frombits(a)
	r := float32(math.Sqrt(float64(fa)))
	var flags uint8
	if fa < 0 && !math.IsNaN(float64(fa)) {
		flags |= riscv.FFlagNV
	} else if math.IsNaN(float64(fa)) {
		flags |= riscv.FFlagNV
	}
	return math.Float32bits(r), flags
}

func (nativeFloat32) FMA(a, b, c uint32, negMul, negAdd bool, rm uint8) (uint32, uint8) {
	fa, fb, fc := math.Float32frombits(a), math.Float32frombits(b), math.Float32frombits(c)
	prod := fa * fb
	if negMul {
		prod = -prod
	}
	addend := fc
	if negAdd {
		addend = -addend
	}
	r := float32(float64(prod) + float64(addend))
	return math.Float32bits(r), binFlags(fa, fb, r)
}

func (nativeFloat32) MinNum(a, b uint32) (uint32, uint8) { return minMax32(a, b, false) }
func (nativeFloat32) MaxNum(a, b uint32) (uint32, uint8) { return minMax32(a, b, true) }

func (nativeFloat32) Compare(a, b uint32, op CompareOp) (uint32, uint8) {
	fa, fb := math.Float32frombits(a), math.Float32frombits(b)
	var flags uint8
	if isSNaN32(a) || isSNaN32(b) {
		flags |= riscv.FFlagNV
	}
	if math.IsNaN(float64(fa)) || math.IsNaN(float64(fb)) {
		if op != CompareEQ {
			flags |= riscv.FFlagNV
		}
		return 0, flags
	}
	var result bool
	switch op {
	case CompareEQ:
		result = fa == fb
	case CompareLT:
		result = fa < fb
	case CompareLE:
		result = fa <= fb
	}
	return boolToWord(result), flags
}

func (nativeFloat32) Class(a uint32) uint32 { return classifyF32(a) }

func (nativeFloat32) ToInt(a uint32, signed bool, rm uint8) (uint32, uint8) {
	f := math.Float32frombits(a)
	if math.IsNaN(float64(f)) {
		if signed {
			return 0x7FFFFFFF, riscv.FFlagNV
		}
		return 0xFFFFFFFF, riscv.FFlagNV
	}

	rounded := roundF32(f, rm)

	if signed {
		switch {
		case rounded >= 2147483648.0:
			return 0x7FFFFFFF, riscv.FFlagNV
		case rounded < -2147483648.0:
			return 0x80000000, riscv.FFlagNV
		default:
			return uint32(int32(rounded)), 0
		}
	}
	switch {
	case rounded < 0:
		return 0, riscv.FFlagNV
	case rounded >= 4294967296.0:
		return 0xFFFFFFFF, riscv.FFlagNV
	default:
		return uint32(rounded), 0
	}
}

func (nativeFloat32) FromInt(v uint32, signed bool, rm uint8) (uint32, uint8) {
	var f float32
	if signed {
		f = float32(int32(v))
	} else {
		f = float32(v)
	}
	return math.Float32bits(f), 0
}

func (nativeFloat32) Sgnj(a, b uint32, negate, xor bool) uint32 { return sgnj32(a, b, negate, xor) }

func binFlags(a, b, r float32) uint8 {
	var flags uint8
	aNaN, bNaN := math.IsNaN(float64(a)), math.IsNaN(float64(b))
	if math.IsNaN(float64(r)) && !aNaN && !bNaN {
		flags |= riscv.FFlagNV
	}
	return flags
}

func roundF32(f float32, rm uint8) float32 {
	switch rm {
	case 1: // RTZ
		return float32(math.Trunc(float64(f)))
	case 2: // RDN
		return float32(math.Floor(float64(f)))
	case 3: // RUP
		return float32(math.Ceil(float64(f)))
	default: // RNE, RMM (approximated as round-to-nearest-even)
		return float32(math.RoundToEven(float64(f)))
	}
}

func minMax32(a, b uint32, isMax bool) (uint32, uint8) {
	fa, fb := math.Float32frombits(a), math.Float32frombits(b)
	aNaN, bNaN := math.IsNaN(float64(fa)), math.IsNaN(float64(fb))

	var flags uint8
	if isSNaN32(a) || isSNaN32(b) {
		flags |= riscv.FFlagNV
	}

	switch {
	case aNaN && bNaN:
		return canonicalQNaN32, flags
	case aNaN:
		return b, flags
	case bNaN:
		return a, flags
	}

	if fa == 0 && fb == 0 {
		signA := a >> 31
		if isMax {
			if signA == 0 {
				return a, flags
			}
			return b, flags
		}
		if signA == 1 {
			return a, flags
		}
		return b, flags
	}

	if isMax {
		if fa > fb {
			return a, flags
		}
		return b, flags
	}
	if fa < fb {
		return a, flags
	}
	return b, flags
}

func isSNaN32(bits uint32) bool {
	exp := (bits >> 23) & 0xFF
	mant := bits & 0x7FFFFF
	return exp == 0xFF && mant != 0 && (mant>>22)&1 == 0
}

func classifyF32(bits uint32) uint32 {
	sign := bits >> 31
	exp := (bits >> 23) & 0xFF
	mant := bits & 0x7FFFFF

	switch {
	case exp == 0xFF && mant != 0:
		if (mant>>22)&1 == 1 {
			return riscv.FClassQNaN
		}
		return riscv.FClassSNaN
	case exp == 0xFF:
		if sign == 1 {
			return riscv.FClassNegInf
		}
		return riscv.FClassPosInf
	case exp == 0 && mant == 0:
		if sign == 1 {
			return riscv.FClassNegZero
		}
		return riscv.FClassPosZero
	case exp == 0:
		if sign == 1 {
			return riscv.FClassNegSubnorm
		}
		return riscv.FClassPosSubnorm
	default:
		if sign == 1 {
			return riscv.FClassNegNormal
		}
		return riscv.FClassPosNormal
	}
}

func sgnj32(a, b uint32, negate, xor bool) uint32 {
	var sign uint32
	switch {
	case xor:
		sign = (a ^ b) & 0x80000000
	case negate:
		sign = (^b) & 0x80000000
	default:
		sign = b & 0x80000000
	}
	return (a &^ 0x80000000) | sign
}
