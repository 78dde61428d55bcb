/*
NAME
  numeric.go

DESCRIPTION
  numeric.go provides checked numeric casts, range/uniqueness validation,
  Q7.8/Q0.8 fixed-point conversion, and PCM sample packing, none of which
  carry any side effects beyond their return values.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package numeric provides the pure, side-effect-free numeric and
// validation helpers shared by the IAMF OBU codec: checked casts, range and
// uniqueness checks, Q7.8/Q0.8 fixed-point conversion, and PCM sample
// pack/unpack.
package numeric

import (
	"math"
	"unsafe"

	"github.com/ausocean/iamf/iamferr"
)

// TryCastToInt32 checked-casts a 64-bit integer to int32, failing with
// RangeError if x does not fit.
func TryCastToInt32(x int64) (int32, error) {
	if x < math.MinInt32 || x > math.MaxInt32 {
		return 0, iamferr.New(iamferr.RangeError, "TryCastToInt32", "%d does not fit in int32", x)
	}
	return int32(x), nil
}

// TryCastToUint32 checked-casts a 64-bit unsigned integer to uint32, failing
// with RangeError if x does not fit.
func TryCastToUint32(x uint64) (uint32, error) {
	if x > math.MaxUint32 {
		return 0, iamferr.New(iamferr.RangeError, "TryCastToUint32", "%d does not fit in uint32", x)
	}
	return uint32(x), nil
}

// TryCastToUint8 checked-casts an integer to uint8, failing with RangeError
// if x does not fit.
func TryCastToUint8(x int64) (uint8, error) {
	if x < 0 || x > math.MaxUint8 {
		return 0, iamferr.New(iamferr.RangeError, "TryCastToUint8", "%d does not fit in uint8", x)
	}
	return uint8(x), nil
}

// ValidateEqual fails with InvalidInput when a != b, naming ctx in the
// message.
func ValidateEqual[T comparable](a, b T, ctx string) error {
	if a != b {
		return iamferr.New(iamferr.InvalidInput, ctx, "expected %v, got %v", b, a)
	}
	return nil
}

// ValidateUnique fails with InvalidInput if any two elements of items
// compare equal, naming ctx in the message.
func ValidateUnique[T comparable](items []T, ctx string) error {
	seen := make(map[T]bool, len(items))
	for _, v := range items {
		if seen[v] {
			return iamferr.New(iamferr.InvalidInput, ctx, "duplicate value %v", v)
		}
		seen[v] = true
	}
	return nil
}

// ValidateContainerSizeEqual fails with InvalidInput when a declared/
// reported size does not match the actual number of elements in a
// container, naming ctx in the message.
func ValidateContainerSizeEqual(ctx string, actual, reported int) error {
	if actual != reported {
		return iamferr.New(iamferr.InvalidInput, ctx, "reported size %d does not match actual size %d", reported, actual)
	}
	return nil
}

// ValidateInRange fails with InvalidInput when x falls outside [lo,hi],
// naming ctx in the message.
func ValidateInRange[T int | int8 | int16 | int32 | int64 | uint | uint8 | uint16 | uint32 | uint64 | float32 | float64](x, lo, hi T, ctx string) error {
	if x < lo || x > hi {
		return iamferr.New(iamferr.InvalidInput, ctx, "value %v out of range [%v,%v]", x, lo, hi)
	}
	return nil
}

// Q7.8 fixed point: 1 sign bit, 7 integer bits, 8 fractional bits, stored in
// a 16-bit two's complement integer. Range: [-128, 128 - 1/256].
const (
	q7_8FracBits = 8
	q7_8Min      = -128.0
	q7_8Max      = 128.0 - 1.0/256.0
)

// Q7_8FromFloat converts f to its Q7.8 fixed-point representation, rounding
// toward negative infinity (floor), and fails with RangeError if f falls
// outside [-128, 128-1/256].
func Q7_8FromFloat(f float64) (int16, error) {
	if f < q7_8Min || f > q7_8Max {
		return 0, iamferr.New(iamferr.RangeError, "Q7_8FromFloat", "%v out of range [%v,%v]", f, q7_8Min, q7_8Max)
	}
	scaled := math.Floor(f * (1 << q7_8FracBits))
	return int16(scaled), nil
}

// Q7_8ToFloat converts a Q7.8 fixed-point value to its float64
// representation. The conversion is lossless.
func Q7_8ToFloat(q int16) float64 {
	return float64(q) / (1 << q7_8FracBits)
}

// Q0.8 fixed point: unsigned, 0 integer bits, 8 fractional bits, stored in
// an 8-bit unsigned integer. Range: [0, 1 - 1/256].
const (
	q0_8FracBits = 8
	q0_8Min      = 0.0
	q0_8Max      = 1.0 - 1.0/256.0
)

// Q0_8FromFloat converts f to its Q0.8 fixed-point representation, rounding
// toward negative infinity (floor), and fails with RangeError if f falls
// outside [0, 1-1/256].
func Q0_8FromFloat(f float64) (uint8, error) {
	if f < q0_8Min || f > q0_8Max {
		return 0, iamferr.New(iamferr.RangeError, "Q0_8FromFloat", "%v out of range [%v,%v]", f, q0_8Min, q0_8Max)
	}
	scaled := math.Floor(f * (1 << q0_8FracBits))
	return uint8(scaled), nil
}

// Q0_8ToFloat converts a Q0.8 fixed-point value to its float64
// representation. The conversion is lossless.
func Q0_8ToFloat(q uint8) float64 {
	return float64(q) / (1 << q0_8FracBits)
}

// Int32ToNormalized maps a 32-bit signed PCM sample to a normalized float64
// in [-1, +1), dividing by 2^31.
func Int32ToNormalized(i int32) float64 {
	return float64(i) / (1 << 31)
}

// NormalizedToInt32 scales a normalized float64 sample to a 32-bit signed
// PCM value, clamping to [-1,+1] before scaling. It fails with RangeError
// for NaN or infinite input.
func NormalizedToInt32(f float64) (int32, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, iamferr.New(iamferr.RangeError, "NormalizedToInt32", "input is NaN or infinite")
	}
	if f > 1 {
		f = 1
	}
	if f < -1 {
		f = -1
	}
	scaled := f * (1 << 31)
	if scaled >= math.MaxInt32 {
		return math.MaxInt32, nil
	}
	if scaled <= math.MinInt32 {
		return math.MinInt32, nil
	}
	return int32(scaled), nil
}

// IsNativeBigEndian reports whether the running platform is big-endian.
func IsNativeBigEndian() bool {
	var x uint16 = 1
	buf := *(*[2]byte)(unsafe.Pointer(&x))
	return buf[0] == 0
}
