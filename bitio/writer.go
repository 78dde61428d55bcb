/*
NAME
  writer.go

DESCRIPTION
  writer.go provides a bit-addressable write buffer used to serialize every
  OBU and sub-structure in the IAMF bitstream. All multi-bit integers are
  written big-endian, MSB first.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitio provides typed bit-level read/write access over an
// in-memory, byte-addressable buffer: fixed-width big-endian integers,
// ULEB128 and ISO-14496-1 expandable sizes, NUL-terminated strings, and
// byte-aligned spans, as required by the IAMF OBU wire format.
package bitio

import (
	"github.com/ausocean/iamf/iamferr"
)

// maxULEB128Bytes is the maximum number of bytes a ULEB128 value may occupy
// on the wire; the decoded value must still fit in 32 bits.
const maxULEB128Bytes = 8

// maxExpandableBytes bounds the ISO-14496-1 expandable size encoding so the
// decoded value never exceeds 2^28-1.
const maxExpandableBytes = 4

// maxExpandableValue is the largest value an ISO-14496-1 expandable size can
// represent (2^28 - 1).
const maxExpandableValue = 1<<28 - 1

// maxStringBytes is the most bytes, including the terminating NUL, that a
// string this codec serializes or parses may occupy.
const maxStringBytes = 128

// LebGenerator configures how write_uleb128 sizes its output. By default
// (zero value) it produces the minimal number of bytes; SetFixedSize opts
// into emitting exactly n bytes, zero-padded, for every value written
// through this generator, which is used by OBU encoders wanting
// deterministic obu_size field widths.
type LebGenerator struct {
	fixedSize int // 0 means minimal encoding.
}

// NewLebGenerator returns a generator that emits minimal-length ULEB128s.
func NewLebGenerator() LebGenerator { return LebGenerator{} }

// FixedSize returns a generator that always emits exactly n bytes
// (1 <= n <= 8), zero-padding the unused continuation bytes.
func FixedSize(n int) LebGenerator { return LebGenerator{fixedSize: n} }

// Writer is a bit-addressable write buffer. The zero value is ready to use.
// A Writer only ever advances; there is no seek or rewind, matching the
// append-only nature of OBU serialization.
type Writer struct {
	buf    []byte
	bitOff int // offset within the final byte of buf, 0 == byte-aligned.
	nBits  int // total bits written, for diagnostics.
	leb    LebGenerator
}

// NewWriter returns a new, empty Writer using minimal-length ULEB128
// encoding.
func NewWriter() *Writer {
	return &Writer{}
}

// SetLebGenerator configures how subsequent WriteUleb128 calls size their
// output.
func (w *Writer) SetLebGenerator(g LebGenerator) { w.leb = g }

// Bytes returns the buffer's contents. The caller must not mutate the
// returned slice; it aliases the Writer's internal storage. Bytes panics if
// the writer is not currently byte-aligned, since a caller reading out
// partial-byte state would silently lose the trailing bits.
func (w *Writer) Bytes() []byte {
	if !w.IsByteAligned() {
		panic("bitio: Bytes called while not byte-aligned")
	}
	return w.buf
}

// Len returns the number of complete bytes currently in the buffer.
func (w *Writer) Len() int { return len(w.buf) }

// BitLen returns the total number of bits written so far.
func (w *Writer) BitLen() int { return w.nBits }

// IsByteAligned reports whether the write cursor sits on a byte boundary.
func (w *Writer) IsByteAligned() bool { return w.bitOff == 0 }

// ensureByte appends a fresh zero byte to write into when starting a new
// byte.
func (w *Writer) ensureByte() {
	if w.bitOff == 0 {
		w.buf = append(w.buf, 0)
	}
}

// WriteBit writes a single bit, 0 or 1.
func (w *Writer) WriteBit(bit uint8) {
	w.ensureByte()
	if bit != 0 {
		w.buf[len(w.buf)-1] |= 1 << uint(7-w.bitOff)
	}
	w.bitOff = (w.bitOff + 1) % 8
	w.nBits++
}

// WriteU writes the n least-significant bits of value, big-endian, MSB
// first. n must be between 1 and 64 inclusive.
func (w *Writer) WriteU(n int, value uint64) error {
	if n < 1 || n > 64 {
		return iamferr.New(iamferr.InvalidInput, "WriteU", "bit width %d out of [1,64]", n)
	}
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(uint8((value >> uint(i)) & 1))
	}
	return nil
}

// WriteS writes value as an n-bit two's-complement signed integer. n must be
// one of 8, 9, or 16, matching the widths used across IAMF's fixed-point and
// positional-parameter fields.
func (w *Writer) WriteS(n int, value int64) error {
	switch n {
	case 8, 9, 16:
	default:
		return iamferr.New(iamferr.InvalidInput, "WriteS", "unsupported signed width %d", n)
	}
	lo, hi := signedRange(n)
	if value < lo || value > hi {
		return iamferr.New(iamferr.RangeError, "WriteS", "value %d out of range [%d,%d] for %d-bit signed", value, lo, hi, n)
	}
	mask := uint64(1)<<uint(n) - 1
	return w.WriteU(n, uint64(value)&mask)
}

// signedRange returns the inclusive range representable by an n-bit two's
// complement integer.
func signedRange(n int) (lo, hi int64) {
	hi = 1<<uint(n-1) - 1
	lo = -(1 << uint(n-1))
	return lo, hi
}

// WriteUleb128 writes v using the writer's configured LebGenerator (minimal
// length by default, or a fixed byte count if SetLebGenerator was called
// with FixedSize). v must fit in 32 bits.
func (w *Writer) WriteUleb128(v uint32) error {
	if w.leb.fixedSize == 0 {
		return w.writeUleb128Minimal(v)
	}
	return w.writeUleb128Fixed(v, w.leb.fixedSize)
}

func (w *Writer) writeUleb128Minimal(v uint32) error {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		if err := w.WriteU(8, uint64(b)); err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}

func (w *Writer) writeUleb128Fixed(v uint32, size int) error {
	if size < 1 || size > maxULEB128Bytes {
		return iamferr.New(iamferr.InvalidInput, "WriteUleb128", "fixed size %d out of [1,%d]", size, maxULEB128Bytes)
	}
	for i := 0; i < size; i++ {
		b := byte(v & 0x7f)
		v >>= 7
		if i != size-1 {
			b |= 0x80
		}
		if err := w.WriteU(8, uint64(b)); err != nil {
			return err
		}
	}
	if v != 0 {
		return iamferr.New(iamferr.Overflow, "WriteUleb128", "value does not fit in %d fixed bytes", size)
	}
	return nil
}

// WriteIsoExpanded writes v as an ISO-14496-1 expandable size: 7 data bits
// per byte with the high bit set on every byte but the last. v must be no
// greater than 2^28-1.
func (w *Writer) WriteIsoExpanded(v uint32) error {
	if v > maxExpandableValue {
		return iamferr.New(iamferr.Overflow, "WriteIsoExpanded", "value %d exceeds 2^28-1", v)
	}
	// Determine number of 7-bit groups required (at least 1).
	n := 1
	for t := v >> 7; t != 0; t >>= 7 {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		group := byte((v >> uint(7*i)) & 0x7f)
		if i != 0 {
			group |= 0x80
		}
		if err := w.WriteU(8, uint64(group)); err != nil {
			return err
		}
	}
	return nil
}

// WriteString writes s's bytes followed by a terminating NUL. len(s) must
// not exceed 127, so that the string and its NUL fit in 128 bytes.
func (w *Writer) WriteString(s string) error {
	if len(s) >= maxStringBytes {
		return iamferr.New(iamferr.InvalidInput, "WriteString", "string length %d plus NUL exceeds %d bytes", len(s), maxStringBytes)
	}
	if err := w.WriteBytes([]byte(s)); err != nil {
		return err
	}
	return w.WriteU(8, 0)
}

// WriteBytes copies span into the buffer verbatim. The writer must be
// byte-aligned.
func (w *Writer) WriteBytes(span []byte) error {
	if !w.IsByteAligned() {
		return iamferr.New(iamferr.InvalidInput, "WriteBytes", "writer is not byte-aligned")
	}
	w.buf = append(w.buf, span...)
	w.nBits += 8 * len(span)
	return nil
}

// AlignToByte pads the current byte with zero bits until the writer is
// byte-aligned. It is a no-op if already aligned.
func (w *Writer) AlignToByte() {
	for !w.IsByteAligned() {
		w.WriteBit(0)
	}
}
