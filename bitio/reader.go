/*
NAME
  reader.go

DESCRIPTION
  reader.go provides a bit-addressable read buffer used to parse every OBU
  and sub-structure in the IAMF bitstream, mirroring writer.go's layout.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bitio

import (
	"github.com/ausocean/iamf/iamferr"
)

// ReaderOption configures a Reader at construction time.
type ReaderOption func(*Reader)

// Lenient configures the Reader to accept ULEB128 encodings that carry
// trailing all-zero continuation bytes instead of rejecting them with
// Overflow. Strict (the default) is the safer choice for a canonical
// encoder/decoder pair; Lenient exists for interoperating with bitstreams
// produced by less careful encoders.
func Lenient() ReaderOption {
	return func(r *Reader) { r.lenient = true }
}

// Reader is a bit-addressable read buffer over a fixed byte slice. It is
// exclusively owned by its parser; there is no concurrent-access support.
type Reader struct {
	buf     []byte
	byteOff int
	bitOff  int // 0..7, bits already consumed from buf[byteOff].
	lenient bool
}

// NewReader returns a Reader over buf's contents. buf is not copied; the
// caller must not mutate it while the Reader is in use.
func NewReader(buf []byte, opts ...ReaderOption) *Reader {
	r := &Reader{buf: buf}
	for _, o := range opts {
		o(r)
	}
	return r
}

// checkpoint captures the Reader's position so a recoverable failure (e.g. a
// ULEB128 overflow attempt) can be rewound and retried in a different
// framing, per the IAMF error propagation design.
type checkpoint struct {
	byteOff int
	bitOff  int
}

// Checkpoint returns the Reader's current position.
func (r *Reader) Checkpoint() checkpoint {
	return checkpoint{byteOff: r.byteOff, bitOff: r.bitOff}
}

// Restore rewinds the Reader to a previously captured checkpoint.
func (r *Reader) Restore(c checkpoint) {
	r.byteOff = c.byteOff
	r.bitOff = c.bitOff
}

// BitsRemaining returns how many bits remain unread in the buffer.
func (r *Reader) BitsRemaining() int {
	return 8*(len(r.buf)-r.byteOff) - r.bitOff
}

// IsByteAligned reports whether the read cursor sits on a byte boundary.
func (r *Reader) IsByteAligned() bool { return r.bitOff == 0 }

// AlignToByte advances the cursor to the next byte boundary, discarding any
// padding bits. It is a no-op if already aligned.
func (r *Reader) AlignToByte() {
	if r.bitOff != 0 {
		r.byteOff++
		r.bitOff = 0
	}
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (uint8, error) {
	if r.BitsRemaining() < 1 {
		return 0, iamferr.New(iamferr.Truncated, "ReadBit", "no bits remaining")
	}
	b := r.buf[r.byteOff]
	bit := (b >> uint(7-r.bitOff)) & 1
	r.bitOff++
	if r.bitOff == 8 {
		r.bitOff = 0
		r.byteOff++
	}
	return bit, nil
}

// ReadU reads n bits (1 <= n <= 64) and returns them as the
// least-significant bits of a uint64, big-endian/MSB-first.
func (r *Reader) ReadU(n int) (uint64, error) {
	if n < 1 || n > 64 {
		return 0, iamferr.New(iamferr.InvalidInput, "ReadU", "bit width %d out of [1,64]", n)
	}
	if r.BitsRemaining() < n {
		return 0, iamferr.New(iamferr.Truncated, "ReadU", "need %d bits, have %d", n, r.BitsRemaining())
	}
	var v uint64
	for i := 0; i < n; i++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint64(bit)
	}
	return v, nil
}

// ReadS reads an n-bit two's-complement signed integer. n must be one of 8,
// 9, or 16.
func (r *Reader) ReadS(n int) (int64, error) {
	switch n {
	case 8, 9, 16:
	default:
		return 0, iamferr.New(iamferr.InvalidInput, "ReadS", "unsupported signed width %d", n)
	}
	u, err := r.ReadU(n)
	if err != nil {
		return 0, err
	}
	sign := uint64(1) << uint(n-1)
	if u&sign != 0 {
		return int64(u) - int64(sign<<1), nil
	}
	return int64(u), nil
}

// ReadUleb128 reads a ULEB128-encoded value. It fails with Overflow if more
// than 8 bytes are consumed, or if the 8th byte still carries the
// continuation bit, or if the decoded value does not fit in 32 bits. Unless
// the Reader is Lenient, it also fails with Overflow on a non-minimal
// encoding, i.e. one that ends in trailing all-zero continuation bytes. On
// failure the cursor is rewound to its pre-call position so callers may
// retry under a different framing.
func (r *Reader) ReadUleb128() (uint32, error) {
	cp := r.Checkpoint()
	var result uint64
	for i := 0; i < maxULEB128Bytes; i++ {
		b, err := r.ReadU(8)
		if err != nil {
			r.Restore(cp)
			return 0, err
		}
		result |= (b & 0x7f) << uint(7*i)
		if b&0x80 == 0 {
			if result > 0xffffffff {
				r.Restore(cp)
				return 0, iamferr.New(iamferr.Overflow, "ReadUleb128", "decoded value %d exceeds 32 bits", result)
			}
			if i > 0 && b == 0 && !r.lenient {
				r.Restore(cp)
				return 0, iamferr.New(iamferr.Overflow, "ReadUleb128", "trailing all-zero continuation bytes")
			}
			return uint32(result), nil
		}
		if i == maxULEB128Bytes-1 {
			r.Restore(cp)
			return 0, iamferr.New(iamferr.Overflow, "ReadUleb128", "8th byte still carries continuation bit")
		}
	}
	if result > 0xffffffff {
		r.Restore(cp)
		return 0, iamferr.New(iamferr.Overflow, "ReadUleb128", "decoded value %d exceeds 32 bits", result)
	}
	return uint32(result), nil
}

// ReadIsoExpanded reads an ISO-14496-1 expandable size: 7 data bits per
// byte, high bit set as a continuation flag, capped at 2^28-1.
func (r *Reader) ReadIsoExpanded() (uint32, error) {
	cp := r.Checkpoint()
	var result uint64
	for i := 0; i < maxExpandableBytes; i++ {
		b, err := r.ReadU(8)
		if err != nil {
			r.Restore(cp)
			return 0, err
		}
		result = result<<7 | (b & 0x7f)
		if b&0x80 == 0 {
			if result > maxExpandableValue {
				r.Restore(cp)
				return 0, iamferr.New(iamferr.Overflow, "ReadIsoExpanded", "decoded value %d exceeds 2^28-1", result)
			}
			return uint32(result), nil
		}
	}
	r.Restore(cp)
	return 0, iamferr.New(iamferr.Overflow, "ReadIsoExpanded", "expandable size exceeds %d bytes", maxExpandableBytes)
}

// ReadString reads bytes up to and including a terminating NUL, returning
// the string without the terminator. It fails with InvalidInput if no NUL
// appears within the first 128 bytes.
func (r *Reader) ReadString() (string, error) {
	cp := r.Checkpoint()
	buf := make([]byte, 0, 16)
	for i := 0; i < maxStringBytes; i++ {
		b, err := r.ReadU(8)
		if err != nil {
			r.Restore(cp)
			return "", err
		}
		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, byte(b))
	}
	r.Restore(cp)
	return "", iamferr.New(iamferr.InvalidInput, "ReadString", "no NUL terminator within %d bytes", maxStringBytes)
}

// ReadBytes reads and returns n raw bytes. The reader must be byte-aligned.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if !r.IsByteAligned() {
		return nil, iamferr.New(iamferr.InvalidInput, "ReadBytes", "reader is not byte-aligned")
	}
	if n < 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ReadBytes", "negative length %d", n)
	}
	if len(r.buf)-r.byteOff < n {
		return nil, iamferr.New(iamferr.Truncated, "ReadBytes", "need %d bytes, have %d", n, len(r.buf)-r.byteOff)
	}
	out := make([]byte, n)
	copy(out, r.buf[r.byteOff:r.byteOff+n])
	r.byteOff += n
	return out, nil
}

// BytePos returns the current byte offset; valid only when byte-aligned.
func (r *Reader) BytePos() int { return r.byteOff }
