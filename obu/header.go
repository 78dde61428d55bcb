/*
NAME
  header.go

DESCRIPTION
  header.go implements the OBU header: a 5-bit type tag, three flag bits
  (redundant-copy, trimming-status, extension), a ULEB128 payload size, and
  the optional trimming and extension sections that follow it.

  Layout (after the initial byte):

  ============================================================================
  | field              | width    | present when                           |
  ============================================================================
  | obu_type           | 5 bits   | always                                  |
  ----------------------------------------------------------------------------
  | obu_redundant_copy | 1 bit    | always (must be 0 for TD/IASH)          |
  ----------------------------------------------------------------------------
  | obu_trimming_status| 1 bit    | always (must be 0 for TD/IASH)          |
  ----------------------------------------------------------------------------
  | obu_extension_flag | 1 bit    | always                                  |
  ----------------------------------------------------------------------------
  | obu_size           | ULEB128  | always; byte length of everything below |
  ----------------------------------------------------------------------------
  | num_samples_to_trim_at_end   | ULEB128 | obu_trimming_status == 1       |
  ----------------------------------------------------------------------------
  | num_samples_to_trim_at_start | ULEB128 | obu_trimming_status == 1       |
  ----------------------------------------------------------------------------
  | extension_header_size | ULEB128 | obu_extension_flag == 1              |
  ----------------------------------------------------------------------------
  | extension_header_bytes | extension_header_size bytes | obu_extension_flag == 1 |
  ----------------------------------------------------------------------------

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package obu

import (
	"github.com/ausocean/iamf/bitio"
	"github.com/ausocean/iamf/iamferr"
	"github.com/ausocean/utils/logging"
)

// Log is the package-level logger used for diagnostics during OBU
// serialization and parsing. Callers may assign their own implementation of
// logging.Logger before using this package; the zero value performs no
// logging.
var Log logging.Logger

// Header is the common prefix shared by every OBU.
type Header struct {
	// Type is the 5-bit OBU type tag.
	Type Type

	// RedundantCopy, if true, indicates this OBU is a redundant copy of an
	// equivalent OBU earlier in the stream. Illegal (must be false) for
	// TemporalDelimiter and IASequenceHeader.
	RedundantCopy bool

	// TrimmingStatus, if true, indicates the trimming fields below are
	// present. Illegal (must be false) for TemporalDelimiter and
	// IASequenceHeader.
	TrimmingStatus bool

	// NumSamplesToTrimAtEnd and NumSamplesToTrimAtStart are only meaningful
	// when TrimmingStatus is true.
	NumSamplesToTrimAtEnd   uint32
	NumSamplesToTrimAtStart uint32

	// ExtensionHeaderBytes, if non-nil, carries opaque extension bytes
	// present whenever the extension flag is set, even if the slice is
	// empty.
	ExtensionHeaderBytes []byte
	hasExtension         bool
}

// HasExtension reports whether the extension flag is set, distinguishing a
// present-but-empty extension from no extension at all.
func (h *Header) HasExtension() bool { return h.hasExtension }

// SetExtension sets the extension payload and marks the extension flag as
// present.
func (h *Header) SetExtension(b []byte) {
	h.ExtensionHeaderBytes = b
	h.hasExtension = true
}

// trimmingIllegal reports whether t forbids redundant-copy/trimming flags.
func trimmingIllegal(t Type) bool {
	return t == TypeTemporalDelimiter || t == TypeIASequenceHeader
}

// Validate checks the flag-combination invariants that do not depend on the
// payload: RedundantCopy and TrimmingStatus must both be false for
// TemporalDelimiter and IASequenceHeader OBUs.
func (h *Header) Validate() error {
	if trimmingIllegal(h.Type) && (h.RedundantCopy || h.TrimmingStatus) {
		return iamferr.New(iamferr.InvalidInput, "Header.Validate", "redundant_copy and trimming_status must be 0 for %s", h.Type)
	}
	return nil
}

// WriteHeader writes h followed by body verbatim, computing and prepending
// the obu_size field. The trimming fields (when h.TrimmingStatus is set) and
// the extension fields (when h carries extension bytes) are built from h and
// written between obu_size and body; obu_size covers them and body.
func WriteHeader(w *bitio.Writer, h *Header, body []byte) error {
	if err := h.Validate(); err != nil {
		return err
	}

	tail := bitio.NewWriter()
	if h.TrimmingStatus {
		if err := tail.WriteUleb128(h.NumSamplesToTrimAtEnd); err != nil {
			return iamferr.Wrap(err, "WriteHeader: trim_at_end")
		}
		if err := tail.WriteUleb128(h.NumSamplesToTrimAtStart); err != nil {
			return iamferr.Wrap(err, "WriteHeader: trim_at_start")
		}
	}
	if h.hasExtension {
		if err := tail.WriteUleb128(uint32(len(h.ExtensionHeaderBytes))); err != nil {
			return iamferr.Wrap(err, "WriteHeader: extension_header_size")
		}
		if err := tail.WriteBytes(h.ExtensionHeaderBytes); err != nil {
			return iamferr.Wrap(err, "WriteHeader: extension_header_bytes")
		}
	}
	tailBytes := tail.Bytes()

	if err := w.WriteU(5, uint64(h.Type)); err != nil {
		return err
	}
	if err := w.WriteU(1, boolBit(h.RedundantCopy)); err != nil {
		return err
	}
	if err := w.WriteU(1, boolBit(h.TrimmingStatus)); err != nil {
		return err
	}
	if err := w.WriteU(1, boolBit(h.hasExtension)); err != nil {
		return err
	}
	size := uint32(len(tailBytes) + len(body))
	if err := w.WriteUleb128(size); err != nil {
		return iamferr.Wrap(err, "WriteHeader: obu_size")
	}
	if err := w.WriteBytes(tailBytes); err != nil {
		return err
	}
	return w.WriteBytes(body)
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// ReadHeader reads an OBU header from r and returns it along with the exact
// payload bytes (excluding trimming/extension fields, which are parsed into
// h) that follow, per obu_size. The reader is left positioned immediately
// after those payload bytes.
func ReadHeader(r *bitio.Reader) (h *Header, payload []byte, err error) {
	h = &Header{}

	typ, err := r.ReadU(5)
	if err != nil {
		return nil, nil, iamferr.Wrap(err, "ReadHeader: obu_type")
	}
	h.Type = Type(typ)

	redundant, err := r.ReadU(1)
	if err != nil {
		return nil, nil, iamferr.Wrap(err, "ReadHeader: obu_redundant_copy")
	}
	h.RedundantCopy = redundant == 1

	trimming, err := r.ReadU(1)
	if err != nil {
		return nil, nil, iamferr.Wrap(err, "ReadHeader: obu_trimming_status")
	}
	h.TrimmingStatus = trimming == 1

	extFlag, err := r.ReadU(1)
	if err != nil {
		return nil, nil, iamferr.Wrap(err, "ReadHeader: obu_extension_flag")
	}
	hasExt := extFlag == 1

	if err := h.Validate(); err != nil {
		return nil, nil, err
	}

	size, err := r.ReadUleb128()
	if err != nil {
		return nil, nil, iamferr.Wrap(err, "ReadHeader: obu_size")
	}

	startByte := r.BytePos()
	if !r.IsByteAligned() {
		return nil, nil, iamferr.New(iamferr.Internal, "ReadHeader", "reader not byte-aligned after header bits")
	}

	if h.TrimmingStatus {
		end, err := r.ReadUleb128()
		if err != nil {
			return nil, nil, iamferr.Wrap(err, "ReadHeader: num_samples_to_trim_at_end")
		}
		start, err := r.ReadUleb128()
		if err != nil {
			return nil, nil, iamferr.Wrap(err, "ReadHeader: num_samples_to_trim_at_start")
		}
		h.NumSamplesToTrimAtEnd = end
		h.NumSamplesToTrimAtStart = start
	}

	if hasExt {
		extSize, err := r.ReadUleb128()
		if err != nil {
			return nil, nil, iamferr.Wrap(err, "ReadHeader: extension_header_size")
		}
		extBytes, err := r.ReadBytes(int(extSize))
		if err != nil {
			return nil, nil, iamferr.Wrap(err, "ReadHeader: extension_header_bytes")
		}
		h.SetExtension(extBytes)
	}

	consumed := r.BytePos() - startByte
	remaining := int(size) - consumed
	if remaining < 0 {
		return nil, nil, iamferr.New(iamferr.InvalidInput, "ReadHeader", "obu_size %d smaller than trimming/extension fields (%d bytes)", size, consumed)
	}

	payload, err = r.ReadBytes(remaining)
	if err != nil {
		return nil, nil, iamferr.Wrap(err, "ReadHeader: payload")
	}

	return h, payload, nil
}
