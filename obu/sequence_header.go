/*
NAME
  sequence_header.go

DESCRIPTION
  sequence_header.go implements the IA Sequence Header OBU: a 4-byte magic
  string followed by a primary and an additional profile byte.

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
)

// iaMagic is the 4-byte magic string "iamf" that opens every IA Sequence
// Header.
var iaMagic = [4]byte{'i', 'a', 'm', 'f'}

// Profile identifies an IAMF compatibility profile. Values beyond the
// enumerated set are tolerated as reserved, per spec.
type Profile uint8

// Defined IAMF profiles.
const (
	ProfileSimple Profile = 0
	ProfileBase   Profile = 1
	// Values 2..255 are reserved for future profiles and round-trip
	// losslessly even though this codec does not interpret them.
)

// IASequenceHeader is the descriptor OBU that opens an IAMF sequence.
type IASequenceHeader struct {
	PrimaryProfile    Profile
	AdditionalProfile Profile
}

// Marshal serializes seq's payload (not including the OBU header) into w.
func (seq *IASequenceHeader) Marshal(w *bitio.Writer) error {
	if err := w.WriteBytes(iaMagic[:]); err != nil {
		return iamferr.Wrap(err, "IASequenceHeader.Marshal: magic")
	}
	if err := w.WriteU(8, uint64(seq.PrimaryProfile)); err != nil {
		return iamferr.Wrap(err, "IASequenceHeader.Marshal: primary_profile")
	}
	if err := w.WriteU(8, uint64(seq.AdditionalProfile)); err != nil {
		return iamferr.Wrap(err, "IASequenceHeader.Marshal: additional_profile")
	}
	return nil
}

// WriteOBU writes the full OBU (header + payload) for seq to w.
func (seq *IASequenceHeader) WriteOBU(w *bitio.Writer) error {
	body := bitio.NewWriter()
	if err := seq.Marshal(body); err != nil {
		return err
	}
	return WriteHeader(w, &Header{Type: TypeIASequenceHeader}, body.Bytes())
}

// ParseIASequenceHeader parses an IA Sequence Header's payload from
// payload, validating the magic string.
func ParseIASequenceHeader(payload []byte) (*IASequenceHeader, error) {
	r := bitio.NewReader(payload)
	magic, err := r.ReadBytes(4)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseIASequenceHeader: magic")
	}
	if magic[0] != iaMagic[0] || magic[1] != iaMagic[1] || magic[2] != iaMagic[2] || magic[3] != iaMagic[3] {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseIASequenceHeader", "bad magic %x", magic)
	}
	primary, err := r.ReadU(8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseIASequenceHeader: primary_profile")
	}
	additional, err := r.ReadU(8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseIASequenceHeader: additional_profile")
	}
	if r.BitsRemaining() != 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseIASequenceHeader", "%d trailing bits after payload", r.BitsRemaining())
	}
	return &IASequenceHeader{PrimaryProfile: Profile(primary), AdditionalProfile: Profile(additional)}, nil
}
