/*
NAME
  audio_frame.go

DESCRIPTION
  audio_frame.go implements the Audio Frame OBU: an opaque codec payload
  for one substream's temporal unit, addressed either by a compact OBU
  type (substream ids 0-17) or by an explicit leading ULEB128 id.

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

// AudioFrame is one substream's opaque codec payload for a single
// temporal unit.
type AudioFrame struct {
	SubstreamID uint32
	Payload     []byte
}

// WriteOBU writes the Audio Frame OBU to w. When SubstreamID has a
// compact OBU type (0-17), the id is carried by the OBU type and omitted
// from the payload; otherwise the explicit form is used, with
// SubstreamID encoded as a leading ULEB128 field.
func (f *AudioFrame) WriteOBU(w *bitio.Writer) error {
	body := bitio.NewWriter()
	t, compact := AudioFrameTypeForSubstreamID(f.SubstreamID)
	if !compact {
		t = TypeAudioFrame
		if err := body.WriteUleb128(f.SubstreamID); err != nil {
			return iamferr.Wrap(err, "AudioFrame.WriteOBU: substream_id")
		}
	}
	if err := body.WriteBytes(f.Payload); err != nil {
		return iamferr.Wrap(err, "AudioFrame.WriteOBU: audio_frame")
	}
	return WriteHeader(w, &Header{Type: t}, body.Bytes())
}

// ParseAudioFrame parses an Audio Frame OBU's payload. t is the OBU type
// from the header, which determines whether the substream id is compact
// (encoded in t) or explicit (a leading ULEB128 field in payload).
func ParseAudioFrame(t Type, payload []byte) (*AudioFrame, error) {
	if id, ok := SubstreamIDForAudioFrameType(t); ok {
		return &AudioFrame{SubstreamID: id, Payload: append([]byte(nil), payload...)}, nil
	}
	if t != TypeAudioFrame {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseAudioFrame", "OBU type %v is not an audio frame type", t)
	}
	r := bitio.NewReader(payload)
	id, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAudioFrame: substream_id")
	}
	rest, err := r.ReadBytes(r.BitsRemaining() / 8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAudioFrame: audio_frame")
	}
	return &AudioFrame{SubstreamID: id, Payload: rest}, nil
}
