/*
DESCRIPTION
  audio_frame_test.go provides testing for audio_frame.go.

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
	"testing"

	"github.com/ausocean/iamf/bitio"
	"github.com/google/go-cmp/cmp"
)

func TestAudioFrameRoundTripCompactID(t *testing.T) {
	want := &AudioFrame{SubstreamID: 3, Payload: []byte{0xde, 0xad, 0xbe, 0xef}}
	w := bitio.NewWriter()
	if err := want.WriteOBU(w); err != nil {
		t.Fatalf("WriteOBU: %v", err)
	}
	h, payload, err := ReadHeader(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if !h.Type.IsAudioFrame() {
		t.Fatalf("got type %v, want an audio frame type", h.Type)
	}
	got, err := ParseAudioFrame(h.Type, payload)
	if err != nil {
		t.Fatalf("ParseAudioFrame: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAudioFrameRoundTripExplicitID(t *testing.T) {
	want := &AudioFrame{SubstreamID: 1000, Payload: []byte{0x01, 0x02}}
	w := bitio.NewWriter()
	if err := want.WriteOBU(w); err != nil {
		t.Fatalf("WriteOBU: %v", err)
	}
	h, payload, err := ReadHeader(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Type != TypeAudioFrame {
		t.Fatalf("got type %v, want TypeAudioFrame", h.Type)
	}
	got, err := ParseAudioFrame(h.Type, payload)
	if err != nil {
		t.Fatalf("ParseAudioFrame: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAudioFrameRejectsNonFrameType(t *testing.T) {
	if _, err := ParseAudioFrame(TypeCodecConfig, nil); err == nil {
		t.Fatal("expected error for non-audio-frame OBU type")
	}
}
