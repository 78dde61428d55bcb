/*
DESCRIPTION
  codec_config_test.go provides testing for codec_config.go.

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
	"github.com/ausocean/iamf/obu/codecconfig"
)

func TestCodecConfigRoundTripLPCM(t *testing.T) {
	cfg := &CodecConfig{
		ID:                 1,
		NumSamplesPerFrame: 960,
		AudioRollDistance:  0,
		Decoder:            &codecconfig.LPCM{SampleSize: 16, SampleRate: 48000},
	}
	w := bitio.NewWriter()
	if err := cfg.WriteOBU(w); err != nil {
		t.Fatalf("WriteOBU: %v", err)
	}
	r := bitio.NewReader(w.Bytes())
	h, payload, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Type != TypeCodecConfig {
		t.Fatalf("got type %v, want codec_config", h.Type)
	}
	got, err := ParseCodecConfig(payload)
	if err != nil {
		t.Fatalf("ParseCodecConfig: %v", err)
	}
	if got.ID != cfg.ID || got.NumSamplesPerFrame != cfg.NumSamplesPerFrame || got.AudioRollDistance != cfg.AudioRollDistance {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
	lpcm, ok := got.Decoder.(*codecconfig.LPCM)
	if !ok {
		t.Fatalf("Decoder type = %T, want *codecconfig.LPCM", got.Decoder)
	}
	if lpcm.SampleSize != 16 || lpcm.SampleRate != 48000 {
		t.Errorf("got %+v", lpcm)
	}
}

func TestCodecConfigRejectsWrongRollDistance(t *testing.T) {
	cfg := &CodecConfig{
		ID:                 1,
		NumSamplesPerFrame: 960,
		AudioRollDistance:  -1, // LPCM requires 0.
		Decoder:            &codecconfig.LPCM{SampleSize: 16, SampleRate: 48000},
	}
	if err := cfg.Marshal(bitio.NewWriter()); err == nil {
		t.Fatal("expected error for mismatched audio_roll_distance")
	}
}

func TestCodecConfigRejectsUnknownFourCC(t *testing.T) {
	payload := []byte{0x01, 'z', 'z', 'z', 'z', 0x80, 0x07, 0x00, 0x00}
	if _, err := ParseCodecConfig(payload); err == nil {
		t.Fatal("expected error for unknown fourCC")
	}
}
