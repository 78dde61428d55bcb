/*
DESCRIPTION
  flac_test.go provides testing for flac.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codecconfig

import (
	"testing"

	"github.com/ausocean/iamf/bitio"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFLACRoundTripStreamInfoOnly(t *testing.T) {
	want := &FLAC{
		Info: StreamInfo{
			MinBlockSize:  960,
			MaxBlockSize:  960,
			SampleRate:    48000,
			Channels:      2,
			BitsPerSample: 16,
			TotalSamples:  48000000,
		},
	}
	w := bitio.NewWriter()
	if err := want.Marshal(w, 960); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseFLAC(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ParseFLAC: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFLACRoundTripWithOtherBlocks(t *testing.T) {
	want := &FLAC{
		Info: StreamInfo{
			MinBlockSize:  4096,
			MaxBlockSize:  4096,
			SampleRate:    44100,
			Channels:      2,
			BitsPerSample: 24,
			TotalSamples:  1000,
		},
		Other: []OtherMetadataBlock{
			{BlockType: 4, Data: []byte("vendor_string")},
		},
	}
	w := bitio.NewWriter()
	if err := want.Marshal(w, 4096); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseFLAC(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ParseFLAC: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFLACBlockSizeMismatch(t *testing.T) {
	f := &FLAC{Info: StreamInfo{MinBlockSize: 960, MaxBlockSize: 960, SampleRate: 48000, Channels: 2, BitsPerSample: 16}}
	if err := f.Marshal(bitio.NewWriter(), 1024); err == nil {
		t.Fatal("expected error when block sizes don't match samplesPerFrame")
	}
}

func TestFLACFirstBlockMustBeStreamInfo(t *testing.T) {
	w := bitio.NewWriter()
	if err := writeFlacBlockHeader(w, true, 4, 3); err != nil {
		t.Fatalf("writeFlacBlockHeader: %v", err)
	}
	if err := w.WriteBytes([]byte("abc")); err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	if _, err := ParseFLAC(bitio.NewReader(w.Bytes())); err == nil {
		t.Fatal("expected error when first block is not STREAMINFO")
	}
}
