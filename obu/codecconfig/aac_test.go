/*
DESCRIPTION
  aac_test.go provides testing for aac.go.

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

func TestAACRoundTrip(t *testing.T) {
	want := &AAC{
		BufferSizeDB:         6144,
		MaxBitrate:           128000,
		AverageBitrate:       128000,
		SampleFrequencyIndex: 3, // 48000
		ChannelConfiguration: 2,
	}
	w := bitio.NewWriter()
	if err := want.Marshal(w, 1024); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseAAC(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ParseAAC: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	rate, err := got.SampleRate()
	if err != nil {
		t.Fatalf("SampleRate: %v", err)
	}
	if rate != 48000 {
		t.Errorf("got rate %d, want 48000", rate)
	}
}

func TestAACEscapeSampleRate(t *testing.T) {
	want := &AAC{
		BufferSizeDB:         6144,
		MaxBitrate:           128000,
		AverageBitrate:       128000,
		SampleFrequencyIndex: 15,
		EscapeSampleRate:     37800,
		ChannelConfiguration: 1,
	}
	w := bitio.NewWriter()
	if err := want.Marshal(w, 1024); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseAAC(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ParseAAC: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	rate, err := got.SampleRate()
	if err != nil {
		t.Fatalf("SampleRate: %v", err)
	}
	if rate != 37800 {
		t.Errorf("got rate %d, want 37800", rate)
	}
}

func TestAACRequiredAudioRollDistance(t *testing.T) {
	a := &AAC{}
	if got := a.RequiredAudioRollDistance(1024); got != -1 {
		t.Errorf("got %d, want -1", got)
	}
}
