/*
DESCRIPTION
  opus_test.go provides testing for opus.go.

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
)

func TestOpusRoundTrip(t *testing.T) {
	want := &Opus{Version: 1, PreSkip: 312, InputSampleRate: 48000}
	w := bitio.NewWriter()
	if err := want.Marshal(w, 960); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseOpus(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ParseOpus: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOpusRequiredAudioRollDistance(t *testing.T) {
	cases := []struct {
		samplesPerFrame uint32
		want            int16
	}{
		{960, -4},  // ceil(3840/960) = 4
		{3840, -1}, // ceil(3840/3840) = 1
		{1920, -2}, // ceil(3840/1920) = 2
		{5760, -1}, // ceil(3840/5760) = 1
	}
	for _, c := range cases {
		o := &Opus{}
		if got := o.RequiredAudioRollDistance(c.samplesPerFrame); got != c.want {
			t.Errorf("RequiredAudioRollDistance(%d) = %d, want %d", c.samplesPerFrame, got, c.want)
		}
	}
}

func TestOpusInvalidVersion(t *testing.T) {
	o := &Opus{Version: 0}
	if err := o.Marshal(bitio.NewWriter(), 960); err == nil {
		t.Fatal("expected error for zero version")
	}
}
