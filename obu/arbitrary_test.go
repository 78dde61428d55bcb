/*
DESCRIPTION
  arbitrary_test.go provides testing for arbitrary.go.

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

func TestArbitraryOBURoundTripBeforeDescriptors(t *testing.T) {
	want, err := NewArbitraryOBU(BeforeDescriptors, 0, []byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("NewArbitraryOBU: %v", err)
	}
	w := bitio.NewWriter()
	if err := want.WriteOBU(w); err != nil {
		t.Fatalf("WriteOBU: %v", err)
	}
	h, payload, err := ReadHeader(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	got, err := ParseArbitraryOBU(h.Type, payload)
	if err != nil {
		t.Fatalf("ParseArbitraryOBU: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestArbitraryOBURoundTripAfterAudioFramesAtTick(t *testing.T) {
	want, err := NewArbitraryOBU(AfterAudioFramesAtTick, 42, []byte{0xff})
	if err != nil {
		t.Fatalf("NewArbitraryOBU: %v", err)
	}
	w := bitio.NewWriter()
	if err := want.WriteOBU(w); err != nil {
		t.Fatalf("WriteOBU: %v", err)
	}
	h, payload, err := ReadHeader(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	got, err := ParseArbitraryOBU(h.Type, payload)
	if err != nil {
		t.Fatalf("ParseArbitraryOBU: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNewArbitraryOBURequiresTickForAfterAudioFramesAtTick(t *testing.T) {
	if _, err := NewArbitraryOBU(AfterAudioFramesAtTick, 0, nil); err == nil {
		t.Fatal("expected error for zero tick with AfterAudioFramesAtTick")
	}
}

func TestNewArbitraryOBURejectsTickForOtherHooks(t *testing.T) {
	if _, err := NewArbitraryOBU(AfterDescriptors, 1, nil); err == nil {
		t.Fatal("expected error for nonzero tick with non-tick hook")
	}
}

func TestParseArbitraryOBURejectsNonReservedType(t *testing.T) {
	if _, err := ParseArbitraryOBU(TypeCodecConfig, nil); err == nil {
		t.Fatal("expected error for non-reserved OBU type")
	}
}
