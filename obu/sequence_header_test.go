/*
DESCRIPTION
  sequence_header_test.go provides testing for sequence_header.go, including
  the minimal literal-bytes scenario.

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
	"bytes"
	"testing"

	"github.com/ausocean/iamf/bitio"
)

func TestMinimalIASequenceHeaderLiteralBytes(t *testing.T) {
	seq := &IASequenceHeader{PrimaryProfile: 0, AdditionalProfile: 0}
	w := bitio.NewWriter()
	if err := seq.WriteOBU(w); err != nil {
		t.Fatalf("WriteOBU: %v", err)
	}
	want := []byte{0xF8, 0x06, 0x69, 0x61, 0x6D, 0x66, 0x00, 0x00}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got %x, want %x", w.Bytes(), want)
	}
}

func TestIASequenceHeaderRoundTrip(t *testing.T) {
	seq := &IASequenceHeader{PrimaryProfile: 1, AdditionalProfile: 2}
	w := bitio.NewWriter()
	if err := seq.WriteOBU(w); err != nil {
		t.Fatalf("WriteOBU: %v", err)
	}
	r := bitio.NewReader(w.Bytes())
	h, payload, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Type != TypeIASequenceHeader {
		t.Fatalf("got type %v, want IASequenceHeader", h.Type)
	}
	got, err := ParseIASequenceHeader(payload)
	if err != nil {
		t.Fatalf("ParseIASequenceHeader: %v", err)
	}
	if *got != *seq {
		t.Errorf("got %+v, want %+v", got, seq)
	}
}

func TestIASequenceHeaderBadMagic(t *testing.T) {
	if _, err := ParseIASequenceHeader([]byte{'x', 'x', 'x', 'x', 0, 0}); err == nil {
		t.Fatal("expected error for bad magic")
	}
}
