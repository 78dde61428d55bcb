/*
DESCRIPTION
  header_test.go provides testing for header.go.

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
	"github.com/google/go-cmp/cmp"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := &Header{Type: TypeAudioFrame, RedundantCopy: true}
	body := []byte{0x01, 0x02, 0x03}

	w := bitio.NewWriter()
	if err := WriteHeader(w, h, body); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	r := bitio.NewReader(w.Bytes())
	gotHeader, gotBody, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if diff := cmp.Diff(h, gotHeader, cmp.AllowUnexported(Header{})); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Equal(gotBody, body) {
		t.Errorf("body: got %x, want %x", gotBody, body)
	}
}

func TestHeaderTrimmingAndExtension(t *testing.T) {
	h := &Header{Type: TypeAudioFrame, TrimmingStatus: true, NumSamplesToTrimAtEnd: 5, NumSamplesToTrimAtStart: 2}
	h.SetExtension([]byte{0xaa, 0xbb})
	body := []byte{0x42}

	w := bitio.NewWriter()
	if err := WriteHeader(w, h, body); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	r := bitio.NewReader(w.Bytes())
	got, gotBody, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if diff := cmp.Diff(h, got, cmp.AllowUnexported(Header{})); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Equal(gotBody, body) {
		t.Errorf("body: got %x, want %x", gotBody, body)
	}
}

func TestHeaderIllegalFlagsOnTemporalDelimiter(t *testing.T) {
	h := &Header{Type: TypeTemporalDelimiter, RedundantCopy: true}
	w := bitio.NewWriter()
	if err := WriteHeader(w, h, nil); err == nil {
		t.Fatal("expected InvalidInput for redundant_copy on TemporalDelimiter")
	}
}

func TestHeaderIllegalFlagsOnSequenceHeader(t *testing.T) {
	h := &Header{Type: TypeIASequenceHeader, TrimmingStatus: true}
	w := bitio.NewWriter()
	if err := WriteHeader(w, h, nil); err == nil {
		t.Fatal("expected InvalidInput for trimming_status on IASequenceHeader")
	}
}

func TestTemporalDelimiterLiteralBytes(t *testing.T) {
	w := bitio.NewWriter()
	h := &Header{Type: TypeTemporalDelimiter}
	if err := WriteHeader(w, h, nil); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	want := []byte{0x20, 0x00}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got %x, want %x", w.Bytes(), want)
	}
}

func TestObuSizeMatchesPayloadLength(t *testing.T) {
	h := &Header{Type: TypeCodecConfig}
	body := make([]byte, 300) // forces a multi-byte ULEB128 obu_size.
	w := bitio.NewWriter()
	if err := WriteHeader(w, h, body); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	r := bitio.NewReader(w.Bytes())
	_, gotBody, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if len(gotBody) != len(body) {
		t.Errorf("got %d body bytes, want %d", len(gotBody), len(body))
	}
}

func TestReadHeaderSubstreamCompactType(t *testing.T) {
	typ, ok := AudioFrameTypeForSubstreamID(5)
	if !ok || typ != TypeAudioFrameID0+5 {
		t.Fatalf("AudioFrameTypeForSubstreamID(5) = %v, %v", typ, ok)
	}
	id, ok := SubstreamIDForAudioFrameType(typ)
	if !ok || id != 5 {
		t.Fatalf("SubstreamIDForAudioFrameType: got %d, %v", id, ok)
	}
	if _, ok := AudioFrameTypeForSubstreamID(18); ok {
		t.Fatal("expected id 18 to require explicit form")
	}
}
