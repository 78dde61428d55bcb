/*
DESCRIPTION
  paramdef_test.go provides testing for paramdef.go.

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
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParameterDefinitionRoundTripMixGain(t *testing.T) {
	want := &ParameterDefinition{
		Type: ParamTypeMixGain,
		Common: CommonDef{
			ID: 1, Rate: 48000, Mode: 0,
			Duration: 10, ConstantSubblockDuration: 5,
		},
	}
	w := bitio.NewWriter()
	if err := want.Marshal(w); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseParameterDefinition(bitio.NewReader(w.Bytes()), 0)
	if err != nil {
		t.Fatalf("ParseParameterDefinition: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParameterDefinitionRoundTripExplicitSubblocks(t *testing.T) {
	want := &ParameterDefinition{
		Type: ParamTypeMixGain,
		Common: CommonDef{
			ID: 2, Rate: 1000, Mode: 0,
			Duration: 10, ConstantSubblockDuration: 0,
			SubblockDurations: []uint32{3, 3, 4},
		},
	}
	w := bitio.NewWriter()
	if err := want.Marshal(w); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseParameterDefinition(bitio.NewReader(w.Bytes()), 0)
	if err != nil {
		t.Fatalf("ParseParameterDefinition: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParameterDefinitionDemixingRequiresSingleSubblock(t *testing.T) {
	d := &ParameterDefinition{
		Type: ParamTypeDemixing,
		Common: CommonDef{
			ID: 1, Rate: 48000, Mode: 0,
			Duration: 10, ConstantSubblockDuration: 5, // not equal to duration.
		},
	}
	if err := d.Marshal(bitio.NewWriter()); err == nil {
		t.Fatal("expected error for demixing definition without single subblock")
	}
}

func TestParameterDefinitionSubblockSumMismatch(t *testing.T) {
	d := &ParameterDefinition{
		Type: ParamTypeMixGain,
		Common: CommonDef{
			ID: 1, Rate: 48000, Mode: 0,
			Duration: 10, SubblockDurations: []uint32{3, 3},
		},
	}
	if err := d.Marshal(bitio.NewWriter()); err == nil {
		t.Fatal("expected error for subblock durations not summing to duration")
	}
}

func TestParameterDefinitionPolarRoundTrip(t *testing.T) {
	want := &ParameterDefinition{
		Type:   ParamTypePolar,
		Common: CommonDef{ID: 3, Rate: 100, Mode: 1},
		Points: []Point{{Azimuth: -90, Elevation: 45, Distance: 10}},
	}
	w := bitio.NewWriter()
	if err := want.Marshal(w); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseParameterDefinition(bitio.NewReader(w.Bytes()), 0)
	if err != nil {
		t.Fatalf("ParseParameterDefinition: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParameterDefinitionDualCart16RoundTrip(t *testing.T) {
	want := &ParameterDefinition{
		Type:   ParamTypeDualCart16,
		Common: CommonDef{ID: 4, Rate: 100, Mode: 1},
		Points: []Point{
			{X: -1000, Y: 2000, Z: -3000},
			{X: 32767, Y: -32768, Z: 0},
		},
	}
	w := bitio.NewWriter()
	if err := want.Marshal(w); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseParameterDefinition(bitio.NewReader(w.Bytes()), 0)
	if err != nil {
		t.Fatalf("ParseParameterDefinition: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParameterDefinitionExtensionRoundTrip(t *testing.T) {
	want := &ParameterDefinition{
		Type:           ParamTypeExtension,
		Common:         CommonDef{ID: 5, Rate: 1, Mode: 1},
		ExtensionBytes: []byte{0xde, 0xad, 0xbe, 0xef},
	}
	w := bitio.NewWriter()
	if err := want.Marshal(w); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseParameterDefinition(bitio.NewReader(w.Bytes()), 0)
	if err != nil {
		t.Fatalf("ParseParameterDefinition: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParameterDefinitionUnknownTypePreservedAsExtension(t *testing.T) {
	w := bitio.NewWriter()
	if err := w.WriteU(8, 200); err != nil { // unrecognized type tag.
		t.Fatal(err)
	}
	common := &CommonDef{ID: 9, Rate: 1, Mode: 1}
	if err := common.marshal(w); err != nil {
		t.Fatal(err)
	}
	payload := []byte{0x01, 0x02, 0x03}
	if err := w.WriteBytes(payload); err != nil {
		t.Fatal(err)
	}

	got, err := ParseParameterDefinition(bitio.NewReader(w.Bytes()), uint32(len(payload)))
	if err != nil {
		t.Fatalf("ParseParameterDefinition: %v", err)
	}
	if got.Type != ParamTypeExtension {
		t.Errorf("got type %v, want ParamTypeExtension", got.Type)
	}
	if !cmp.Equal(got.ExtensionBytes, payload) {
		t.Errorf("got %v, want %v", got.ExtensionBytes, payload)
	}
}
