/*
DESCRIPTION
  sequencer_test.go provides testing for sequencer.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sequencer

import (
	"math"
	"testing"

	"github.com/ausocean/iamf/bitio"
	"github.com/ausocean/iamf/obu"
	"github.com/ausocean/iamf/obu/codecconfig"
)

func mixGainDef(id uint32) obu.ParameterDefinition {
	return obu.ParameterDefinition{
		Type:   obu.ParamTypeMixGain,
		Common: obu.CommonDef{ID: id, Rate: 48000, Duration: 10, ConstantSubblockDuration: 10},
	}
}

func testSequence(t *testing.T) *Sequence {
	t.Helper()
	codecConfig := &obu.CodecConfig{
		ID:                 1,
		NumSamplesPerFrame: 960,
		AudioRollDistance:  0,
		Decoder:            &codecconfig.LPCM{SampleSize: 16, SampleRate: 48000},
	}
	audioElement := &obu.AudioElement{
		ID:            1,
		Type:          obu.ElementTypeChannelBased,
		CodecConfigID: 1,
		SubstreamIDs:  []uint32{0},
		ChannelLayers: []obu.ChannelLayer{{Layout: obu.LayoutStereo, CoupledSubstreamCount: 1}},
	}
	mixPresentation := &obu.MixPresentation{
		ID:          1,
		Annotations: map[string]string{"en": "Default"},
		SubMixes: []obu.SubMix{
			{
				Elements: []obu.SubMixElement{
					{AudioElementID: 1, Annotations: map[string]string{"en": "Element"}, MixGain: mixGainDef(1)},
				},
				OutputGain: mixGainDef(2),
				Layouts:    []obu.Layout{{LoudspeakerLayout: obu.LayoutStereo}},
			},
		},
	}

	audioFrames := []AudioFrameEntry{
		{AudioElementID: 1, Frame: &obu.AudioFrame{SubstreamID: 0, Payload: []byte{0x01, 0x02}}},
	}
	tu, err := AssembleTemporalUnit(0, 960, audioFrames, nil, nil)
	if err != nil {
		t.Fatalf("AssembleTemporalUnit: %v", err)
	}

	return &Sequence{
		Header:           &obu.IASequenceHeader{PrimaryProfile: obu.ProfileSimple, AdditionalProfile: obu.ProfileSimple},
		CodecConfigs:     []*obu.CodecConfig{codecConfig},
		AudioElements:    []*obu.AudioElement{audioElement},
		MixPresentations: []*obu.MixPresentation{mixPresentation},
		TemporalUnits:    []*TemporalUnit{tu},
	}
}

// TestSequenceEmitOrder walks the emitted OBU stream and verifies the
// six-step descriptor-then-temporal-unit order.
func TestSequenceEmitOrder(t *testing.T) {
	seq := testSequence(t)
	w := bitio.NewWriter()
	netSamples, err := seq.Emit(w)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if netSamples != 960 {
		t.Errorf("got netSamples %d, want 960", netSamples)
	}

	r := bitio.NewReader(w.Bytes())
	var gotTypes []obu.Type
	for r.BitsRemaining() > 0 {
		h, payload, err := obu.ReadHeader(r)
		if err != nil {
			t.Fatalf("ReadHeader: %v", err)
		}
		gotTypes = append(gotTypes, h.Type)
		_ = payload
	}

	frameType, ok := obu.AudioFrameTypeForSubstreamID(0)
	if !ok {
		t.Fatalf("AudioFrameTypeForSubstreamID(0): not ok")
	}
	wantTypes := []obu.Type{
		obu.TypeIASequenceHeader,
		obu.TypeCodecConfig,
		obu.TypeAudioElement,
		obu.TypeMixPresentation,
		frameType,
	}
	if len(gotTypes) != len(wantTypes) {
		t.Fatalf("got %d OBUs %v, want %d %v", len(gotTypes), gotTypes, len(wantTypes), wantTypes)
	}
	for i, want := range wantTypes {
		if gotTypes[i] != want {
			t.Errorf("OBU %d: got type %v, want %v", i, gotTypes[i], want)
		}
	}
}

func TestSequenceEmitRequiresHeader(t *testing.T) {
	seq := testSequence(t)
	seq.Header = nil
	w := bitio.NewWriter()
	if _, err := seq.Emit(w); err == nil {
		t.Fatal("expected error for missing IA Sequence Header")
	}
}

func TestSequenceEmitWithTemporalDelimiters(t *testing.T) {
	seq := testSequence(t)
	seq.EmitTemporalDelimiters = true
	w := bitio.NewWriter()
	if _, err := seq.Emit(w); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	r := bitio.NewReader(w.Bytes())
	sawDelimiter := false
	for r.BitsRemaining() > 0 {
		h, _, err := obu.ReadHeader(r)
		if err != nil {
			t.Fatalf("ReadHeader: %v", err)
		}
		if h.Type == obu.TypeTemporalDelimiter {
			sawDelimiter = true
		}
	}
	if !sawDelimiter {
		t.Error("expected a temporal delimiter OBU when EmitTemporalDelimiters is set")
	}
}

// TestSequenceEmitAdvancesDemixingWIdx verifies that Emit resolves a
// ParamTypeDemixing parameter block's dmixp_mode to the audio element's
// running w_idx state and records the literal w value from the w_idx table.
func TestSequenceEmitAdvancesDemixingWIdx(t *testing.T) {
	seq := testSequence(t)

	demixDef := obu.ParameterDefinition{
		Type:   obu.ParamTypeDemixing,
		Common: obu.CommonDef{ID: 9, Rate: 48000, Duration: 960, ConstantSubblockDuration: 960},
	}
	seq.AudioElements[0].Parameters = []obu.ParameterDefinition{demixDef}

	block := &obu.ParameterBlock{
		ParameterID:       9,
		DemixingSubblocks: []*obu.DemixingSubblock{{DmixpMode: 3}},
	}
	entry := ParameterBlockEntry{Definition: &demixDef, Block: block, Start: 0, End: 960}

	tu, err := AssembleTemporalUnit(0, 960, seq.TemporalUnits[0].AudioFrames, []ParameterBlockEntry{entry}, nil)
	if err != nil {
		t.Fatalf("AssembleTemporalUnit: %v", err)
	}
	seq.TemporalUnits = []*TemporalUnit{tu}

	w := bitio.NewWriter()
	if _, err := seq.Emit(w); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	// dmixp_mode 3 has WIdxOffset +1; starting from w_idx 0, w_idx advances
	// to 1, whose w value is 0.0179.
	got := tu.DemixingW[1]
	want := 0.0179
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got DemixingW[1] = %v, want %v", got, want)
	}
}

func TestWIdxStateAdvance(t *testing.T) {
	s := newWIdxState()
	w, err := s.Advance(1, 2)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if w == 0 {
		t.Error("expected nonzero w after advancing from idx 0 by 2")
	}
	w2, err := s.Advance(1, -100)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if w2 != 0 {
		t.Errorf("got w %v after clamping to 0, want 0", w2)
	}
}
