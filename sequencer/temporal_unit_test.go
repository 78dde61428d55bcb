/*
DESCRIPTION
  temporal_unit_test.go provides testing for temporal_unit.go.

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
	"testing"

	"github.com/ausocean/iamf/obu"
)

func frameEntry(elementID, substreamID uint32) AudioFrameEntry {
	return AudioFrameEntry{
		AudioElementID: elementID,
		Frame:          &obu.AudioFrame{SubstreamID: substreamID},
	}
}

func paramEntry(id uint32) ParameterBlockEntry {
	return ParameterBlockEntry{Block: &obu.ParameterBlock{ParameterID: id}, Start: 0, End: 960}
}

// TestAssembleTemporalUnitCanonicalOrder verifies the literal ordering
// scenario: an unordered input of audio_frames = [(elem=2, ss=5), (elem=1,
// ss=9), (elem=1, ss=3)] and parameter_blocks = [(pid=7), (pid=3), (pid=5)]
// must emit parameter ids (3, 5, 7) followed by frames ((1,3), (1,9), (2,5)).
func TestAssembleTemporalUnitCanonicalOrder(t *testing.T) {
	audioFrames := []AudioFrameEntry{
		frameEntry(2, 5),
		frameEntry(1, 9),
		frameEntry(1, 3),
	}
	parameterBlocks := []ParameterBlockEntry{
		paramEntry(7),
		paramEntry(3),
		paramEntry(5),
	}

	tu, err := AssembleTemporalUnit(0, 960, audioFrames, parameterBlocks, nil)
	if err != nil {
		t.Fatalf("AssembleTemporalUnit: %v", err)
	}

	wantParamOrder := []uint32{3, 5, 7}
	for i, p := range tu.ParameterBlocks {
		if p.Block.ParameterID != wantParamOrder[i] {
			t.Errorf("parameter block %d: got id %d, want %d", i, p.Block.ParameterID, wantParamOrder[i])
		}
	}

	type pair struct{ element, substream uint32 }
	wantFrameOrder := []pair{{1, 3}, {1, 9}, {2, 5}}
	for i, f := range tu.AudioFrames {
		got := pair{f.AudioElementID, f.Frame.SubstreamID}
		if got != wantFrameOrder[i] {
			t.Errorf("audio frame %d: got %+v, want %+v", i, got, wantFrameOrder[i])
		}
	}
}

func TestAssembleTemporalUnitComputesStatsFromFirstFrame(t *testing.T) {
	audioFrames := []AudioFrameEntry{
		{AudioElementID: 1, Frame: &obu.AudioFrame{SubstreamID: 1}, TrimAtStart: 10, TrimAtEnd: 20},
	}
	tu, err := AssembleTemporalUnit(100, 1060, audioFrames, nil, nil)
	if err != nil {
		t.Fatalf("AssembleTemporalUnit: %v", err)
	}
	if tu.NumSamplesPerFrame != 960 {
		t.Errorf("got NumSamplesPerFrame %d, want 960", tu.NumSamplesPerFrame)
	}
	if tu.TrimAtStart != 10 || tu.TrimAtEnd != 20 {
		t.Errorf("got trim (%d,%d), want (10,20)", tu.TrimAtStart, tu.TrimAtEnd)
	}
}

func TestAssembleTemporalUnitRejectsZeroAudioFrames(t *testing.T) {
	if _, err := AssembleTemporalUnit(0, 960, nil, nil, nil); err == nil {
		t.Fatal("expected error for a temporal unit with no audio frames")
	}
}

func TestAssembleTemporalUnitRejectsStartAfterEnd(t *testing.T) {
	audioFrames := []AudioFrameEntry{frameEntry(1, 1)}
	if _, err := AssembleTemporalUnit(100, 50, audioFrames, nil, nil); err == nil {
		t.Fatal("expected error for start > end")
	}
}

func TestAssembleTemporalUnitRejectsDuplicateSubstreamID(t *testing.T) {
	audioFrames := []AudioFrameEntry{frameEntry(1, 1), frameEntry(2, 1)}
	if _, err := AssembleTemporalUnit(0, 960, audioFrames, nil, nil); err == nil {
		t.Fatal("expected error for duplicate substream id")
	}
}

func TestAssembleTemporalUnitRejectsMismatchedTrim(t *testing.T) {
	audioFrames := []AudioFrameEntry{
		{AudioElementID: 1, Frame: &obu.AudioFrame{SubstreamID: 1}, TrimAtStart: 0, TrimAtEnd: 0},
		{AudioElementID: 1, Frame: &obu.AudioFrame{SubstreamID: 2}, TrimAtStart: 5, TrimAtEnd: 0},
	}
	if _, err := AssembleTemporalUnit(0, 960, audioFrames, nil, nil); err == nil {
		t.Fatal("expected error for mismatched trim across frames")
	}
}

func TestAssembleTemporalUnitRejectsDuplicateParameterID(t *testing.T) {
	audioFrames := []AudioFrameEntry{frameEntry(1, 1)}
	parameterBlocks := []ParameterBlockEntry{paramEntry(5), paramEntry(5)}
	if _, err := AssembleTemporalUnit(0, 960, audioFrames, parameterBlocks, nil); err == nil {
		t.Fatal("expected error for duplicate parameter id")
	}
}

func TestAssembleTemporalUnitRejectsMismatchedParameterSpan(t *testing.T) {
	audioFrames := []AudioFrameEntry{frameEntry(1, 1)}
	parameterBlocks := []ParameterBlockEntry{
		{Block: &obu.ParameterBlock{ParameterID: 1}, Start: 0, End: 480},
	}
	if _, err := AssembleTemporalUnit(0, 960, audioFrames, parameterBlocks, nil); err == nil {
		t.Fatal("expected error for parameter block span not covering the full TU span")
	}
}

func TestAssembleTemporalUnitRejectsMistickedArbitraryOBU(t *testing.T) {
	audioFrames := []AudioFrameEntry{frameEntry(1, 1)}
	a, err := obu.NewArbitraryOBU(obu.AfterAudioFramesAtTick, 1, nil)
	if err != nil {
		t.Fatalf("NewArbitraryOBU: %v", err)
	}
	if _, err := AssembleTemporalUnit(0, 960, audioFrames, nil, []*obu.ArbitraryOBU{a}); err == nil {
		t.Fatal("expected error for arbitrary OBU tick mismatched with TU start")
	}
}

func TestAssembleTemporalUnitAcceptsMatchingTickArbitraryOBU(t *testing.T) {
	audioFrames := []AudioFrameEntry{frameEntry(1, 1)}
	a, err := obu.NewArbitraryOBU(obu.AfterAudioFramesAtTick, 100, nil)
	if err != nil {
		t.Fatalf("NewArbitraryOBU: %v", err)
	}
	tu, err := AssembleTemporalUnit(100, 1060, audioFrames, nil, []*obu.ArbitraryOBU{a})
	if err != nil {
		t.Fatalf("AssembleTemporalUnit: %v", err)
	}
	if len(tu.ArbitraryOBUs) != 1 {
		t.Fatalf("got %d arbitrary OBUs, want 1", len(tu.ArbitraryOBUs))
	}
}
