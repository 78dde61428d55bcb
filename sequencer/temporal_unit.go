/*
NAME
  temporal_unit.go

DESCRIPTION
  temporal_unit.go implements temporal-unit assembly: grouping an unordered
  set of audio frames, parameter blocks, and arbitrary OBUs sharing one
  [start, end) span into a TemporalUnit, validating the cross-OBU
  invariants spec.md §4.I requires of it, and sorting its contents into
  canonical emission order.

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
	"sort"

	"github.com/ausocean/iamf/iamferr"
	"github.com/ausocean/iamf/obu"
)

// AudioFrameEntry is one audio frame contributed to a TemporalUnit, with
// the audio-element id it belongs to (needed for canonical sort order,
// since the wire frame itself only carries a substream id) and the
// trimming fields from its OBU header.
type AudioFrameEntry struct {
	AudioElementID uint32
	Frame          *obu.AudioFrame
	TrimAtStart    uint32
	TrimAtEnd      uint32
}

// ParameterBlockEntry is one parameter block contributed to a
// TemporalUnit, paired with the definition that governs its wire shape.
// Start and End are the parameter block's own [start, end) span, which
// spec.md §4.I requires to exactly cover the owning temporal unit's span.
type ParameterBlockEntry struct {
	Definition      *obu.ParameterDefinition
	Block           *obu.ParameterBlock
	ReconGainLayers func() int
	Start, End      uint32
}

// TemporalUnit is the fully assembled, validated, canonically ordered
// contents of one [Start, End) span of the presentation timeline.
type TemporalUnit struct {
	Start, End         uint32
	NumSamplesPerFrame uint32
	TrimAtStart        uint32
	TrimAtEnd          uint32

	AudioFrames     []AudioFrameEntry
	ParameterBlocks []ParameterBlockEntry
	ArbitraryOBUs   []*obu.ArbitraryOBU // AfterAudioFramesAtTick OBUs for this tick.

	// DemixingW holds the resolved channel-based demixing w value per audio
	// element id for this unit, populated by Sequence.Emit from each demixing
	// parameter block's dmixp_mode and the owning audio element's running
	// w_idx state. Empty until Emit runs.
	DemixingW map[uint32]float64
}

// AssembleTemporalUnit validates and canonically orders an unordered set
// of audio frames, parameter blocks, and arbitrary OBUs for one temporal
// unit, per spec.md §4.I steps 1-3. The unit's num-samples-per-frame is
// end - start. The first entry of audioFrames establishes the unit's trim
// statistics; every other frame must match them exactly.
func AssembleTemporalUnit(start, end uint32, audioFrames []AudioFrameEntry, parameterBlocks []ParameterBlockEntry, arbitraryOBUs []*obu.ArbitraryOBU) (*TemporalUnit, error) {
	if start > end {
		return nil, iamferr.New(iamferr.InvalidInput, "AssembleTemporalUnit", "start %d > end %d", start, end)
	}
	if len(audioFrames) == 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "AssembleTemporalUnit", "a temporal unit missing an audio frame is fatal")
	}

	numSamplesPerFrame := end - start
	trimAtStart := audioFrames[0].TrimAtStart
	trimAtEnd := audioFrames[0].TrimAtEnd

	seenSubstreams := map[uint32]bool{}
	for _, f := range audioFrames {
		if seenSubstreams[f.Frame.SubstreamID] {
			return nil, iamferr.New(iamferr.InvalidInput, "AssembleTemporalUnit", "duplicate substream id %d", f.Frame.SubstreamID)
		}
		seenSubstreams[f.Frame.SubstreamID] = true
		if f.TrimAtStart != trimAtStart || f.TrimAtEnd != trimAtEnd {
			return nil, iamferr.New(iamferr.InvalidInput, "AssembleTemporalUnit", "audio frame for substream %d has mismatched trim", f.Frame.SubstreamID)
		}
	}

	seenParams := map[uint32]bool{}
	for _, p := range parameterBlocks {
		if seenParams[p.Block.ParameterID] {
			return nil, iamferr.New(iamferr.InvalidInput, "AssembleTemporalUnit", "duplicate parameter id %d", p.Block.ParameterID)
		}
		seenParams[p.Block.ParameterID] = true
		if p.Start != start || p.End != end {
			return nil, iamferr.New(iamferr.InvalidInput, "AssembleTemporalUnit", "parameter block %d spans [%d,%d), want [%d,%d)", p.Block.ParameterID, p.Start, p.End, start, end)
		}
	}

	for _, a := range arbitraryOBUs {
		if a.Hook == obu.AfterAudioFramesAtTick && a.Tick != uint64(start) {
			return nil, iamferr.New(iamferr.InvalidInput, "AssembleTemporalUnit", "arbitrary OBU insertion_tick %d does not match TU start %d", a.Tick, start)
		}
	}

	tu := &TemporalUnit{
		Start: start, End: end, NumSamplesPerFrame: numSamplesPerFrame,
		TrimAtStart:     trimAtStart,
		TrimAtEnd:       trimAtEnd,
		AudioFrames:     append([]AudioFrameEntry(nil), audioFrames...),
		ParameterBlocks: append([]ParameterBlockEntry(nil), parameterBlocks...),
		ArbitraryOBUs:   append([]*obu.ArbitraryOBU(nil), arbitraryOBUs...),
	}
	tu.sort()
	return tu, nil
}

// sort orders parameter blocks ascending by parameter id and audio frames
// ascending by (audio_element_id, substream_id), per spec.md §4.I step 3
// and the literal ordering scenario in spec.md §8.
func (tu *TemporalUnit) sort() {
	sort.Slice(tu.ParameterBlocks, func(i, j int) bool {
		return tu.ParameterBlocks[i].Block.ParameterID < tu.ParameterBlocks[j].Block.ParameterID
	})
	sort.Slice(tu.AudioFrames, func(i, j int) bool {
		a, b := tu.AudioFrames[i], tu.AudioFrames[j]
		if a.AudioElementID != b.AudioElementID {
			return a.AudioElementID < b.AudioElementID
		}
		return a.Frame.SubstreamID < b.Frame.SubstreamID
	})
}
