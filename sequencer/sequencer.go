/*
NAME
  sequencer.go

DESCRIPTION
  sequencer.go implements the top-level OBU emission driver: the fixed
  six-step emission order from spec.md §4.I, the per-audio-element w_idx
  running-state ownership used by channel-based demixing, and the
  net-samples diagnostic counter.

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

	"github.com/ausocean/iamf/bitio"
	"github.com/ausocean/iamf/iamferr"
	"github.com/ausocean/iamf/obu"
	"github.com/ausocean/utils/logging"
)

// Log is the package-level logger used for sequencer diagnostics. Callers
// may assign their own implementation of logging.Logger before using this
// package; the zero value performs no logging.
var Log logging.Logger

// Sequence is the full descriptor set plus the ordered temporal units of
// one IAMF stream, ready for emission.
type Sequence struct {
	Header                 *obu.IASequenceHeader
	CodecConfigs           []*obu.CodecConfig
	AudioElements          []*obu.AudioElement
	MixPresentations       []*obu.MixPresentation
	TemporalUnits          []*TemporalUnit
	EmitTemporalDelimiters bool

	// BeforeDescriptors, AfterIaSequenceHeader, and AfterDescriptors are
	// emitted at their respective fixed points, in input order.
	BeforeDescriptors     []*obu.ArbitraryOBU
	AfterIaSequenceHeader []*obu.ArbitraryOBU
	AfterDescriptors      []*obu.ArbitraryOBU
}

// wIdxState owns the running w_idx value for one audio element's
// channel-based demixing, per spec.md §4.G/§9: the running state is
// process-wide-state-rule compliant only because the sequencer, not a
// package-level variable, owns and threads it explicitly.
type wIdxState struct {
	byAudioElement map[uint32]int
}

func newWIdxState() *wIdxState {
	return &wIdxState{byAudioElement: map[uint32]int{}}
}

// Advance moves audioElementID's running w_idx by offset and returns the
// resulting w value.
func (s *wIdxState) Advance(audioElementID uint32, offset int) (float64, error) {
	next := obu.NextWIdx(s.byAudioElement[audioElementID], offset)
	s.byAudioElement[audioElementID] = next
	return obu.WFromIdx(next)
}

// Emit writes the full sequence to w in the fixed order from spec.md
// §4.I: BeforeDescriptors, IA Sequence Header, AfterIaSequenceHeader,
// Codec Configs/Audio Elements/Mix Presentations ascending by id,
// AfterDescriptors, then each temporal unit in ascending start order. Along
// the way, each demixing parameter block advances its owning audio
// element's running w_idx state and the resolved w value is recorded on the
// unit's DemixingW. Emit returns the net sample count (sum of each unit's
// untrimmed samples, less its start/end trim) for diagnostics.
func (s *Sequence) Emit(w *bitio.Writer) (netSamples uint64, err error) {
	for _, a := range s.BeforeDescriptors {
		if err := a.WriteOBU(w); err != nil {
			return 0, err
		}
	}

	if s.Header == nil {
		return 0, iamferr.New(iamferr.InvalidInput, "Sequence.Emit", "IA Sequence Header is required")
	}
	if err := s.Header.WriteOBU(w); err != nil {
		return 0, err
	}
	for _, a := range s.AfterIaSequenceHeader {
		if err := a.WriteOBU(w); err != nil {
			return 0, err
		}
	}

	codecConfigs := append([]*obu.CodecConfig(nil), s.CodecConfigs...)
	sort.Slice(codecConfigs, func(i, j int) bool { return codecConfigs[i].ID < codecConfigs[j].ID })
	for _, c := range codecConfigs {
		if err := c.WriteOBU(w); err != nil {
			return 0, err
		}
	}

	audioElements := append([]*obu.AudioElement(nil), s.AudioElements...)
	sort.Slice(audioElements, func(i, j int) bool { return audioElements[i].ID < audioElements[j].ID })
	for _, e := range audioElements {
		if err := e.WriteOBU(w); err != nil {
			return 0, err
		}
	}

	mixPresentations := append([]*obu.MixPresentation(nil), s.MixPresentations...)
	sort.Slice(mixPresentations, func(i, j int) bool { return mixPresentations[i].ID < mixPresentations[j].ID })
	for _, m := range mixPresentations {
		if err := m.WriteOBU(w); err != nil {
			return 0, err
		}
	}

	for _, a := range s.AfterDescriptors {
		if err := a.WriteOBU(w); err != nil {
			return 0, err
		}
	}

	demixParamOwner := demixingParameterOwners(s.AudioElements)
	wState := newWIdxState()

	units := append([]*TemporalUnit(nil), s.TemporalUnits...)
	sort.Slice(units, func(i, j int) bool { return units[i].Start < units[j].Start })

	for _, tu := range units {
		if s.EmitTemporalDelimiters {
			if err := (obu.TemporalDelimiter{}).WriteOBU(w); err != nil {
				return 0, err
			}
		}
		tu.DemixingW = map[uint32]float64{}
		for _, p := range tu.ParameterBlocks {
			if err := p.Block.WriteOBU(w, p.Definition, p.ReconGainLayers); err != nil {
				return 0, err
			}
			if p.Definition.Type != obu.ParamTypeDemixing {
				continue
			}
			owner, ok := demixParamOwner[p.Block.ParameterID]
			if !ok {
				return 0, iamferr.New(iamferr.InvalidInput, "Sequence.Emit", "demixing parameter %d is not bound to any audio element", p.Block.ParameterID)
			}
			for _, sub := range p.Block.DemixingSubblocks {
				params, err := obu.DownmixParamsFor(sub.DmixpMode)
				if err != nil {
					return 0, err
				}
				wVal, err := wState.Advance(owner, params.WIdxOffset)
				if err != nil {
					return 0, err
				}
				tu.DemixingW[owner] = wVal
			}
		}
		for _, f := range tu.AudioFrames {
			if err := f.Frame.WriteOBU(w); err != nil {
				return 0, err
			}
		}
		untrimmed := tu.NumSamplesPerFrame
		trimmed := tu.TrimAtStart + tu.TrimAtEnd
		if trimmed < untrimmed {
			netSamples += uint64(untrimmed - trimmed)
		}
		for _, a := range tu.ArbitraryOBUs {
			if err := a.WriteOBU(w); err != nil {
				return 0, err
			}
		}
	}

	return netSamples, nil
}

// demixingParameterOwners maps each ParamTypeDemixing parameter id to the
// audio element that declares it, so Emit can resolve which audio
// element's running w_idx state a given demixing parameter block advances.
func demixingParameterOwners(audioElements []*obu.AudioElement) map[uint32]uint32 {
	owners := map[uint32]uint32{}
	for _, ae := range audioElements {
		for _, def := range ae.Parameters {
			if def.Type == obu.ParamTypeDemixing {
				owners[def.Common.ID] = ae.ID
			}
		}
	}
	return owners
}
