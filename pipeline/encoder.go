/*
NAME
  encoder.go

DESCRIPTION
  encoder.go implements Encoder: the top-level orchestration that drives
  per-substream AudioCodec delegates over a run of PCM input and hands the
  resulting temporal units to sequencer.Sequence for ordered OBU emission.
  It does not trim encoder delay: RequiredSamplesToDelayAtStart is not
  consulted, and the audio frame entries it creates carry zero trim counts.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"fmt"

	"github.com/ausocean/iamf/bitio"
	"github.com/ausocean/iamf/iamferr"
	"github.com/ausocean/iamf/obu"
	"github.com/ausocean/iamf/sequencer"
	"github.com/ausocean/utils/logging"
)

// substreamCodec binds a substream id (and the audio element it belongs to)
// to its codec delegate.
type substreamCodec struct {
	audioElementID uint32
	codec          AudioCodec
}

// Encoder drives the descriptor set and a run of PCM input through its
// per-substream AudioCodec delegates, producing a sequencer.Sequence ready
// for Emit. Samples are supplied one temporal unit at a time via
// EncodeFrame; Finalize closes every codec delegate and writes the
// resulting sequence.
type Encoder struct {
	Log logging.Logger

	cfg *Config

	header           *obu.IASequenceHeader
	codecConfigs     []*obu.CodecConfig
	audioElements    []*obu.AudioElement
	mixPresentations []*obu.MixPresentation

	codecs map[uint32]*substreamCodec // substream id -> delegate.

	units []*sequencer.TemporalUnit

	tick uint64 // running sample position, advanced once per temporal unit.
}

// NewEncoder returns an Encoder configured by cfg, emitting the given
// descriptor OBUs. codecs maps substream id to the AudioCodec delegate and
// audio element id responsible for encoding it; every substream id named
// by an entry of audioElements must have a corresponding codecs entry.
func NewEncoder(cfg *Config, codecConfigs []*obu.CodecConfig, audioElements []*obu.AudioElement, mixPresentations []*obu.MixPresentation, codecs map[uint32]AudioCodec) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bound := map[uint32]*substreamCodec{}
	for _, ae := range audioElements {
		for _, ssID := range ae.SubstreamIDs {
			c, ok := codecs[ssID]
			if !ok {
				return nil, iamferr.New(iamferr.InvalidInput, "NewEncoder", "no codec delegate for substream %d", ssID)
			}
			bound[ssID] = &substreamCodec{audioElementID: ae.ID, codec: c}
		}
	}

	log := NewDefaultLogger(cfg)

	return &Encoder{
		Log:              log,
		cfg:              cfg,
		header:           &obu.IASequenceHeader{PrimaryProfile: cfg.PrimaryProfile, AdditionalProfile: cfg.AdditionalProfile},
		codecConfigs:     codecConfigs,
		audioElements:    audioElements,
		mixPresentations: mixPresentations,
		codecs:           bound,
	}, nil
}

// EncodeFrame encodes one temporal unit's worth of samples for substreamID
// at bitDepth and appends the resulting audio frame entry to *pending. The
// caller is responsible for grouping substreams belonging to the same
// [start, end) span into consecutive EncodeFrame calls followed by one
// EndTemporalUnit call.
func (e *Encoder) EncodeFrame(substreamID uint32, samples [][]int32, bitDepth int, pending *[]sequencer.AudioFrameEntry) error {
	sc, ok := e.codecs[substreamID]
	if !ok {
		return iamferr.New(iamferr.InvalidInput, "Encoder.EncodeFrame", "no codec delegate for substream %d", substreamID)
	}
	payload, err := sc.codec.EncodeFrame(samples, bitDepth)
	if err != nil {
		return iamferr.Wrap(err, "Encoder.EncodeFrame")
	}
	*pending = append(*pending, sequencer.AudioFrameEntry{
		AudioElementID: sc.audioElementID,
		Frame:          &obu.AudioFrame{SubstreamID: substreamID, Payload: payload},
	})
	if e.Log != nil {
		e.Log.Debug("encoded audio frame", "substream_id", substreamID, "bytes", len(payload))
	}
	return nil
}

// EndTemporalUnit assembles and appends one temporal unit spanning
// [e.tick, e.tick+numSamples) from the given pending frames and parameter
// blocks, advancing the running tick.
func (e *Encoder) EndTemporalUnit(numSamples uint32, frames []sequencer.AudioFrameEntry, params []sequencer.ParameterBlockEntry, arbitrary []*obu.ArbitraryOBU) error {
	start := uint32(e.tick)
	end := start + numSamples
	for i := range params {
		params[i].Start = start
		params[i].End = end
	}
	tu, err := sequencer.AssembleTemporalUnit(start, end, frames, params, arbitrary)
	if err != nil {
		return err
	}
	e.units = append(e.units, tu)
	e.tick += uint64(numSamples)
	return nil
}

// Finalize closes every codec delegate and writes the full sequence
// (descriptors then temporal units) to w, returning the net sample count.
func (e *Encoder) Finalize(w *bitio.Writer, beforeDescriptors, afterIaSequenceHeader, afterDescriptors []*obu.ArbitraryOBU) (uint64, error) {
	for id, sc := range e.codecs {
		if err := sc.codec.Finalize(); err != nil {
			return 0, iamferr.Wrap(err, fmt.Sprintf("Encoder.Finalize: substream %d", id))
		}
	}

	seq := &sequencer.Sequence{
		Header:                 e.header,
		CodecConfigs:           e.codecConfigs,
		AudioElements:          e.audioElements,
		MixPresentations:       e.mixPresentations,
		TemporalUnits:          e.units,
		EmitTemporalDelimiters: e.cfg.EmitTemporalDelimiters,
		BeforeDescriptors:      beforeDescriptors,
		AfterIaSequenceHeader:  afterIaSequenceHeader,
		AfterDescriptors:       afterDescriptors,
	}
	return seq.Emit(w)
}
