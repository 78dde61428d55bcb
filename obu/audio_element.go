/*
NAME
  audio_element.go

DESCRIPTION
  audio_element.go implements the Audio Element descriptor OBU: a codec
  config reference, the substream ids it owns, zero or more parameter
  definitions, and a per-type config (channel-based scalable layers, or
  ambisonics mono/projection).

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
	"github.com/ausocean/iamf/bitio"
	"github.com/ausocean/iamf/iamferr"
	"github.com/ausocean/iamf/numeric"
)

// ElementType selects the Audio Element's per-type config shape.
type ElementType uint8

// Defined element types.
const (
	ElementTypeChannelBased ElementType = 0
	ElementTypeSceneBased   ElementType = 1
	// 2 and 3 are reserved.
)

// LoudspeakerLayout identifies a scalable-channel layer's canonical
// loudspeaker arrangement.
type LoudspeakerLayout uint8

// Defined loudspeaker layouts (4-bit on the wire).
const (
	LayoutMono LoudspeakerLayout = iota
	LayoutStereo
	Layout5_1
	Layout5_1_2
	Layout5_1_4
	Layout7_1
	Layout7_1_2
	Layout7_1_4
	LayoutBinaural
)

// ChannelLayer is one scalable-channel layout layer of a channel-based
// Audio Element.
type ChannelLayer struct {
	Layout                LoudspeakerLayout
	ReconGainIsPresent    bool
	CoupledSubstreamCount uint8
}

// AmbisonicsMode selects the ambisonics config shape.
type AmbisonicsMode uint8

// Defined ambisonics modes.
const (
	AmbisonicsModeMono AmbisonicsMode = iota
	AmbisonicsModeProjection
)

// AmbisonicsConfig is the per-type config for a scene-based Audio Element.
type AmbisonicsConfig struct {
	Mode AmbisonicsMode

	// ChannelMapping is used by AmbisonicsModeMono: one substream index per
	// ambisonics channel number (ACN order).
	ChannelMapping []uint8

	// DemixingMatrix is used by AmbisonicsModeProjection: a column-major
	// matrix of Q15-encoded int16 values, substream_count rows by
	// output_channel_count columns flattened in column-major order.
	DemixingMatrix     []int16
	SubstreamCount     uint8
	OutputChannelCount uint8
}

// AudioElement is the descriptor OBU binding a codec config to a set of
// substreams and their channel or ambisonics topology.
type AudioElement struct {
	ID            uint32
	Type          ElementType
	CodecConfigID uint32
	SubstreamIDs  []uint32
	Parameters    []ParameterDefinition

	// ChannelLayers is populated when Type == ElementTypeChannelBased.
	ChannelLayers []ChannelLayer

	// Ambisonics is populated when Type == ElementTypeSceneBased.
	Ambisonics AmbisonicsConfig
}

const maxChannelLayers = 6

// Marshal validates e and writes its payload to w.
func (e *AudioElement) Marshal(w *bitio.Writer) error {
	if err := numeric.ValidateUnique(e.SubstreamIDs, "AudioElement.SubstreamIDs"); err != nil {
		return err
	}

	if err := w.WriteUleb128(e.ID); err != nil {
		return iamferr.Wrap(err, "AudioElement.Marshal: audio_element_id")
	}
	if err := w.WriteU(3, uint64(e.Type)); err != nil {
		return err
	}
	const reserved = 0
	if err := w.WriteU(5, reserved); err != nil {
		return err
	}
	if err := w.WriteUleb128(e.CodecConfigID); err != nil {
		return iamferr.Wrap(err, "AudioElement.Marshal: codec_config_id")
	}
	if err := w.WriteUleb128(uint32(len(e.SubstreamIDs))); err != nil {
		return iamferr.Wrap(err, "AudioElement.Marshal: num_substreams")
	}
	for _, id := range e.SubstreamIDs {
		if err := w.WriteUleb128(id); err != nil {
			return iamferr.Wrap(err, "AudioElement.Marshal: substream_id")
		}
	}

	if err := w.WriteUleb128(uint32(len(e.Parameters))); err != nil {
		return iamferr.Wrap(err, "AudioElement.Marshal: num_parameters")
	}
	for i := range e.Parameters {
		if err := e.Parameters[i].Marshal(w); err != nil {
			return err
		}
	}

	switch e.Type {
	case ElementTypeChannelBased:
		return e.marshalChannelBased(w)
	case ElementTypeSceneBased:
		return e.marshalAmbisonics(w)
	default:
		return iamferr.New(iamferr.Unsupported, "AudioElement.Marshal", "reserved element type %d", e.Type)
	}
}

func (e *AudioElement) marshalChannelBased(w *bitio.Writer) error {
	if len(e.ChannelLayers) == 0 || len(e.ChannelLayers) > maxChannelLayers {
		return iamferr.New(iamferr.InvalidInput, "AudioElement.marshalChannelBased", "num_layers must be in [1,%d], got %d", maxChannelLayers, len(e.ChannelLayers))
	}
	if err := w.WriteUleb128(uint32(len(e.ChannelLayers))); err != nil {
		return iamferr.Wrap(err, "AudioElement.marshalChannelBased: num_layers")
	}
	for _, l := range e.ChannelLayers {
		if err := w.WriteU(4, uint64(l.Layout)); err != nil {
			return err
		}
		if err := w.WriteU(1, boolBit(l.ReconGainIsPresent)); err != nil {
			return err
		}
		const reserved = 0
		if err := w.WriteU(3, reserved); err != nil {
			return err
		}
		if err := w.WriteU(8, uint64(l.CoupledSubstreamCount)); err != nil {
			return err
		}
	}
	return nil
}

func (e *AudioElement) marshalAmbisonics(w *bitio.Writer) error {
	a := e.Ambisonics
	if err := w.WriteU(8, uint64(a.Mode)); err != nil {
		return err
	}
	switch a.Mode {
	case AmbisonicsModeMono:
		if err := w.WriteU(8, uint64(len(a.ChannelMapping))); err != nil {
			return err
		}
		for _, ch := range a.ChannelMapping {
			if err := w.WriteU(8, uint64(ch)); err != nil {
				return err
			}
		}
		return nil
	case AmbisonicsModeProjection:
		want := int(a.SubstreamCount) * int(a.OutputChannelCount)
		if len(a.DemixingMatrix) != want {
			return iamferr.New(iamferr.InvalidInput, "AudioElement.marshalAmbisonics", "demixing matrix has %d entries, want %d x %d = %d", len(a.DemixingMatrix), a.SubstreamCount, a.OutputChannelCount, want)
		}
		if err := w.WriteU(8, uint64(a.SubstreamCount)); err != nil {
			return err
		}
		if err := w.WriteU(8, uint64(a.OutputChannelCount)); err != nil {
			return err
		}
		for _, v := range a.DemixingMatrix {
			if err := w.WriteS(16, int64(v)); err != nil {
				return err
			}
		}
		return nil
	default:
		return iamferr.New(iamferr.Unsupported, "AudioElement.marshalAmbisonics", "unsupported ambisonics mode %d", a.Mode)
	}
}

// WriteOBU writes the full OBU (header + payload) for e to w.
func (e *AudioElement) WriteOBU(w *bitio.Writer) error {
	body := bitio.NewWriter()
	if err := e.Marshal(body); err != nil {
		return err
	}
	return WriteHeader(w, &Header{Type: TypeAudioElement}, body.Bytes())
}

// ParseAudioElement parses an Audio Element OBU's payload.
func ParseAudioElement(payload []byte) (*AudioElement, error) {
	r := bitio.NewReader(payload)

	id, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAudioElement: audio_element_id")
	}
	typ, err := r.ReadU(3)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAudioElement: element_type")
	}
	if _, err := r.ReadU(5); err != nil {
		return nil, iamferr.Wrap(err, "ParseAudioElement: reserved")
	}
	codecID, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAudioElement: codec_config_id")
	}
	numSubstreams, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAudioElement: num_substreams")
	}
	substreams := make([]uint32, numSubstreams)
	for i := range substreams {
		id, err := r.ReadUleb128()
		if err != nil {
			return nil, iamferr.Wrap(err, "ParseAudioElement: substream_id")
		}
		substreams[i] = id
	}
	if err := numeric.ValidateUnique(substreams, "AudioElement.SubstreamIDs"); err != nil {
		return nil, err
	}

	numParams, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAudioElement: num_parameters")
	}
	params := make([]ParameterDefinition, numParams)
	for i := range params {
		d, err := ParseParameterDefinition(r, 0)
		if err != nil {
			return nil, err
		}
		params[i] = *d
	}

	e := &AudioElement{
		ID: id, Type: ElementType(typ), CodecConfigID: codecID,
		SubstreamIDs: substreams, Parameters: params,
	}

	switch e.Type {
	case ElementTypeChannelBased:
		layers, err := parseChannelLayers(r)
		if err != nil {
			return nil, err
		}
		e.ChannelLayers = layers
	case ElementTypeSceneBased:
		amb, err := parseAmbisonicsConfig(r)
		if err != nil {
			return nil, err
		}
		e.Ambisonics = *amb
	default:
		return nil, iamferr.New(iamferr.Unsupported, "ParseAudioElement", "reserved element type %d", typ)
	}

	if r.BitsRemaining() != 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseAudioElement", "%d trailing bits after payload", r.BitsRemaining())
	}
	return e, nil
}

func parseChannelLayers(r *bitio.Reader) ([]ChannelLayer, error) {
	n, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "parseChannelLayers: num_layers")
	}
	if n == 0 || n > maxChannelLayers {
		return nil, iamferr.New(iamferr.InvalidInput, "parseChannelLayers", "num_layers must be in [1,%d], got %d", maxChannelLayers, n)
	}
	layers := make([]ChannelLayer, n)
	for i := range layers {
		layout, err := r.ReadU(4)
		if err != nil {
			return nil, iamferr.Wrap(err, "parseChannelLayers: loudspeaker_layout")
		}
		recon, err := r.ReadU(1)
		if err != nil {
			return nil, iamferr.Wrap(err, "parseChannelLayers: recon_gain_is_present_flag")
		}
		if _, err := r.ReadU(3); err != nil {
			return nil, iamferr.Wrap(err, "parseChannelLayers: reserved")
		}
		coupled, err := r.ReadU(8)
		if err != nil {
			return nil, iamferr.Wrap(err, "parseChannelLayers: coupled_substream_count")
		}
		layers[i] = ChannelLayer{
			Layout:                LoudspeakerLayout(layout),
			ReconGainIsPresent:    recon == 1,
			CoupledSubstreamCount: uint8(coupled),
		}
	}
	return layers, nil
}

func parseAmbisonicsConfig(r *bitio.Reader) (*AmbisonicsConfig, error) {
	mode, err := r.ReadU(8)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseAmbisonicsConfig: ambisonics_mode")
	}
	a := &AmbisonicsConfig{Mode: AmbisonicsMode(mode)}
	switch a.Mode {
	case AmbisonicsModeMono:
		n, err := r.ReadU(8)
		if err != nil {
			return nil, iamferr.Wrap(err, "parseAmbisonicsConfig: channel_count")
		}
		mapping := make([]uint8, n)
		for i := range mapping {
			v, err := r.ReadU(8)
			if err != nil {
				return nil, iamferr.Wrap(err, "parseAmbisonicsConfig: channel_mapping")
			}
			mapping[i] = uint8(v)
		}
		a.ChannelMapping = mapping
		return a, nil
	case AmbisonicsModeProjection:
		substreamCount, err := r.ReadU(8)
		if err != nil {
			return nil, iamferr.Wrap(err, "parseAmbisonicsConfig: substream_count")
		}
		outputCount, err := r.ReadU(8)
		if err != nil {
			return nil, iamferr.Wrap(err, "parseAmbisonicsConfig: output_channel_count")
		}
		a.SubstreamCount = uint8(substreamCount)
		a.OutputChannelCount = uint8(outputCount)
		matrix := make([]int16, int(substreamCount)*int(outputCount))
		for i := range matrix {
			v, err := r.ReadS(16)
			if err != nil {
				return nil, iamferr.Wrap(err, "parseAmbisonicsConfig: demixing_matrix")
			}
			matrix[i] = int16(v)
		}
		a.DemixingMatrix = matrix
		return a, nil
	default:
		return nil, iamferr.New(iamferr.Unsupported, "parseAmbisonicsConfig", "unsupported ambisonics mode %d", mode)
	}
}
