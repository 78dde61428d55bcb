/*
NAME
  types.go

DESCRIPTION
  types.go defines the 5-bit OBU type tag space and the fixed 12-channel
  recon-gain channel ordering shared across descriptor and parameter-block
  parsing.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package obu implements the IAMF Open Bitstream Unit types: headers,
// descriptor OBUs (IA Sequence Header, Codec Config, Audio Element, Mix
// Presentation), parameter definitions and blocks, and the Audio Frame /
// Temporal Delimiter / Arbitrary OBU family, each with bit-exact
// serialization and parsing per the IAMF bitstream format.
package obu

// Type identifies an OBU's 5-bit type tag.
type Type uint8

// OBU type tag values, per the IAMF bitstream format.
const (
	TypeCodecConfig      Type = 0
	TypeAudioElement     Type = 1
	TypeMixPresentation  Type = 2
	TypeParameterBlock   Type = 3
	TypeTemporalDelimiter Type = 4
	TypeAudioFrame       Type = 5
	// TypeAudioFrameID0 through TypeAudioFrameID17 (values 6..23) encode the
	// substream id implicitly in the OBU type itself; see
	// AudioFrameTypeForSubstreamID and SubstreamIDForAudioFrameType.
	TypeAudioFrameID0  Type = 6
	TypeAudioFrameID17 Type = 23
	// Types 24..30 are reserved; a reader preserves them as Arbitrary OBUs.
	TypeReservedStart  Type = 24
	TypeReservedEnd    Type = 30
	TypeIASequenceHeader Type = 31
)

// String names an OBU type for diagnostics.
func (t Type) String() string {
	switch {
	case t == TypeCodecConfig:
		return "codec_config"
	case t == TypeAudioElement:
		return "audio_element"
	case t == TypeMixPresentation:
		return "mix_presentation"
	case t == TypeParameterBlock:
		return "parameter_block"
	case t == TypeTemporalDelimiter:
		return "temporal_delimiter"
	case t == TypeAudioFrame:
		return "audio_frame"
	case t >= TypeAudioFrameID0 && t <= TypeAudioFrameID17:
		return "audio_frame_compact"
	case t >= TypeReservedStart && t <= TypeReservedEnd:
		return "reserved"
	case t == TypeIASequenceHeader:
		return "ia_sequence_header"
	default:
		return "unknown"
	}
}

// IsAudioFrame reports whether t is any of the audio-frame OBU type values,
// compact or explicit.
func (t Type) IsAudioFrame() bool {
	return t == TypeAudioFrame || (t >= TypeAudioFrameID0 && t <= TypeAudioFrameID17)
}

// IsReserved reports whether t falls in the reserved [24,30] range.
func (t Type) IsReserved() bool {
	return t >= TypeReservedStart && t <= TypeReservedEnd
}

// AudioFrameTypeForSubstreamID returns the compact OBU type encoding
// substream id directly, when id is in [0,17], and ok == true. Otherwise ok
// is false and the caller must use TypeAudioFrame with an explicit leading
// substream id field.
func AudioFrameTypeForSubstreamID(id uint32) (t Type, ok bool) {
	if id > 17 {
		return 0, false
	}
	return TypeAudioFrameID0 + Type(id), true
}

// SubstreamIDForAudioFrameType returns the substream id implied by a compact
// audio-frame OBU type.
func SubstreamIDForAudioFrameType(t Type) (id uint32, ok bool) {
	if t < TypeAudioFrameID0 || t > TypeAudioFrameID17 {
		return 0, false
	}
	return uint32(t - TypeAudioFrameID0), true
}

// ChannelLabel names one of the 12 canonical IAMF loudspeaker channels used
// by recon-gain bitmasks, in their fixed wire order.
type ChannelLabel uint8

// The 12 canonical recon-gain channels, in fixed bitmask order (bit 0 first).
const (
	ChannelL ChannelLabel = iota
	ChannelC
	ChannelR
	ChannelLss
	ChannelRss
	ChannelLtf
	ChannelRtf
	ChannelLrs
	ChannelRrs
	ChannelLtb
	ChannelRtb
	ChannelLFE
	numChannelLabels
)

// channelLabelNames backs ChannelLabel.String(); index order matches the
// bitmask order above.
var channelLabelNames = [numChannelLabels]string{
	"L", "C", "R", "Lss", "Rss", "Ltf", "Rtf", "Lrs", "Rrs", "Ltb", "Rtb", "LFE",
}

// String returns the channel's canonical short name, e.g. "Lss".
func (c ChannelLabel) String() string {
	if int(c) >= len(channelLabelNames) {
		return "unknown"
	}
	return channelLabelNames[c]
}

// NumChannelLabels is the number of canonical recon-gain channels (12).
const NumChannelLabels = int(numChannelLabels)
