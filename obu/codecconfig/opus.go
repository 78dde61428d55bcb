/*
NAME
  opus.go

DESCRIPTION
  opus.go implements the Opus decoder-config payload, mirroring the fields
  of an Ogg Opus identification header minus its magic signature.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codecconfig

import (
	"github.com/ausocean/iamf/bitio"
	"github.com/ausocean/iamf/iamferr"
)

// Opus is the decoder-config payload for Opus substreams. OutputChannelCount
// is always written as 2 on the wire; the audio element, not this struct,
// carries the actual channel count.
type Opus struct {
	Version         uint8
	PreSkip         uint16
	InputSampleRate uint32
}

// opusRollDistancePeriod is the constant in the required audio-roll-distance
// formula −⌈3840 / samples_per_frame⌉.
const opusRollDistancePeriod = 3840

// FourCC returns the Opus fourCC, "Opus".
func (o *Opus) FourCC() FourCC { return FourCCOpus }

// RequiredAudioRollDistance returns −⌈3840 / samplesPerFrame⌉.
func (o *Opus) RequiredAudioRollDistance(samplesPerFrame uint32) int16 {
	if samplesPerFrame == 0 {
		return 0
	}
	ceilDiv := (opusRollDistancePeriod + int(samplesPerFrame) - 1) / int(samplesPerFrame)
	return int16(-ceilDiv)
}

// Marshal validates o and writes its wire payload to w.
func (o *Opus) Marshal(w *bitio.Writer, samplesPerFrame uint32) error {
	if o.Version == 0 {
		return iamferr.New(iamferr.InvalidInput, "Opus.Marshal", "version must be nonzero")
	}
	if o.Version>>4 != 0 {
		return iamferr.New(iamferr.InvalidInput, "Opus.Marshal", "version upper nibble must be 0, got %#x", o.Version)
	}

	if err := w.WriteU(8, uint64(o.Version)); err != nil {
		return iamferr.Wrap(err, "Opus.Marshal: version")
	}
	const outputChannelCount = 2
	if err := w.WriteU(8, outputChannelCount); err != nil {
		return iamferr.Wrap(err, "Opus.Marshal: output_channel_count")
	}
	if err := w.WriteU(16, uint64(o.PreSkip)); err != nil {
		return iamferr.Wrap(err, "Opus.Marshal: pre_skip")
	}
	if err := w.WriteU(32, uint64(o.InputSampleRate)); err != nil {
		return iamferr.Wrap(err, "Opus.Marshal: input_sample_rate")
	}
	const outputGain = 0
	if err := w.WriteS(16, outputGain); err != nil {
		return iamferr.Wrap(err, "Opus.Marshal: output_gain")
	}
	const mappingFamily = 0
	if err := w.WriteU(8, mappingFamily); err != nil {
		return iamferr.Wrap(err, "Opus.Marshal: mapping_family")
	}
	return nil
}

// ParseOpus parses an Opus decoder-config payload from r.
func ParseOpus(r *bitio.Reader) (*Opus, error) {
	version, err := r.ReadU(8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseOpus: version")
	}
	if _, err := r.ReadU(8); err != nil { // output_channel_count, unused.
		return nil, iamferr.Wrap(err, "ParseOpus: output_channel_count")
	}
	preSkip, err := r.ReadU(16)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseOpus: pre_skip")
	}
	rate, err := r.ReadU(32)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseOpus: input_sample_rate")
	}
	gain, err := r.ReadS(16)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseOpus: output_gain")
	}
	if gain != 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseOpus", "output_gain must be 0, got %d", gain)
	}
	mapping, err := r.ReadU(8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseOpus: mapping_family")
	}
	if mapping != 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseOpus", "mapping_family must be 0, got %d", mapping)
	}

	if version == 0 || version>>4 != 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseOpus", "invalid version byte %#x", version)
	}

	return &Opus{Version: uint8(version), PreSkip: uint16(preSkip), InputSampleRate: uint32(rate)}, nil
}
