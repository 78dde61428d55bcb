/*
NAME
  codec_config.go

DESCRIPTION
  codec_config.go implements the Codec Config OBU: an id, a codec fourCC,
  the number of samples per frame, the required audio-roll-distance, and a
  tagged decoder-config payload dispatched by fourCC.

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
	"github.com/ausocean/iamf/obu/codecconfig"
)

// CodecConfig is the descriptor OBU binding a codec id to its decoder
// configuration and frame-size parameters.
type CodecConfig struct {
	ID                 uint32
	NumSamplesPerFrame uint32
	AudioRollDistance  int16
	Decoder            codecconfig.DecoderConfig
}

// Marshal validates c (including that AudioRollDistance matches the codec's
// required value) and writes its payload to w.
func (c *CodecConfig) Marshal(w *bitio.Writer) error {
	if c.NumSamplesPerFrame == 0 {
		return iamferr.New(iamferr.InvalidInput, "CodecConfig.Marshal", "num_samples_per_frame must be > 0")
	}
	if c.Decoder == nil {
		return iamferr.New(iamferr.InvalidInput, "CodecConfig.Marshal", "decoder config is nil")
	}
	want := c.Decoder.RequiredAudioRollDistance(c.NumSamplesPerFrame)
	if c.AudioRollDistance != want {
		return iamferr.New(iamferr.InvalidInput, "CodecConfig.Marshal", "audio_roll_distance %d, codec %s requires %d", c.AudioRollDistance, c.Decoder.FourCC(), want)
	}

	if err := w.WriteUleb128(c.ID); err != nil {
		return iamferr.Wrap(err, "CodecConfig.Marshal: codec_config_id")
	}
	fourCC := c.Decoder.FourCC()
	if err := w.WriteBytes(fourCC[:]); err != nil {
		return iamferr.Wrap(err, "CodecConfig.Marshal: codec_id")
	}
	if err := w.WriteUleb128(c.NumSamplesPerFrame); err != nil {
		return iamferr.Wrap(err, "CodecConfig.Marshal: num_samples_per_frame")
	}
	if err := w.WriteS(16, int64(c.AudioRollDistance)); err != nil {
		return iamferr.Wrap(err, "CodecConfig.Marshal: audio_roll_distance")
	}
	return c.Decoder.Marshal(w, c.NumSamplesPerFrame)
}

// WriteOBU writes the full OBU (header + payload) for c to w.
func (c *CodecConfig) WriteOBU(w *bitio.Writer) error {
	body := bitio.NewWriter()
	if err := c.Marshal(body); err != nil {
		return err
	}
	return WriteHeader(w, &Header{Type: TypeCodecConfig}, body.Bytes())
}

// ParseCodecConfig parses a Codec Config OBU's payload.
func ParseCodecConfig(payload []byte) (*CodecConfig, error) {
	r := bitio.NewReader(payload)

	id, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseCodecConfig: codec_config_id")
	}
	fourCCBytes, err := r.ReadBytes(4)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseCodecConfig: codec_id")
	}
	var fourCC codecconfig.FourCC
	copy(fourCC[:], fourCCBytes)

	numSamples, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseCodecConfig: num_samples_per_frame")
	}
	if numSamples == 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseCodecConfig", "num_samples_per_frame must be > 0")
	}
	roll, err := r.ReadS(16)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseCodecConfig: audio_roll_distance")
	}

	var dec codecconfig.DecoderConfig
	switch fourCC {
	case codecconfig.FourCCLPCM:
		dec, err = codecconfig.ParseLPCM(r)
	case codecconfig.FourCCOpus:
		dec, err = codecconfig.ParseOpus(r)
	case codecconfig.FourCCAAC:
		dec, err = codecconfig.ParseAAC(r)
	case codecconfig.FourCCFLAC:
		dec, err = codecconfig.ParseFLAC(r)
	default:
		return nil, iamferr.New(iamferr.Unsupported, "ParseCodecConfig", "unrecognized codec fourCC %q", fourCCBytes)
	}
	if err != nil {
		return nil, err
	}

	want := dec.RequiredAudioRollDistance(uint32(numSamples))
	if int16(roll) != want {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseCodecConfig", "audio_roll_distance %d, codec %s requires %d", roll, fourCC, want)
	}

	return &CodecConfig{ID: id, NumSamplesPerFrame: uint32(numSamples), AudioRollDistance: int16(roll), Decoder: dec}, nil
}
