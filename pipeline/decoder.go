/*
NAME
  decoder.go

DESCRIPTION
  decoder.go implements Decoder: reads a descriptor set followed by a run
  of temporal units from an IAMF OBU stream, dispatching each Audio Frame
  OBU to the AudioCodec delegate bound to its substream and returning
  decoded [time][channel] samples in emission order.

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
	"github.com/ausocean/iamf/bitio"
	"github.com/ausocean/iamf/iamferr"
	"github.com/ausocean/iamf/obu"
	"github.com/ausocean/utils/logging"
)

// DecodedFrame is one substream's decoded samples for one temporal unit.
type DecodedFrame struct {
	SubstreamID uint32
	Samples     [][]int32
}

// Decoder reads an IAMF OBU stream and decodes its audio frames through
// per-substream AudioCodec delegates.
type Decoder struct {
	Log logging.Logger

	cfg    *Config
	codecs map[uint32]AudioCodec

	Header           *obu.IASequenceHeader
	CodecConfigs     []*obu.CodecConfig
	AudioElements    []*obu.AudioElement
	MixPresentations []*obu.MixPresentation
}

// NewDecoder returns a Decoder that dispatches Audio Frame OBUs to codecs
// by substream id.
func NewDecoder(cfg *Config, codecs map[uint32]AudioCodec) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{Log: NewDefaultLogger(cfg), cfg: cfg, codecs: codecs}, nil
}

// ReadDescriptors consumes the leading descriptor OBUs (IA Sequence
// Header, then any mix of Codec Config/Audio Element/Mix Presentation/
// Arbitrary OBUs) from r until the first Temporal Delimiter or Audio
// Frame/Parameter Block OBU is encountered, which is returned unconsumed
// as the first element of a one-OBU lookahead.
func (d *Decoder) ReadDescriptors(r *bitio.Reader) (nextType obu.Type, nextPayload []byte, err error) {
	for {
		h, payload, err := obu.ReadHeader(r)
		if err != nil {
			return 0, nil, iamferr.Wrap(err, "Decoder.ReadDescriptors")
		}
		switch {
		case h.Type == obu.TypeIASequenceHeader:
			seq, err := obu.ParseIASequenceHeader(payload)
			if err != nil {
				return 0, nil, err
			}
			d.Header = seq
		case h.Type == obu.TypeCodecConfig:
			c, err := obu.ParseCodecConfig(payload)
			if err != nil {
				return 0, nil, err
			}
			d.CodecConfigs = append(d.CodecConfigs, c)
		case h.Type == obu.TypeAudioElement:
			ae, err := obu.ParseAudioElement(payload)
			if err != nil {
				return 0, nil, err
			}
			d.AudioElements = append(d.AudioElements, ae)
		case h.Type == obu.TypeMixPresentation:
			mp, err := obu.ParseMixPresentation(payload)
			if err != nil {
				return 0, nil, err
			}
			d.MixPresentations = append(d.MixPresentations, mp)
		case h.Type.IsReserved():
			if d.Log != nil {
				d.Log.Debug("skipping arbitrary OBU among descriptors", "type", h.Type)
			}
		default:
			return h.Type, payload, nil
		}
	}
}

// DecodeAudioFrame decodes one Audio Frame OBU payload of the given type
// through the delegate bound to its substream.
func (d *Decoder) DecodeAudioFrame(t obu.Type, payload []byte) (*DecodedFrame, error) {
	f, err := obu.ParseAudioFrame(t, payload)
	if err != nil {
		return nil, err
	}
	codec, ok := d.codecs[f.SubstreamID]
	if !ok {
		return nil, iamferr.New(iamferr.InvalidInput, "Decoder.DecodeAudioFrame", "no codec delegate for substream %d", f.SubstreamID)
	}
	samples, err := codec.DecodeFrame(f.Payload)
	if err != nil {
		return nil, iamferr.Wrap(err, "Decoder.DecodeAudioFrame")
	}
	return &DecodedFrame{SubstreamID: f.SubstreamID, Samples: samples}, nil
}

// Finalize releases every bound codec delegate's resources.
func (d *Decoder) Finalize() error {
	for _, c := range d.codecs {
		if err := c.Finalize(); err != nil {
			return iamferr.Wrap(err, "Decoder.Finalize")
		}
	}
	return nil
}
