/*
NAME
  aac.go

DESCRIPTION
  aac.go implements the AAC-LC decoder-config payload: a nested pair of
  ISO-14496-1 descriptors (DecoderConfigDescriptor wrapping
  DecoderSpecificInfo, itself wrapping an AudioSpecificConfig), each prefixed
  by a tag byte and an ISO-14496-1 expandable size.

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

// ISO-14496-1 descriptor tags.
const (
	tagDecoderConfigDescriptor = 4
	tagDecoderSpecificInfo     = 5
)

const (
	objectTypeIndicationAAC = 0x40
	streamTypeAudio         = 5
	audioObjectTypeAACLC    = 2
)

// aacSampleFrequencies is the fixed sample_frequency_index lookup table; the
// reserved escape index 15 is handled separately.
var aacSampleFrequencies = [...]uint32{
	96000, 88200, 64000, 48000, 44100, 32000,
	24000, 22050, 16000, 12000, 11025, 8000, 7350,
}

// AAC is the decoder-config payload for AAC-LC substreams.
type AAC struct {
	BufferSizeDB   uint32 // 24-bit on the wire.
	MaxBitrate     uint32
	AverageBitrate uint32

	// SampleFrequencyIndex selects a table entry; if 15, EscapeSampleRate
	// carries the rate directly as a 24-bit value.
	SampleFrequencyIndex uint8
	EscapeSampleRate     uint32

	// ChannelConfiguration is written as given; Marshal rejects 0 and
	// values above 7. It is not derived from any audio element.
	ChannelConfiguration uint8

	// DecoderConfigExtraBytes and SpecificInfoExtraBytes preserve any
	// unrecognized trailing bytes at each descriptor level.
	DecoderConfigExtraBytes []byte
	SpecificInfoExtraBytes  []byte
}

// FourCC returns the AAC fourCC, "mp4a".
func (a *AAC) FourCC() FourCC { return FourCCAAC }

// RequiredAudioRollDistance returns −1, the audio-roll-distance AAC-LC
// always requires.
func (a *AAC) RequiredAudioRollDistance(samplesPerFrame uint32) int16 { return -1 }

// SampleRate resolves the effective sample rate, following the escape index
// when SampleFrequencyIndex is 15.
func (a *AAC) SampleRate() (uint32, error) {
	if a.SampleFrequencyIndex == 15 {
		return a.EscapeSampleRate, nil
	}
	if int(a.SampleFrequencyIndex) >= len(aacSampleFrequencies) {
		return 0, iamferr.New(iamferr.Unsupported, "AAC.SampleRate", "reserved sample_frequency_index %d", a.SampleFrequencyIndex)
	}
	return aacSampleFrequencies[a.SampleFrequencyIndex], nil
}

// Marshal validates a and writes its nested descriptor payload to w.
func (a *AAC) Marshal(w *bitio.Writer, samplesPerFrame uint32) error {
	if a.BufferSizeDB >= 1<<24 {
		return iamferr.New(iamferr.InvalidInput, "AAC.Marshal", "buffer_size_db %d exceeds 24 bits", a.BufferSizeDB)
	}
	if _, err := a.SampleRate(); err != nil {
		return err
	}
	if a.ChannelConfiguration == 0 || a.ChannelConfiguration > 7 {
		return iamferr.New(iamferr.InvalidInput, "AAC.Marshal", "channel_configuration %d out of range", a.ChannelConfiguration)
	}

	asc := bitio.NewWriter()
	if err := asc.WriteU(5, audioObjectTypeAACLC); err != nil {
		return err
	}
	if err := asc.WriteU(4, uint64(a.SampleFrequencyIndex)); err != nil {
		return err
	}
	if a.SampleFrequencyIndex == 15 {
		if err := asc.WriteU(24, uint64(a.EscapeSampleRate)); err != nil {
			return err
		}
	}
	if err := asc.WriteU(4, uint64(a.ChannelConfiguration)); err != nil {
		return err
	}
	const gaSpecificConfig = 0
	if err := asc.WriteU(3, gaSpecificConfig); err != nil {
		return err
	}
	if err := asc.WriteBytes(a.SpecificInfoExtraBytes); err != nil {
		return iamferr.Wrap(err, "AAC.Marshal: specific_info extra bytes")
	}

	specificInfo := bitio.NewWriter()
	if err := writeIsoDescriptor(specificInfo, tagDecoderSpecificInfo, asc.Bytes()); err != nil {
		return err
	}

	decoderConfig := bitio.NewWriter()
	if err := decoderConfig.WriteU(8, objectTypeIndicationAAC); err != nil {
		return err
	}
	if err := decoderConfig.WriteU(6, streamTypeAudio); err != nil {
		return err
	}
	const upstream = 0
	if err := decoderConfig.WriteU(1, upstream); err != nil {
		return err
	}
	const reserved = 1
	if err := decoderConfig.WriteU(1, reserved); err != nil {
		return err
	}
	if err := decoderConfig.WriteU(24, uint64(a.BufferSizeDB)); err != nil {
		return err
	}
	if err := decoderConfig.WriteU(32, uint64(a.MaxBitrate)); err != nil {
		return err
	}
	if err := decoderConfig.WriteU(32, uint64(a.AverageBitrate)); err != nil {
		return err
	}
	if err := decoderConfig.WriteBytes(specificInfo.Bytes()); err != nil {
		return err
	}
	if err := decoderConfig.WriteBytes(a.DecoderConfigExtraBytes); err != nil {
		return iamferr.Wrap(err, "AAC.Marshal: decoder_config extra bytes")
	}

	return writeIsoDescriptor(w, tagDecoderConfigDescriptor, decoderConfig.Bytes())
}

// writeIsoDescriptor writes tag as a byte, body's length as an ISO-14496-1
// expandable size, then body itself.
func writeIsoDescriptor(w *bitio.Writer, tag uint8, body []byte) error {
	if err := w.WriteU(8, uint64(tag)); err != nil {
		return err
	}
	if err := w.WriteIsoExpanded(uint32(len(body))); err != nil {
		return iamferr.Wrap(err, "writeIsoDescriptor: size")
	}
	return w.WriteBytes(body)
}

// readIsoDescriptor reads a tag byte and an ISO-14496-1 expandable size,
// then returns exactly that many following bytes.
func readIsoDescriptor(r *bitio.Reader, wantTag uint8) ([]byte, error) {
	tag, err := r.ReadU(8)
	if err != nil {
		return nil, iamferr.Wrap(err, "readIsoDescriptor: tag")
	}
	if uint8(tag) != wantTag {
		return nil, iamferr.New(iamferr.InvalidInput, "readIsoDescriptor", "tag %d, want %d", tag, wantTag)
	}
	size, err := r.ReadIsoExpanded()
	if err != nil {
		return nil, iamferr.Wrap(err, "readIsoDescriptor: size")
	}
	body, err := r.ReadBytes(int(size))
	if err != nil {
		return nil, iamferr.Wrap(err, "readIsoDescriptor: body")
	}
	return body, nil
}

// ParseAAC parses an AAC-LC decoder-config payload from r.
func ParseAAC(r *bitio.Reader) (*AAC, error) {
	dcBody, err := readIsoDescriptor(r, tagDecoderConfigDescriptor)
	if err != nil {
		return nil, err
	}
	dr := bitio.NewReader(dcBody)

	oti, err := dr.ReadU(8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAAC: object_type_indication")
	}
	if oti != objectTypeIndicationAAC {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseAAC", "object_type_indication %#x, want %#x", oti, objectTypeIndicationAAC)
	}
	streamType, err := dr.ReadU(6)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAAC: stream_type")
	}
	if streamType != streamTypeAudio {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseAAC", "stream_type %d, want %d", streamType, streamTypeAudio)
	}
	if _, err := dr.ReadU(1); err != nil { // upstream
		return nil, iamferr.Wrap(err, "ParseAAC: upstream")
	}
	if _, err := dr.ReadU(1); err != nil { // reserved
		return nil, iamferr.Wrap(err, "ParseAAC: reserved")
	}
	bufSize, err := dr.ReadU(24)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAAC: buffer_size_db")
	}
	maxBitrate, err := dr.ReadU(32)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAAC: max_bitrate")
	}
	avgBitrate, err := dr.ReadU(32)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAAC: average_bit_rate")
	}

	siBody, err := readIsoDescriptor(dr, tagDecoderSpecificInfo)
	if err != nil {
		return nil, err
	}
	dcExtra, err := dr.ReadBytes(dr.BitsRemaining() / 8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAAC: decoder_config extra bytes")
	}

	sr := bitio.NewReader(siBody)
	aot, err := sr.ReadU(5)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAAC: audio_object_type")
	}
	if aot != audioObjectTypeAACLC {
		return nil, iamferr.New(iamferr.Unsupported, "ParseAAC", "audio_object_type %d, want %d (AAC-LC)", aot, audioObjectTypeAACLC)
	}
	freqIdx, err := sr.ReadU(4)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAAC: sample_frequency_index")
	}
	var escapeRate uint32
	if freqIdx == 15 {
		rate, err := sr.ReadU(24)
		if err != nil {
			return nil, iamferr.Wrap(err, "ParseAAC: escape sample rate")
		}
		escapeRate = uint32(rate)
	}
	chanConfig, err := sr.ReadU(4)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAAC: channel_configuration")
	}
	gaSpecific, err := sr.ReadU(3)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAAC: ga_specific_config")
	}
	if gaSpecific != 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseAAC", "ga_specific_config must be 0, got %d", gaSpecific)
	}
	siExtra, err := sr.ReadBytes(sr.BitsRemaining() / 8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseAAC: specific_info extra bytes")
	}

	return &AAC{
		BufferSizeDB:            uint32(bufSize),
		MaxBitrate:              uint32(maxBitrate),
		AverageBitrate:          uint32(avgBitrate),
		SampleFrequencyIndex:    uint8(freqIdx),
		EscapeSampleRate:        escapeRate,
		ChannelConfiguration:    uint8(chanConfig),
		DecoderConfigExtraBytes: dcExtra,
		SpecificInfoExtraBytes:  siExtra,
	}, nil
}
