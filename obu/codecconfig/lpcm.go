/*
NAME
  lpcm.go

DESCRIPTION
  lpcm.go implements the LPCM decoder-config payload: an 8-bit sample-format
  bitmask, an 8-bit sample size, and a 32-bit sample rate.

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
	"github.com/go-audio/audio"
)

// LPCM is the decoder-config payload for uncompressed PCM substreams.
type LPCM struct {
	// LittleEndian selects bit 0 of sample_format_flags_bitmask; the only
	// other currently-defined bitmask value is 0 (big-endian).
	LittleEndian bool

	// SampleSize is the bit depth, one of 16, 24, or 32.
	SampleSize uint8

	// SampleRate is one of 16000, 32000, 44100, 48000, 96000.
	SampleRate uint32
}

// lpcmSampleSizes enumerates the legal LPCM sample sizes.
var lpcmSampleSizes = map[uint8]bool{16: true, 24: true, 32: true}

// lpcmSampleRates enumerates the legal LPCM sample rates.
var lpcmSampleRates = map[uint32]bool{16000: true, 32000: true, 44100: true, 48000: true, 96000: true}

// FourCC returns the LPCM fourCC, "ipcm".
func (l *LPCM) FourCC() FourCC { return FourCCLPCM }

// RequiredAudioRollDistance returns 0, the audio-roll-distance LPCM always
// requires.
func (l *LPCM) RequiredAudioRollDistance(samplesPerFrame uint32) int16 { return 0 }

// Format returns the go-audio format this config describes, for callers
// bridging to go-audio-based pipeline code.
func (l *LPCM) Format() *audio.Format {
	return &audio.Format{NumChannels: 0, SampleRate: int(l.SampleRate)}
}

// Marshal validates l and writes its wire payload to w.
func (l *LPCM) Marshal(w *bitio.Writer, samplesPerFrame uint32) error {
	if !lpcmSampleSizes[l.SampleSize] {
		return iamferr.New(iamferr.InvalidInput, "LPCM.Marshal", "sample_size %d not one of 16,24,32", l.SampleSize)
	}
	if !lpcmSampleRates[l.SampleRate] {
		return iamferr.New(iamferr.InvalidInput, "LPCM.Marshal", "sample_rate %d not a legal LPCM rate", l.SampleRate)
	}

	var flags uint64
	if l.LittleEndian {
		flags = 1
	}
	if err := w.WriteU(8, flags); err != nil {
		return iamferr.Wrap(err, "LPCM.Marshal: sample_format_flags_bitmask")
	}
	if err := w.WriteU(8, uint64(l.SampleSize)); err != nil {
		return iamferr.Wrap(err, "LPCM.Marshal: sample_size")
	}
	if err := w.WriteU(32, uint64(l.SampleRate)); err != nil {
		return iamferr.Wrap(err, "LPCM.Marshal: sample_rate")
	}
	return nil
}

// ParseLPCM parses an LPCM decoder-config payload from r.
func ParseLPCM(r *bitio.Reader) (*LPCM, error) {
	flags, err := r.ReadU(8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseLPCM: sample_format_flags_bitmask")
	}
	size, err := r.ReadU(8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseLPCM: sample_size")
	}
	rate, err := r.ReadU(32)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseLPCM: sample_rate")
	}

	l := &LPCM{LittleEndian: flags&1 == 1, SampleSize: uint8(size), SampleRate: uint32(rate)}
	if !lpcmSampleSizes[l.SampleSize] {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseLPCM", "sample_size %d not one of 16,24,32", l.SampleSize)
	}
	if !lpcmSampleRates[l.SampleRate] {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseLPCM", "sample_rate %d not a legal LPCM rate", l.SampleRate)
	}
	return l, nil
}
