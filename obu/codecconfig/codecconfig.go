/*
NAME
  codecconfig.go

DESCRIPTION
  codecconfig.go defines the DecoderConfig tagged-union interface shared by
  the four codec-specific decoder-config payloads (LPCM, Opus, AAC-LC, FLAC)
  that a Codec Config OBU carries, plus the fourCC constants that select
  among them.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package codecconfig implements the four IAMF decoder-config payloads
// (LPCM, Opus, AAC-LC, FLAC) carried by a Codec Config OBU: validation,
// bit-exact serialization, and parsing, plus each codec's required
// audio-roll-distance.
package codecconfig

import (
	"github.com/ausocean/iamf/bitio"
)

// FourCC identifies a codec's decoder-config wire representation.
type FourCC [4]byte

// String returns the fourCC as its 4-character ASCII form, e.g. "ipcm".
func (f FourCC) String() string { return string(f[:]) }

// Defined codec fourCC values, per the IAMF bitstream format.
var (
	FourCCLPCM = FourCC{'i', 'p', 'c', 'm'}
	FourCCOpus = FourCC{'O', 'p', 'u', 's'}
	FourCCAAC  = FourCC{'m', 'p', '4', 'a'}
	FourCCFLAC = FourCC{'f', 'L', 'a', 'C'}
)

// DecoderConfig is implemented by each codec-specific decoder-config
// payload. RequiredAudioRollDistance reports the signed 16-bit value the
// owning Codec Config OBU's audio_roll_distance field must carry for this
// codec; samplesPerFrame is needed only by Opus, whose required distance is
// a function of frame size.
type DecoderConfig interface {
	FourCC() FourCC

	// Marshal writes the codec's decoder-config payload to w. samplesPerFrame
	// is the owning Codec Config OBU's num_samples_per_frame; only FLAC's
	// STREAMINFO block depends on it.
	Marshal(w *bitio.Writer, samplesPerFrame uint32) error

	RequiredAudioRollDistance(samplesPerFrame uint32) int16
}
