/*
NAME
  debug.go

DESCRIPTION
  debug.go provides DumpWAV, a diagnostic tap that WAV-encodes a decoded
  temporal unit's PCM samples for manual inspection. It is not part of the
  IAMF wire format; nothing in decode correctness depends on it.

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
	"io"

	"github.com/ausocean/iamf/iamferr"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormat = 1 // WAVE_FORMAT_PCM.

// DumpWAV WAV-encodes samples ([time][channel]-indexed, bitDepth bits per
// sample) at sampleRate to w.
func DumpWAV(w io.WriteSeeker, samples [][]int32, numChannels, sampleRate, bitDepth int) error {
	enc := wav.NewEncoder(w, sampleRate, bitDepth, numChannels, wavFormat)

	data := make([]int, 0, len(samples)*numChannels)
	for _, frame := range samples {
		if len(frame) != numChannels {
			return iamferr.New(iamferr.InvalidInput, "DumpWAV", "frame has %d channels, want %d", len(frame), numChannels)
		}
		for _, s := range frame {
			data = append(data, int(s))
		}
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
		Data:           data,
	}
	if err := enc.Write(buf); err != nil {
		return iamferr.Wrap(err, "DumpWAV: encode")
	}
	return enc.Close()
}
