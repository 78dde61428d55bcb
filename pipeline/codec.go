/*
NAME
  codec.go

DESCRIPTION
  codec.go declares AudioCodec, the per-substream capability the
  orchestration layer drives to turn PCM samples into Audio Frame OBU
  payloads and back, and Resampler/Renderer, the narrow interfaces the
  orchestration layer calls through for resampling and loudspeaker
  rendering without implementing either algorithm itself.

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
	"github.com/ausocean/iamf/obu"
	"github.com/ausocean/iamf/obu/codecconfig"
)

// AudioCodec is the capability set one substream's codec delegate must
// provide. Samples are [time][channel]-indexed. Initialize must be called
// exactly once before any EncodeFrame/DecodeFrame call, and Finalize
// exactly once after the last such call; an implementation is free to
// return an error from either on misuse.
type AudioCodec interface {
	// Initialize prepares the codec for decoderConfig, numChannels, and
	// samplesPerFrame.
	Initialize(decoderConfig codecconfig.DecoderConfig, numChannels int, samplesPerFrame uint32) error

	// EncodeFrame encodes exactly one frame of samples at bitDepth, returning
	// the resulting Audio Frame OBU payload.
	EncodeFrame(samples [][]int32, bitDepth int) ([]byte, error)

	// DecodeFrame decodes one Audio Frame OBU payload into [time][channel]
	// samples.
	DecodeFrame(payload []byte) ([][]int32, error)

	// RequiredSamplesToDelayAtStart reports how many samples of encoder
	// pre-roll this codec introduces, for trim-at-start accounting.
	RequiredSamplesToDelayAtStart() uint32

	// Finalize releases any resources and flushes any pending output.
	// Implementations backed by an external codec library should close it
	// here rather than relying on a finalizer.
	Finalize() error
}

// Resampler converts samples between sample rates. The orchestration layer
// calls through this interface without implementing any resampling
// algorithm itself.
type Resampler interface {
	Resample(samples [][]int32, fromRate, toRate uint32) ([][]int32, error)
}

// Renderer renders samples from one loudspeaker layout to another (e.g.
// down-mixing 5.1 to stereo, or binaural rendering for headphones). The
// orchestration layer calls through this interface without implementing
// any rendering algorithm itself.
type Renderer interface {
	Render(samples [][]int32, from, to obu.LoudspeakerLayout) ([][]int32, error)
}
