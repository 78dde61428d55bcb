/*
NAME
  sample_processor.go

DESCRIPTION
  sample_processor.go implements the pre/post sample-processor state
  machine: TakingSamples accepts frames via PushFrame, Flush transitions to
  the terminal FlushCalled state, and OutputSamples borrows the last pushed
  frame. PushFrame after Flush, or a second Flush, returns
  FailedPrecondition.

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

import "github.com/ausocean/iamf/iamferr"

// ProcessorState is the two-state lifecycle of a SampleProcessor.
type ProcessorState uint8

// Defined processor states.
const (
	TakingSamples ProcessorState = iota
	FlushCalled
)

// SampleProcessor is a reusable base for pre/post sample-processing stages
// (resamplers, renderers) that accept up to maxInputSamplesPerFrame samples
// per PushFrame call, then transition to a terminal flushed state.
type SampleProcessor struct {
	state                   ProcessorState
	maxInputSamplesPerFrame int
	output                  [][]int32
}

// NewSampleProcessor returns a SampleProcessor in the TakingSamples state,
// accepting at most maxInputSamplesPerFrame samples per PushFrame call.
func NewSampleProcessor(maxInputSamplesPerFrame int) *SampleProcessor {
	return &SampleProcessor{maxInputSamplesPerFrame: maxInputSamplesPerFrame}
}

// PushFrame accepts samples as this frame's output, replacing whatever
// OutputSamples previously returned. It fails with FailedPrecondition if
// called after Flush, and with InvalidInput if samples exceeds
// maxInputSamplesPerFrame.
func (p *SampleProcessor) PushFrame(samples [][]int32) error {
	if p.state != TakingSamples {
		return iamferr.New(iamferr.FailedPrecondition, "SampleProcessor.PushFrame", "called after Flush")
	}
	if len(samples) > p.maxInputSamplesPerFrame {
		return iamferr.New(iamferr.InvalidInput, "SampleProcessor.PushFrame", "%d samples exceeds max_input_samples_per_frame %d", len(samples), p.maxInputSamplesPerFrame)
	}
	p.output = samples
	return nil
}

// Flush transitions p to the terminal FlushCalled state. It fails with
// FailedPrecondition if called more than once.
func (p *SampleProcessor) Flush() error {
	if p.state != TakingSamples {
		return iamferr.New(iamferr.FailedPrecondition, "SampleProcessor.Flush", "already flushed")
	}
	p.state = FlushCalled
	return nil
}

// OutputSamples returns the samples from the most recent PushFrame call.
// The returned slice is a borrow, valid only until the next PushFrame call.
func (p *SampleProcessor) OutputSamples() [][]int32 {
	return p.output
}

// State reports p's current lifecycle state.
func (p *SampleProcessor) State() ProcessorState {
	return p.state
}
