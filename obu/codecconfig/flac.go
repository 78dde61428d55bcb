/*
NAME
  flac.go

DESCRIPTION
  flac.go implements the FLAC decoder-config payload: a sequence of
  metadata blocks, the first of which must be STREAMINFO and exactly one of
  which is marked last.

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

// flacBlockTypeStreamInfo is the STREAMINFO metadata block type tag.
const flacBlockTypeStreamInfo = 0

// StreamInfo is the FLAC STREAMINFO metadata block, the mandatory first
// block of a FLAC decoder config.
type StreamInfo struct {
	// MinBlockSize and MaxBlockSize must both equal the owning Codec
	// Config's num_samples_per_frame.
	MinBlockSize uint16
	MaxBlockSize uint16

	// MinFrameSize and MaxFrameSize are written as 0 by this encoder.
	MinFrameSize uint32
	MaxFrameSize uint32

	SampleRate    uint32 // 20-bit on the wire, range [1, 655350].
	Channels      uint8  // Must be 2; written as channels-1.
	BitsPerSample uint8  // Range [16, 32]; written as bits_per_sample-1.
	TotalSamples  uint64 // 36-bit on the wire.
	MD5           [16]byte
}

// OtherMetadataBlock carries a non-STREAMINFO FLAC metadata block verbatim.
type OtherMetadataBlock struct {
	BlockType uint8 // 7-bit on the wire.
	Data      []byte
}

// FLAC is the decoder-config payload for FLAC substreams.
type FLAC struct {
	Info  StreamInfo
	Other []OtherMetadataBlock
}

// FourCC returns the FLAC fourCC, "fLaC".
func (f *FLAC) FourCC() FourCC { return FourCCFLAC }

// RequiredAudioRollDistance returns 0, the audio-roll-distance FLAC always
// requires.
func (f *FLAC) RequiredAudioRollDistance(samplesPerFrame uint32) int16 { return 0 }

// Marshal validates f against samplesPerFrame and writes the metadata-block
// sequence to w. samplesPerFrame is the owning Codec Config's
// num_samples_per_frame, which Info.MinBlockSize/MaxBlockSize must match.
func (f *FLAC) Marshal(w *bitio.Writer, samplesPerFrame uint32) error {
	si := f.Info
	if uint32(si.MinBlockSize) != samplesPerFrame || uint32(si.MaxBlockSize) != samplesPerFrame {
		return iamferr.New(iamferr.InvalidInput, "FLAC.Marshal", "min/max_block_size must equal num_samples_per_frame (%d), got %d/%d", samplesPerFrame, si.MinBlockSize, si.MaxBlockSize)
	}
	if si.Channels != 2 {
		return iamferr.New(iamferr.InvalidInput, "FLAC.Marshal", "channels must be 2, got %d", si.Channels)
	}
	if si.BitsPerSample < 16 || si.BitsPerSample > 32 {
		return iamferr.New(iamferr.InvalidInput, "FLAC.Marshal", "bits_per_sample %d out of [16,32]", si.BitsPerSample)
	}
	if si.SampleRate == 0 || si.SampleRate > 655350 {
		return iamferr.New(iamferr.InvalidInput, "FLAC.Marshal", "sample_rate %d out of [1,655350]", si.SampleRate)
	}

	body := bitio.NewWriter()
	if err := body.WriteU(16, uint64(si.MinBlockSize)); err != nil {
		return err
	}
	if err := body.WriteU(16, uint64(si.MaxBlockSize)); err != nil {
		return err
	}
	if err := body.WriteU(24, uint64(si.MinFrameSize)); err != nil {
		return err
	}
	if err := body.WriteU(24, uint64(si.MaxFrameSize)); err != nil {
		return err
	}
	if err := body.WriteU(20, uint64(si.SampleRate)); err != nil {
		return err
	}
	if err := body.WriteU(3, uint64(si.Channels-1)); err != nil {
		return err
	}
	if err := body.WriteU(5, uint64(si.BitsPerSample-1)); err != nil {
		return err
	}
	if err := body.WriteU(36, si.TotalSamples); err != nil {
		return err
	}
	if err := body.WriteBytes(si.MD5[:]); err != nil {
		return err
	}

	last := len(f.Other) == 0
	if err := writeFlacBlockHeader(w, last, flacBlockTypeStreamInfo, len(body.Bytes())); err != nil {
		return err
	}
	if err := w.WriteBytes(body.Bytes()); err != nil {
		return err
	}

	for i, blk := range f.Other {
		isLast := i == len(f.Other)-1
		if err := writeFlacBlockHeader(w, isLast, blk.BlockType, len(blk.Data)); err != nil {
			return err
		}
		if err := w.WriteBytes(blk.Data); err != nil {
			return err
		}
	}
	return nil
}

// writeFlacBlockHeader writes a 1-bit last-block flag, a 7-bit block type,
// and a 24-bit size.
func writeFlacBlockHeader(w *bitio.Writer, last bool, blockType uint8, size int) error {
	var lastBit uint64
	if last {
		lastBit = 1
	}
	if err := w.WriteU(1, lastBit); err != nil {
		return err
	}
	if err := w.WriteU(7, uint64(blockType)); err != nil {
		return err
	}
	if size >= 1<<24 {
		return iamferr.New(iamferr.InvalidInput, "writeFlacBlockHeader", "block size %d exceeds 24 bits", size)
	}
	return w.WriteU(24, uint64(size))
}

// ParseFLAC parses a FLAC decoder-config payload (one or more metadata
// blocks) from r.
func ParseFLAC(r *bitio.Reader) (*FLAC, error) {
	f := &FLAC{}
	first := true
	for {
		last, blockType, size, err := readFlacBlockHeader(r)
		if err != nil {
			return nil, err
		}
		data, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, iamferr.Wrap(err, "ParseFLAC: block data")
		}

		if first {
			if blockType != flacBlockTypeStreamInfo {
				return nil, iamferr.New(iamferr.InvalidInput, "ParseFLAC", "first metadata block must be STREAMINFO, got type %d", blockType)
			}
			si, err := parseStreamInfo(data)
			if err != nil {
				return nil, err
			}
			f.Info = *si
			first = false
		} else {
			if blockType == flacBlockTypeStreamInfo {
				return nil, iamferr.New(iamferr.InvalidInput, "ParseFLAC", "STREAMINFO must be the first metadata block")
			}
			f.Other = append(f.Other, OtherMetadataBlock{BlockType: blockType, Data: data})
		}

		if last {
			return f, nil
		}
	}
}

// readFlacBlockHeader reads a 1-bit last-block flag, a 7-bit block type, and
// a 24-bit size.
func readFlacBlockHeader(r *bitio.Reader) (last bool, blockType uint8, size uint32, err error) {
	lastBit, err := r.ReadU(1)
	if err != nil {
		return false, 0, 0, iamferr.Wrap(err, "readFlacBlockHeader: last_metadata_block")
	}
	bt, err := r.ReadU(7)
	if err != nil {
		return false, 0, 0, iamferr.Wrap(err, "readFlacBlockHeader: block_type")
	}
	sz, err := r.ReadU(24)
	if err != nil {
		return false, 0, 0, iamferr.Wrap(err, "readFlacBlockHeader: length")
	}
	return lastBit == 1, uint8(bt), uint32(sz), nil
}

// parseStreamInfo parses a STREAMINFO metadata block body.
func parseStreamInfo(data []byte) (*StreamInfo, error) {
	r := bitio.NewReader(data)
	si := &StreamInfo{}

	minBlock, err := r.ReadU(16)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseStreamInfo: min_block_size")
	}
	maxBlock, err := r.ReadU(16)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseStreamInfo: max_block_size")
	}
	minFrame, err := r.ReadU(24)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseStreamInfo: min_frame_size")
	}
	maxFrame, err := r.ReadU(24)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseStreamInfo: max_frame_size")
	}
	rate, err := r.ReadU(20)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseStreamInfo: sample_rate")
	}
	if rate == 0 || rate > 655350 {
		return nil, iamferr.New(iamferr.InvalidInput, "parseStreamInfo", "sample_rate %d out of [1,655350]", rate)
	}
	channelsMinusOne, err := r.ReadU(3)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseStreamInfo: channels")
	}
	if channelsMinusOne != 1 {
		return nil, iamferr.New(iamferr.InvalidInput, "parseStreamInfo", "channels must be 2, got %d", channelsMinusOne+1)
	}
	bpsMinusOne, err := r.ReadU(5)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseStreamInfo: bits_per_sample")
	}
	if bpsMinusOne+1 < 16 {
		return nil, iamferr.New(iamferr.InvalidInput, "parseStreamInfo", "bits_per_sample %d below 16", bpsMinusOne+1)
	}
	totalSamples, err := r.ReadU(36)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseStreamInfo: total_samples")
	}
	md5, err := r.ReadBytes(16)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseStreamInfo: md5")
	}

	si.MinBlockSize = uint16(minBlock)
	si.MaxBlockSize = uint16(maxBlock)
	si.MinFrameSize = uint32(minFrame)
	si.MaxFrameSize = uint32(maxFrame)
	si.SampleRate = uint32(rate)
	si.Channels = uint8(channelsMinusOne + 1)
	si.BitsPerSample = uint8(bpsMinusOne + 1)
	si.TotalSamples = totalSamples
	copy(si.MD5[:], md5)
	return si, nil
}
