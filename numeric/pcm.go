/*
NAME
  pcm.go

DESCRIPTION
  pcm.go packs and unpacks raw PCM samples to/from their big- or
  little-endian on-wire representation, following the manual byte-packing
  style used by codec/wav's header writer but generalized to the sample
  widths LPCM substreams actually carry (8, 16, 24, 32 bits).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package numeric

import (
	"github.com/ausocean/iamf/iamferr"
)

// WritePCMSample writes the top sizeBits of sample into buf at byte offset
// pos, in the requested endianness, and advances pos by sizeBits/8 bytes.
// sizeBits must be one of 8, 16, 24, or 32.
func WritePCMSample(sample uint32, sizeBits int, bigEndian bool, buf []byte, pos *int) error {
	nBytes, err := pcmByteCount(sizeBits)
	if err != nil {
		return err
	}
	if *pos+nBytes > len(buf) {
		return iamferr.New(iamferr.InvalidInput, "WritePCMSample", "buffer too small for %d-byte sample at offset %d", nBytes, *pos)
	}
	// Keep only the top sizeBits of the 32-bit sample, left-justified.
	shifted := sample >> uint(32-sizeBits)
	for i := 0; i < nBytes; i++ {
		var shift uint
		if bigEndian {
			shift = uint(8 * (nBytes - 1 - i))
		} else {
			shift = uint(8 * i)
		}
		buf[*pos+i] = byte(shifted >> shift)
	}
	*pos += nBytes
	return nil
}

// ReadPCMSample reads an nBytes-wide PCM sample from buf at byte offset pos,
// in the requested endianness, left-justifying the result into the top
// sizeBits of the returned uint32, and advances pos by sizeBits/8 bytes.
func ReadPCMSample(sizeBits int, bigEndian bool, buf []byte, pos *int) (uint32, error) {
	nBytes, err := pcmByteCount(sizeBits)
	if err != nil {
		return 0, err
	}
	if *pos+nBytes > len(buf) {
		return 0, iamferr.New(iamferr.Truncated, "ReadPCMSample", "buffer too small for %d-byte sample at offset %d", nBytes, *pos)
	}
	var v uint32
	for i := 0; i < nBytes; i++ {
		var shift uint
		if bigEndian {
			shift = uint(8 * (nBytes - 1 - i))
		} else {
			shift = uint(8 * i)
		}
		v |= uint32(buf[*pos+i]) << shift
	}
	*pos += nBytes
	return v << uint(32-sizeBits), nil
}

func pcmByteCount(sizeBits int) (int, error) {
	switch sizeBits {
	case 8, 16, 24, 32:
		return sizeBits / 8, nil
	default:
		return 0, iamferr.New(iamferr.InvalidInput, "pcmByteCount", "unsupported PCM sample size %d", sizeBits)
	}
}
