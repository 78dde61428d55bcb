/*
NAME
  temporal_delimiter.go

DESCRIPTION
  temporal_delimiter.go implements the Temporal Delimiter OBU: a header with
  an empty payload that marks the boundary between temporal units.

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
)

// TemporalDelimiter marks the start of a temporal unit. It carries no
// payload.
type TemporalDelimiter struct{}

// WriteOBU writes the Temporal Delimiter OBU (header only, zero-length
// payload) to w.
func (TemporalDelimiter) WriteOBU(w *bitio.Writer) error {
	return WriteHeader(w, &Header{Type: TypeTemporalDelimiter}, nil)
}

// ParseTemporalDelimiter validates that payload is empty, as required for a
// Temporal Delimiter OBU.
func ParseTemporalDelimiter(payload []byte) (*TemporalDelimiter, error) {
	if len(payload) != 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseTemporalDelimiter", "expected empty payload, got %d bytes", len(payload))
	}
	return &TemporalDelimiter{}, nil
}
