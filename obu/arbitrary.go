/*
NAME
  arbitrary.go

DESCRIPTION
  arbitrary.go implements the Arbitrary OBU: an opaque insertion hook
  letting a sequence carry OBUs outside the descriptor/audio-frame/
  parameter-block vocabulary, anchored either to a fixed point in the
  sequence or to a specific temporal-unit tick.

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

// InsertionHook selects where in the emitted OBU sequence an Arbitrary
// OBU is inserted.
type InsertionHook uint8

// Defined insertion hooks.
const (
	BeforeDescriptors InsertionHook = iota
	AfterDescriptors
	AfterIaSequenceHeader
	AfterAudioFramesAtTick
)

// ArbitraryOBU carries an opaque payload to be inserted at Hook, with
// Tick giving the temporal-unit position when Hook is
// AfterAudioFramesAtTick.
type ArbitraryOBU struct {
	Hook    InsertionHook
	Tick    uint64
	Payload []byte
}

// NewArbitraryOBU constructs an ArbitraryOBU, validating that tick is
// supplied if and only if hook is AfterAudioFramesAtTick.
func NewArbitraryOBU(hook InsertionHook, tick uint64, payload []byte) (*ArbitraryOBU, error) {
	if hook == AfterAudioFramesAtTick && tick == 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "NewArbitraryOBU", "AfterAudioFramesAtTick requires a nonzero insertion_tick")
	}
	if hook != AfterAudioFramesAtTick && tick != 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "NewArbitraryOBU", "insertion_tick is only valid for AfterAudioFramesAtTick")
	}
	return &ArbitraryOBU{Hook: hook, Tick: tick, Payload: payload}, nil
}

// WriteOBU writes the Arbitrary OBU to w.
func (a *ArbitraryOBU) WriteOBU(w *bitio.Writer) error {
	body := bitio.NewWriter()
	if err := body.WriteU(8, uint64(a.Hook)); err != nil {
		return err
	}
	if a.Hook == AfterAudioFramesAtTick {
		if err := body.WriteUleb128(uint32(a.Tick)); err != nil {
			return iamferr.Wrap(err, "ArbitraryOBU.WriteOBU: insertion_tick")
		}
	}
	if err := body.WriteBytes(a.Payload); err != nil {
		return iamferr.Wrap(err, "ArbitraryOBU.WriteOBU: payload")
	}
	return WriteHeader(w, &Header{Type: TypeReservedStart}, body.Bytes())
}

// ParseArbitraryOBU parses an Arbitrary OBU's payload. t is the OBU type
// from the header, which must fall in the reserved [24,30] range.
func ParseArbitraryOBU(t Type, payload []byte) (*ArbitraryOBU, error) {
	if !t.IsReserved() {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseArbitraryOBU", "OBU type %v is not in the reserved range", t)
	}
	r := bitio.NewReader(payload)
	hook, err := r.ReadU(8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseArbitraryOBU: insertion_hook")
	}
	a := &ArbitraryOBU{Hook: InsertionHook(hook)}
	if a.Hook == AfterAudioFramesAtTick {
		tick, err := r.ReadUleb128()
		if err != nil {
			return nil, iamferr.Wrap(err, "ParseArbitraryOBU: insertion_tick")
		}
		a.Tick = uint64(tick)
	}
	rest, err := r.ReadBytes(r.BitsRemaining() / 8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseArbitraryOBU: payload")
	}
	a.Payload = rest
	return a, nil
}
