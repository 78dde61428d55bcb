/*
NAME
  paramblock.go

DESCRIPTION
  paramblock.go implements Parameter Blocks: the runtime data a parameter
  definition's subblocks carry at a given temporal unit, and the pure
  subblock-duration arithmetic shared by every caller that needs to know how
  long a given subblock index spans.

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

// AnimationType selects the shape of a mix-gain subblock's envelope.
type AnimationType uint32

// Defined mix-gain animation types.
const (
	AnimationStep AnimationType = iota
	AnimationLinear
	AnimationBezier
)

// MixGainSubblock is the runtime payload for a ParamTypeMixGain subblock.
// Points holds raw Q7.8-encoded values: 1 entry for Step, 2 for Linear, 3
// for Bezier. ControlTime is only meaningful for Bezier (Q0.8).
type MixGainSubblock struct {
	Animation   AnimationType
	Points      []int16
	ControlTime uint8
}

// expectedPointCount returns how many Q7.8 points a's shape carries.
func (a AnimationType) expectedPointCount() int {
	switch a {
	case AnimationStep:
		return 1
	case AnimationLinear:
		return 2
	case AnimationBezier:
		return 3
	default:
		return 0
	}
}

func (m *MixGainSubblock) marshal(w *bitio.Writer) error {
	want := m.Animation.expectedPointCount()
	if want == 0 {
		return iamferr.New(iamferr.InvalidInput, "MixGainSubblock.marshal", "unknown animation_type %d", m.Animation)
	}
	if len(m.Points) != want {
		return iamferr.New(iamferr.InvalidInput, "MixGainSubblock.marshal", "animation %v needs %d points, got %d", m.Animation, want, len(m.Points))
	}
	if err := w.WriteUleb128(uint32(m.Animation)); err != nil {
		return iamferr.Wrap(err, "MixGainSubblock.marshal: animation_type")
	}
	for _, p := range m.Points {
		if err := w.WriteU(16, uint64(uint16(p))); err != nil {
			return iamferr.Wrap(err, "MixGainSubblock.marshal: point")
		}
	}
	if m.Animation == AnimationBezier {
		if err := w.WriteU(8, uint64(m.ControlTime)); err != nil {
			return iamferr.Wrap(err, "MixGainSubblock.marshal: control_time")
		}
	}
	return nil
}

func parseMixGainSubblock(r *bitio.Reader) (*MixGainSubblock, error) {
	animation, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "parseMixGainSubblock: animation_type")
	}
	m := &MixGainSubblock{Animation: AnimationType(animation)}
	n := m.Animation.expectedPointCount()
	if n == 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "parseMixGainSubblock", "unknown animation_type %d", animation)
	}
	m.Points = make([]int16, n)
	for i := range m.Points {
		v, err := r.ReadU(16)
		if err != nil {
			return nil, iamferr.Wrap(err, "parseMixGainSubblock: point")
		}
		m.Points[i] = int16(uint16(v))
	}
	if m.Animation == AnimationBezier {
		ct, err := r.ReadU(8)
		if err != nil {
			return nil, iamferr.Wrap(err, "parseMixGainSubblock: control_time")
		}
		m.ControlTime = uint8(ct)
	}
	return m, nil
}

// DemixingSubblock is the runtime payload for a ParamTypeDemixing subblock.
type DemixingSubblock struct {
	DmixpMode uint8 // 3-bit.
}

func (d *DemixingSubblock) marshal(w *bitio.Writer) error {
	if d.DmixpMode > 7 {
		return iamferr.New(iamferr.InvalidInput, "DemixingSubblock.marshal", "dmixp_mode %d exceeds 3 bits", d.DmixpMode)
	}
	if err := w.WriteU(3, uint64(d.DmixpMode)); err != nil {
		return err
	}
	const reserved = 0
	return w.WriteU(5, reserved)
}

func parseDemixingSubblock(r *bitio.Reader) (*DemixingSubblock, error) {
	mode, err := r.ReadU(3)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseDemixingSubblock: dmixp_mode")
	}
	if _, err := r.ReadU(5); err != nil {
		return nil, iamferr.Wrap(err, "parseDemixingSubblock: reserved")
	}
	return &DemixingSubblock{DmixpMode: uint8(mode)}, nil
}

// ReconGainLayer is one channel layer's present-channel gains within a
// ReconGainSubblock.
type ReconGainLayer struct {
	// Channels is the set of present channels, in the fixed 12-channel
	// order; one gain byte is carried per entry, in the same order.
	Channels []ChannelLabel
	Gains    []uint8
}

// ReconGainSubblock is the runtime payload for a ParamTypeReconGain
// subblock: one ReconGainLayer per layer whose recon_gain_is_present_flag
// was set on the owning audio element.
type ReconGainSubblock struct {
	Layers []ReconGainLayer
}

func (rg *ReconGainSubblock) marshal(w *bitio.Writer) error {
	for _, layer := range rg.Layers {
		if len(layer.Channels) != len(layer.Gains) {
			return iamferr.New(iamferr.InvalidInput, "ReconGainSubblock.marshal", "channel/gain count mismatch: %d vs %d", len(layer.Channels), len(layer.Gains))
		}
		var mask uint32
		for _, c := range layer.Channels {
			if int(c) >= NumChannelLabels {
				return iamferr.New(iamferr.InvalidInput, "ReconGainSubblock.marshal", "channel label %d out of range", c)
			}
			mask |= 1 << uint(c)
		}
		if err := w.WriteUleb128(mask); err != nil {
			return iamferr.Wrap(err, "ReconGainSubblock.marshal: channel mask")
		}
		for _, g := range layer.Gains {
			if err := w.WriteU(8, uint64(g)); err != nil {
				return iamferr.Wrap(err, "ReconGainSubblock.marshal: gain")
			}
		}
	}
	return nil
}

// parseReconGainSubblock reads numLayers masked channel/gain groups from r.
func parseReconGainSubblock(r *bitio.Reader, numLayers int) (*ReconGainSubblock, error) {
	rg := &ReconGainSubblock{Layers: make([]ReconGainLayer, numLayers)}
	for i := 0; i < numLayers; i++ {
		mask, err := r.ReadUleb128()
		if err != nil {
			return nil, iamferr.Wrap(err, "parseReconGainSubblock: channel mask")
		}
		var layer ReconGainLayer
		for c := 0; c < NumChannelLabels; c++ {
			if mask&(1<<uint(c)) == 0 {
				continue
			}
			g, err := r.ReadU(8)
			if err != nil {
				return nil, iamferr.Wrap(err, "parseReconGainSubblock: gain")
			}
			layer.Channels = append(layer.Channels, ChannelLabel(c))
			layer.Gains = append(layer.Gains, uint8(g))
		}
		rg.Layers[i] = layer
	}
	return rg, nil
}

// ExtensionSubblock is the runtime payload for an unrecognized parameter
// type's subblock.
type ExtensionSubblock struct {
	Bytes []byte
}

func (e *ExtensionSubblock) marshal(w *bitio.Writer) error {
	if err := w.WriteUleb128(uint32(len(e.Bytes))); err != nil {
		return iamferr.Wrap(err, "ExtensionSubblock.marshal: size")
	}
	return w.WriteBytes(e.Bytes)
}

func parseExtensionSubblock(r *bitio.Reader) (*ExtensionSubblock, error) {
	size, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "parseExtensionSubblock: size")
	}
	b, err := r.ReadBytes(int(size))
	if err != nil {
		return nil, iamferr.Wrap(err, "parseExtensionSubblock: bytes")
	}
	return &ExtensionSubblock{Bytes: b}, nil
}

// ParameterBlock is the runtime data a parameter definition carries for one
// temporal unit.
type ParameterBlock struct {
	ParameterID uint32

	// PerBlockDuration, PerBlockConstantSubblockDuration, and
	// PerBlockSubblockDurations are only present and meaningful when the
	// owning definition's param_definition_mode is 1.
	HasPerBlockDuration              bool
	PerBlockDuration                 uint32
	PerBlockConstantSubblockDuration uint32
	PerBlockSubblockDurations        []uint32

	// The typed slices below hold one payload per subblock, in subblock
	// order; only the slice matching the owning definition's ParamType is
	// used (MixGainSubblocks, DemixingSubblocks, ReconGainSubblocks,
	// PositionSubblocks with one []Point per subblock, or ExtensionSubblocks).
	MixGainSubblocks   []*MixGainSubblock
	DemixingSubblocks  []*DemixingSubblock
	ReconGainSubblocks []*ReconGainSubblock
	PositionSubblocks  [][]Point
	ExtensionSubblocks []*ExtensionSubblock
}

// SubblockDuration computes the duration of subblock index i given the
// governing (mode, numSubblocks, constantSubblockDuration, totalDuration)
// and, when constantSubblockDuration == 0, an explicit per-subblock list
// supplied by whichever of the definition or the block owns it for this
// mode. This is the single place the branching in spec.md §4.G is
// implemented; no call site re-derives it.
func SubblockDuration(i, numSubblocks int, constantSubblockDuration, totalDuration uint32, explicit []uint32) (uint32, error) {
	if i < 0 || i >= numSubblocks {
		return 0, iamferr.New(iamferr.InvalidInput, "SubblockDuration", "index %d out of [0,%d)", i, numSubblocks)
	}
	if constantSubblockDuration == 0 {
		if i >= len(explicit) {
			return 0, iamferr.New(iamferr.InvalidInput, "SubblockDuration", "missing explicit duration for subblock %d", i)
		}
		return explicit[i], nil
	}
	if i < numSubblocks-1 {
		return constantSubblockDuration, nil
	}
	if uint32(numSubblocks)*constantSubblockDuration > totalDuration {
		return totalDuration - uint32(numSubblocks-1)*constantSubblockDuration, nil
	}
	return constantSubblockDuration, nil
}

// resolvedSubblocks returns (numSubblocks, constantSubblockDuration,
// totalDuration, explicitDurations) for pb given its owning definition def,
// following the inheritance rule in spec.md §3: per-block fields when
// def.Common.Mode == 1, otherwise the definition's own fields.
func (pb *ParameterBlock) resolvedSubblocks(def *ParameterDefinition) (numSubblocks int, constant, total uint32, explicit []uint32) {
	if def.Common.Mode == 1 {
		constant = pb.PerBlockConstantSubblockDuration
		total = pb.PerBlockDuration
		explicit = pb.PerBlockSubblockDurations
	} else {
		constant = def.Common.ConstantSubblockDuration
		total = def.Common.Duration
		explicit = def.Common.SubblockDurations
	}
	if constant == 0 {
		numSubblocks = len(explicit)
	} else {
		numSubblocks = int((total + constant - 1) / constant)
	}
	return numSubblocks, constant, total, explicit
}

// numReconGainLayersFunc supplies the number of layers carrying
// recon-gain-is-present for the owning audio element. ParseParameterBlock
// requires it when def.Type == ParamTypeReconGain; Marshal does not call it
// and writes each ReconGainSubblock's Layers as given.
type numReconGainLayersFunc = func() int

// Marshal validates pb against def and writes the parameter_id, any
// per-block duration fields, and each subblock payload to w. reconGainLayers
// is accepted for symmetry with ParseParameterBlock and is not called; nil
// is allowed for every def.Type.
func (pb *ParameterBlock) Marshal(w *bitio.Writer, def *ParameterDefinition, reconGainLayers numReconGainLayersFunc) error {
	if err := w.WriteUleb128(pb.ParameterID); err != nil {
		return iamferr.Wrap(err, "ParameterBlock.Marshal: parameter_id")
	}

	if def.Common.Mode == 1 {
		if err := w.WriteUleb128(pb.PerBlockDuration); err != nil {
			return iamferr.Wrap(err, "ParameterBlock.Marshal: duration")
		}
		if err := w.WriteUleb128(pb.PerBlockConstantSubblockDuration); err != nil {
			return iamferr.Wrap(err, "ParameterBlock.Marshal: constant_subblock_duration")
		}
		if pb.PerBlockConstantSubblockDuration == 0 {
			if err := w.WriteUleb128(uint32(len(pb.PerBlockSubblockDurations))); err != nil {
				return iamferr.Wrap(err, "ParameterBlock.Marshal: num_subblocks")
			}
			for _, d := range pb.PerBlockSubblockDurations {
				if err := w.WriteUleb128(d); err != nil {
					return iamferr.Wrap(err, "ParameterBlock.Marshal: subblock_duration")
				}
			}
		}
	}

	numSubblocks, _, _, _ := pb.resolvedSubblocks(def)

	switch def.Type {
	case ParamTypeMixGain:
		if len(pb.MixGainSubblocks) != numSubblocks {
			return iamferr.New(iamferr.InvalidInput, "ParameterBlock.Marshal", "have %d mix-gain subblocks, want %d", len(pb.MixGainSubblocks), numSubblocks)
		}
		for _, s := range pb.MixGainSubblocks {
			if err := s.marshal(w); err != nil {
				return err
			}
		}
	case ParamTypeDemixing:
		if len(pb.DemixingSubblocks) != numSubblocks {
			return iamferr.New(iamferr.InvalidInput, "ParameterBlock.Marshal", "have %d demixing subblocks, want %d", len(pb.DemixingSubblocks), numSubblocks)
		}
		for _, s := range pb.DemixingSubblocks {
			if err := s.marshal(w); err != nil {
				return err
			}
		}
	case ParamTypeReconGain:
		if len(pb.ReconGainSubblocks) != numSubblocks {
			return iamferr.New(iamferr.InvalidInput, "ParameterBlock.Marshal", "have %d recon-gain subblocks, want %d", len(pb.ReconGainSubblocks), numSubblocks)
		}
		for _, s := range pb.ReconGainSubblocks {
			if err := s.marshal(w); err != nil {
				return err
			}
		}
	case ParamTypePolar, ParamTypeCart8, ParamTypeCart16, ParamTypeDualPolar, ParamTypeDualCart8, ParamTypeDualCart16:
		if len(pb.PositionSubblocks) != numSubblocks {
			return iamferr.New(iamferr.InvalidInput, "ParameterBlock.Marshal", "have %d position subblocks, want %d", len(pb.PositionSubblocks), numSubblocks)
		}
		for _, points := range pb.PositionSubblocks {
			if err := writePositionPoints(w, def.Type, points); err != nil {
				return err
			}
		}
	default:
		if len(pb.ExtensionSubblocks) != numSubblocks {
			return iamferr.New(iamferr.InvalidInput, "ParameterBlock.Marshal", "have %d extension subblocks, want %d", len(pb.ExtensionSubblocks), numSubblocks)
		}
		for _, s := range pb.ExtensionSubblocks {
			if err := s.marshal(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseParameterBlock reads a parameter block governed by def from r.
// reconGainLayerCount supplies the number of present-recon-gain layers; pass
// nil when def.Type is not ParamTypeReconGain.
func ParseParameterBlock(r *bitio.Reader, def *ParameterDefinition, reconGainLayerCount numReconGainLayersFunc) (*ParameterBlock, error) {
	id, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseParameterBlock: parameter_id")
	}
	pb := &ParameterBlock{ParameterID: id}

	if def.Common.Mode == 1 {
		dur, err := r.ReadUleb128()
		if err != nil {
			return nil, iamferr.Wrap(err, "ParseParameterBlock: duration")
		}
		constant, err := r.ReadUleb128()
		if err != nil {
			return nil, iamferr.Wrap(err, "ParseParameterBlock: constant_subblock_duration")
		}
		pb.HasPerBlockDuration = true
		pb.PerBlockDuration = dur
		pb.PerBlockConstantSubblockDuration = constant
		if constant == 0 {
			n, err := r.ReadUleb128()
			if err != nil {
				return nil, iamferr.Wrap(err, "ParseParameterBlock: num_subblocks")
			}
			durs := make([]uint32, n)
			for i := range durs {
				d, err := r.ReadUleb128()
				if err != nil {
					return nil, iamferr.Wrap(err, "ParseParameterBlock: subblock_duration")
				}
				durs[i] = d
			}
			pb.PerBlockSubblockDurations = durs
		}
	}

	numSubblocks, _, _, _ := pb.resolvedSubblocks(def)

	switch def.Type {
	case ParamTypeMixGain:
		subs := make([]*MixGainSubblock, numSubblocks)
		for i := range subs {
			s, err := parseMixGainSubblock(r)
			if err != nil {
				return nil, err
			}
			subs[i] = s
		}
		pb.MixGainSubblocks = subs
	case ParamTypeDemixing:
		subs := make([]*DemixingSubblock, numSubblocks)
		for i := range subs {
			s, err := parseDemixingSubblock(r)
			if err != nil {
				return nil, err
			}
			subs[i] = s
		}
		pb.DemixingSubblocks = subs
	case ParamTypeReconGain:
		if reconGainLayerCount == nil {
			return nil, iamferr.New(iamferr.Internal, "ParseParameterBlock", "recon-gain layer count function is nil")
		}
		n := reconGainLayerCount()
		subs := make([]*ReconGainSubblock, numSubblocks)
		for i := range subs {
			s, err := parseReconGainSubblock(r, n)
			if err != nil {
				return nil, err
			}
			subs[i] = s
		}
		pb.ReconGainSubblocks = subs
	case ParamTypePolar, ParamTypeCart8, ParamTypeCart16, ParamTypeDualPolar, ParamTypeDualCart8, ParamTypeDualCart16:
		subs := make([][]Point, numSubblocks)
		for i := range subs {
			points, err := readPositionPoints(r, def.Type)
			if err != nil {
				return nil, err
			}
			subs[i] = points
		}
		pb.PositionSubblocks = subs
	default:
		subs := make([]*ExtensionSubblock, numSubblocks)
		for i := range subs {
			s, err := parseExtensionSubblock(r)
			if err != nil {
				return nil, err
			}
			subs[i] = s
		}
		pb.ExtensionSubblocks = subs
	}
	return pb, nil
}

// WriteOBU writes the full Parameter Block OBU (header + payload) for pb to
// w, governed by def. reconGainLayers supplies the number of present-recon-
// gain layers; pass nil when def.Type is not ParamTypeReconGain.
func (pb *ParameterBlock) WriteOBU(w *bitio.Writer, def *ParameterDefinition, reconGainLayers numReconGainLayersFunc) error {
	body := bitio.NewWriter()
	if err := pb.Marshal(body, def, reconGainLayers); err != nil {
		return err
	}
	return WriteHeader(w, &Header{Type: TypeParameterBlock}, body.Bytes())
}

// ParseParameterBlockOBU parses a Parameter Block OBU's payload, governed by
// def. reconGainLayerCount supplies the number of present-recon-gain layers;
// pass nil when def.Type is not ParamTypeReconGain.
func ParseParameterBlockOBU(payload []byte, def *ParameterDefinition, reconGainLayerCount numReconGainLayersFunc) (*ParameterBlock, error) {
	r := bitio.NewReader(payload)
	pb, err := ParseParameterBlock(r, def, reconGainLayerCount)
	if err != nil {
		return nil, err
	}
	if r.BitsRemaining() != 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseParameterBlockOBU", "%d trailing bits after payload", r.BitsRemaining())
	}
	return pb, nil
}
