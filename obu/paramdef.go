/*
NAME
  paramdef.go

DESCRIPTION
  paramdef.go implements Parameter Definitions: the common id/rate/mode/
  duration/subblock-duration header shared by every parameter type, plus the
  typed payload that follows it (mix-gain, demixing, recon-gain, one of six
  positional shapes, or an opaque extension for unrecognized types).

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

// ParamType is the 8-bit type tag preceding every parameter definition.
type ParamType uint8

// Defined parameter types.
const (
	ParamTypeMixGain ParamType = iota
	ParamTypeDemixing
	ParamTypeReconGain
	ParamTypePolar
	ParamTypeCart8
	ParamTypeCart16
	ParamTypeDualPolar
	ParamTypeDualCart8
	ParamTypeDualCart16
	ParamTypeExtension
)

// isPositional reports whether t is one of the six positional parameter
// types, which share the default-position-field layout.
func (t ParamType) isPositional() bool {
	switch t {
	case ParamTypePolar, ParamTypeCart8, ParamTypeCart16, ParamTypeDualPolar, ParamTypeDualCart8, ParamTypeDualCart16:
		return true
	}
	return false
}

// pointCount returns how many position points t carries: 1 for single
// shapes, 2 for dual shapes.
func (t ParamType) pointCount() int {
	switch t {
	case ParamTypeDualPolar, ParamTypeDualCart8, ParamTypeDualCart16:
		return 2
	default:
		return 1
	}
}

// Position clamp ranges, per spec.
const (
	azimuthMin, azimuthMax     = -180, 180
	elevationMin, elevationMax = -90, 90
	distanceMax                = 1<<7 - 1
)

// Point is a single position sample, interpreted according to the owning
// ParamType: Azimuth/Elevation/Distance for polar shapes, X/Y/Z for
// Cartesian shapes.
type Point struct {
	Azimuth  int16 // 9-bit signed, clamped to [-180,180].
	Elevation int8  // 8-bit signed, clamped to [-90,90].
	Distance  uint8 // 7-bit unsigned, clamped to [0,127].

	X, Y, Z int32 // 8- or 16-bit signed, per ParamType.
}

// CommonDef is the header fields shared by every parameter definition.
type CommonDef struct {
	ID   uint32
	Rate uint32

	// Mode is 1 bit: 0 means duration/subblock fields live here; 1 means
	// they are supplied per parameter block instead.
	Mode uint8

	// Duration, ConstantSubblockDuration, and SubblockDurations are only
	// meaningful when Mode == 0.
	Duration                 uint32
	ConstantSubblockDuration uint32
	SubblockDurations        []uint32
}

// Validate checks CommonDef's self-contained invariants (mode-0 duration
// arithmetic); it does not check type-specific constraints such as the
// demixing/recon-gain single-subblock requirement.
func (c *CommonDef) Validate() error {
	if c.Rate == 0 {
		return iamferr.New(iamferr.InvalidInput, "CommonDef.Validate", "parameter_rate must be nonzero")
	}
	if c.Mode != 0 {
		return nil
	}
	if c.Duration == 0 {
		return iamferr.New(iamferr.InvalidInput, "CommonDef.Validate", "duration must be > 0 when mode is 0")
	}
	if c.ConstantSubblockDuration > c.Duration {
		return iamferr.New(iamferr.InvalidInput, "CommonDef.Validate", "constant_subblock_duration %d exceeds duration %d", c.ConstantSubblockDuration, c.Duration)
	}
	if c.ConstantSubblockDuration != 0 {
		return nil
	}
	var sum uint32
	for _, d := range c.SubblockDurations {
		if d == 0 {
			return iamferr.New(iamferr.InvalidInput, "CommonDef.Validate", "subblock duration must be > 0")
		}
		sum += d
	}
	if sum != c.Duration {
		return iamferr.New(iamferr.InvalidInput, "CommonDef.Validate", "subblock durations sum to %d, want %d", sum, c.Duration)
	}
	return nil
}

func (c *CommonDef) marshal(w *bitio.Writer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := w.WriteUleb128(c.ID); err != nil {
		return iamferr.Wrap(err, "CommonDef.marshal: parameter_id")
	}
	if err := w.WriteUleb128(c.Rate); err != nil {
		return iamferr.Wrap(err, "CommonDef.marshal: parameter_rate")
	}
	if err := w.WriteU(1, uint64(c.Mode)); err != nil {
		return err
	}
	const reserved = 0
	if err := w.WriteU(7, reserved); err != nil {
		return err
	}
	if c.Mode != 0 {
		return nil
	}
	if err := w.WriteUleb128(c.Duration); err != nil {
		return iamferr.Wrap(err, "CommonDef.marshal: duration")
	}
	if err := w.WriteUleb128(c.ConstantSubblockDuration); err != nil {
		return iamferr.Wrap(err, "CommonDef.marshal: constant_subblock_duration")
	}
	if c.ConstantSubblockDuration != 0 {
		return nil
	}
	if err := w.WriteUleb128(uint32(len(c.SubblockDurations))); err != nil {
		return iamferr.Wrap(err, "CommonDef.marshal: num_subblocks")
	}
	for _, d := range c.SubblockDurations {
		if err := w.WriteUleb128(d); err != nil {
			return iamferr.Wrap(err, "CommonDef.marshal: subblock_duration")
		}
	}
	return nil
}

func parseCommonDef(r *bitio.Reader) (*CommonDef, error) {
	id, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "parseCommonDef: parameter_id")
	}
	rate, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "parseCommonDef: parameter_rate")
	}
	mode, err := r.ReadU(1)
	if err != nil {
		return nil, iamferr.Wrap(err, "parseCommonDef: param_definition_mode")
	}
	if _, err := r.ReadU(7); err != nil {
		return nil, iamferr.Wrap(err, "parseCommonDef: reserved")
	}

	c := &CommonDef{ID: id, Rate: rate, Mode: uint8(mode)}
	if c.Mode == 0 {
		dur, err := r.ReadUleb128()
		if err != nil {
			return nil, iamferr.Wrap(err, "parseCommonDef: duration")
		}
		constant, err := r.ReadUleb128()
		if err != nil {
			return nil, iamferr.Wrap(err, "parseCommonDef: constant_subblock_duration")
		}
		c.Duration = dur
		c.ConstantSubblockDuration = constant
		if constant == 0 {
			n, err := r.ReadUleb128()
			if err != nil {
				return nil, iamferr.Wrap(err, "parseCommonDef: num_subblocks")
			}
			durs := make([]uint32, n)
			for i := range durs {
				d, err := r.ReadUleb128()
				if err != nil {
					return nil, iamferr.Wrap(err, "parseCommonDef: subblock_duration")
				}
				durs[i] = d
			}
			c.SubblockDurations = durs
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParameterDefinition is a type-tagged parameter definition: the common
// header plus a type-specific payload. For ParamTypeExtension,
// ExtensionBytes holds the raw bytes instead of interpreted fields.
type ParameterDefinition struct {
	Type   ParamType
	Common CommonDef

	// Points holds 1 or 2 entries for positional types, per Type.pointCount.
	Points []Point

	// ExtensionBytes holds the raw payload for ParamTypeExtension or any
	// type tag this decoder does not recognize.
	ExtensionBytes []byte
}

// singleSubblockRequired reports whether t requires mode 0 with exactly one
// implicit subblock (constant_subblock_duration == duration).
func singleSubblockRequired(t ParamType) bool {
	return t == ParamTypeDemixing || t == ParamTypeReconGain
}

// Marshal validates d and writes the type tag, common header, and
// type-specific payload to w.
func (d *ParameterDefinition) Marshal(w *bitio.Writer) error {
	if singleSubblockRequired(d.Type) {
		if d.Common.Mode != 0 || d.Common.ConstantSubblockDuration != d.Common.Duration {
			return iamferr.New(iamferr.InvalidInput, "ParameterDefinition.Marshal", "%v requires mode 0 and constant_subblock_duration == duration", d.Type)
		}
	}
	if d.Type.isPositional() && len(d.Points) != d.Type.pointCount() {
		return iamferr.New(iamferr.InvalidInput, "ParameterDefinition.Marshal", "%v requires %d points, got %d", d.Type, d.Type.pointCount(), len(d.Points))
	}

	if err := w.WriteU(8, uint64(d.Type)); err != nil {
		return iamferr.Wrap(err, "ParameterDefinition.Marshal: type")
	}
	if err := d.Common.marshal(w); err != nil {
		return err
	}

	switch d.Type {
	case ParamTypeMixGain, ParamTypeDemixing, ParamTypeReconGain:
		return nil
	case ParamTypeExtension:
		if err := w.WriteUleb128(uint32(len(d.ExtensionBytes))); err != nil {
			return iamferr.Wrap(err, "ParameterDefinition.Marshal: extension size")
		}
		return w.WriteBytes(d.ExtensionBytes)
	default:
		return writePositionPoints(w, d.Type, d.Points)
	}
}

// writePositionPoints writes the points for a positional type.
func writePositionPoints(w *bitio.Writer, t ParamType, points []Point) error {
	for _, p := range points {
		switch t {
		case ParamTypePolar, ParamTypeDualPolar:
			if err := writeClampedPoint(w, p); err != nil {
				return err
			}
		case ParamTypeCart8, ParamTypeDualCart8:
			if err := writeCartesian(w, p, 8); err != nil {
				return err
			}
		case ParamTypeCart16, ParamTypeDualCart16:
			if err := writeCartesian(w, p, 16); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeClampedPoint(w *bitio.Writer, p Point) error {
	if p.Azimuth < azimuthMin || p.Azimuth > azimuthMax {
		return iamferr.New(iamferr.RangeError, "writeClampedPoint", "azimuth %d out of [%d,%d]", p.Azimuth, azimuthMin, azimuthMax)
	}
	if p.Elevation < elevationMin || p.Elevation > elevationMax {
		return iamferr.New(iamferr.RangeError, "writeClampedPoint", "elevation %d out of [%d,%d]", p.Elevation, elevationMin, elevationMax)
	}
	if p.Distance > distanceMax {
		return iamferr.New(iamferr.RangeError, "writeClampedPoint", "distance %d exceeds %d", p.Distance, distanceMax)
	}
	if err := w.WriteS(9, int64(p.Azimuth)); err != nil {
		return err
	}
	if err := w.WriteS(8, int64(p.Elevation)); err != nil {
		return err
	}
	return w.WriteU(7, uint64(p.Distance))
}

func writeCartesian(w *bitio.Writer, p Point, width int) error {
	lo, hi := signedRangeFor(width)
	for _, v := range [3]int32{p.X, p.Y, p.Z} {
		if v < lo || v > hi {
			return iamferr.New(iamferr.RangeError, "writeCartesian", "component %d out of %d-bit signed range", v, width)
		}
		if err := w.WriteS(width, int64(v)); err != nil {
			return err
		}
	}
	return nil
}

func signedRangeFor(width int) (lo, hi int32) {
	return int32(-(1 << (width - 1))), int32(1<<(width-1) - 1)
}

// ParseParameterDefinition reads a type-tagged parameter definition from r.
// An unrecognized type tag is preserved as ParamTypeExtension with its
// declared-length bytes; declaredExtLen supplies that length since unknown
// types have no self-describing size of their own in this wire format and
// must be told how many bytes remain for them by the caller.
// ParseAudioElement and the Mix Presentation parsers pass 0, so an
// unrecognized type tag read through them keeps no payload bytes.
func ParseParameterDefinition(r *bitio.Reader, declaredExtLen uint32) (*ParameterDefinition, error) {
	typ, err := r.ReadU(8)
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseParameterDefinition: type")
	}
	common, err := parseCommonDef(r)
	if err != nil {
		return nil, err
	}

	d := &ParameterDefinition{Type: ParamType(typ), Common: *common}

	switch d.Type {
	case ParamTypeMixGain, ParamTypeDemixing, ParamTypeReconGain:
		if singleSubblockRequired(d.Type) && (common.Mode != 0 || common.ConstantSubblockDuration != common.Duration) {
			return nil, iamferr.New(iamferr.InvalidInput, "ParseParameterDefinition", "%v requires mode 0 and constant_subblock_duration == duration", d.Type)
		}
		return d, nil
	case ParamTypeExtension:
		size, err := r.ReadUleb128()
		if err != nil {
			return nil, iamferr.Wrap(err, "ParseParameterDefinition: extension size")
		}
		b, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, iamferr.Wrap(err, "ParseParameterDefinition: extension bytes")
		}
		d.ExtensionBytes = b
		return d, nil
	case ParamTypePolar, ParamTypeCart8, ParamTypeCart16, ParamTypeDualPolar, ParamTypeDualCart8, ParamTypeDualCart16:
		points, err := readPositionPoints(r, d.Type)
		if err != nil {
			return nil, err
		}
		d.Points = points
		return d, nil
	default:
		b, err := r.ReadBytes(int(declaredExtLen))
		if err != nil {
			return nil, iamferr.Wrap(err, "ParseParameterDefinition: unknown-type bytes")
		}
		d.Type = ParamTypeExtension
		d.ExtensionBytes = b
		return d, nil
	}
}

func readPositionPoints(r *bitio.Reader, t ParamType) ([]Point, error) {
	n := t.pointCount()
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		switch t {
		case ParamTypePolar, ParamTypeDualPolar:
			p, err := readClampedPoint(r)
			if err != nil {
				return nil, err
			}
			points[i] = p
		case ParamTypeCart8, ParamTypeDualCart8:
			p, err := readCartesian(r, 8)
			if err != nil {
				return nil, err
			}
			points[i] = p
		case ParamTypeCart16, ParamTypeDualCart16:
			p, err := readCartesian(r, 16)
			if err != nil {
				return nil, err
			}
			points[i] = p
		}
	}
	return points, nil
}

func readClampedPoint(r *bitio.Reader) (Point, error) {
	az, err := r.ReadS(9)
	if err != nil {
		return Point{}, iamferr.Wrap(err, "readClampedPoint: azimuth")
	}
	el, err := r.ReadS(8)
	if err != nil {
		return Point{}, iamferr.Wrap(err, "readClampedPoint: elevation")
	}
	dist, err := r.ReadU(7)
	if err != nil {
		return Point{}, iamferr.Wrap(err, "readClampedPoint: distance")
	}
	if az < azimuthMin || az > azimuthMax {
		return Point{}, iamferr.New(iamferr.RangeError, "readClampedPoint", "azimuth %d out of [%d,%d]", az, azimuthMin, azimuthMax)
	}
	if el < elevationMin || el > elevationMax {
		return Point{}, iamferr.New(iamferr.RangeError, "readClampedPoint", "elevation %d out of [%d,%d]", el, elevationMin, elevationMax)
	}
	return Point{Azimuth: int16(az), Elevation: int8(el), Distance: uint8(dist)}, nil
}

func readCartesian(r *bitio.Reader, width int) (Point, error) {
	var vals [3]int64
	for i := range vals {
		v, err := r.ReadS(width)
		if err != nil {
			return Point{}, iamferr.Wrap(err, "readCartesian: component")
		}
		vals[i] = v
	}
	return Point{X: int32(vals[0]), Y: int32(vals[1]), Z: int32(vals[2])}, nil
}
