/*
NAME
  interpolation.go

DESCRIPTION
  interpolation.go implements mix-gain subblock interpolation (step, linear,
  Bezier) at an arbitrary timestamp, the dmixp_mode down-mix parameter
  table, and the w_idx running-state table used by channel-based demixing.

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
	"math"

	"github.com/ausocean/iamf/iamferr"
	"github.com/ausocean/iamf/numeric"
	"gonum.org/v1/gonum/floats"
)

// Interpolate returns the mix-gain value of subblock m at absolute frame t,
// given the subblock's [start, end) span (start and end are absolute frame
// positions within the parameter's timeline). Values are returned as
// floats decoded from the subblock's Q7.8 points.
func (m *MixGainSubblock) Interpolate(t, start, end uint32) (float64, error) {
	if start > end {
		return 0, iamferr.New(iamferr.InvalidInput, "MixGainSubblock.Interpolate", "start %d > end %d", start, end)
	}
	if t < start || t > end {
		return 0, iamferr.New(iamferr.InvalidInput, "MixGainSubblock.Interpolate", "t %d outside [%d,%d]", t, start, end)
	}

	switch m.Animation {
	case AnimationStep:
		return numeric.Q7_8ToFloat(m.Points[0]), nil
	case AnimationLinear:
		if end == start {
			return numeric.Q7_8ToFloat(m.Points[0]), nil
		}
		tau := float64(t-start) / float64(end-start)
		p0 := numeric.Q7_8ToFloat(m.Points[0])
		p2 := numeric.Q7_8ToFloat(m.Points[1])
		return (1-tau)*p0 + tau*p2, nil
	case AnimationBezier:
		return m.interpolateBezier(t, start, end)
	default:
		return 0, iamferr.New(iamferr.InvalidInput, "MixGainSubblock.Interpolate", "unknown animation_type %d", m.Animation)
	}
}

// interpolateBezier implements the quadratic-Bezier formula of spec.md
// §4.G: it recovers the Bezier parameter `a` from the absolute-frame
// control-point position by solving the quadratic n(a) = n, then evaluates
// the Bezier curve at that `a` for the Q7.8 point values.
func (m *MixGainSubblock) interpolateBezier(t, start, end uint32) (float64, error) {
	n0 := float64(start)
	n2 := float64(end)
	tc := float64(m.ControlTime) / 256 // Q0.8 decode.
	n1 := math.Floor(float64(end)*tc + 0.5)
	n := float64(t)

	alpha := n0 - 2*n1 + n2
	beta := 2 * (n1 - n0)
	gamma := n0 - n

	var a float64
	if alpha == 0 {
		if beta == 0 {
			a = 0
		} else {
			a = -gamma / beta
		}
	} else {
		disc := beta*beta - 4*alpha*gamma
		if disc < 0 {
			return 0, iamferr.New(iamferr.InvalidInput, "interpolateBezier", "no real solution for t=%d", t)
		}
		a = (-beta + math.Sqrt(disc)) / (2 * alpha)
	}

	p0 := numeric.Q7_8ToFloat(m.Points[0])
	p1 := numeric.Q7_8ToFloat(m.Points[1])
	p2 := numeric.Q7_8ToFloat(m.Points[2])
	return (1-a)*(1-a)*p0 + 2*(1-a)*a*p1 + a*a*p2, nil
}

// DownmixParams is one row of the dmixp_mode table: the four down-mix
// coefficients and the per-tick w_idx offset that mode applies.
type DownmixParams struct {
	Alpha, Beta, Gamma, Delta float64
	WIdxOffset                int
}

// dmixpModeTable maps the six defined dmixp_mode values to their down-mix
// parameters, per the IAMF default down-mix matrix definitions.
var dmixpModeTable = [6]DownmixParams{
	{Alpha: 1, Beta: 1, Gamma: 0.707, Delta: 0.707, WIdxOffset: -1},
	{Alpha: 0.707, Beta: 0.707, Gamma: 0.707, Delta: 0.707, WIdxOffset: -1},
	{Alpha: 1, Beta: 0.866, Gamma: 0.866, Delta: 0.866, WIdxOffset: -1},
	{Alpha: 1, Beta: 1, Gamma: 0.707, Delta: 0.707, WIdxOffset: 1},
	{Alpha: 0.707, Beta: 0.707, Gamma: 0.707, Delta: 0.707, WIdxOffset: 1},
	{Alpha: 1, Beta: 0.866, Gamma: 0.866, Delta: 0.866, WIdxOffset: 1},
}

// DownmixParamsFor resolves dmixp_mode (0-5) to its table row.
func DownmixParamsFor(mode uint8) (DownmixParams, error) {
	if int(mode) >= len(dmixpModeTable) {
		return DownmixParams{}, iamferr.New(iamferr.Unsupported, "DownmixParamsFor", "dmixp_mode %d is reserved", mode)
	}
	return dmixpModeTable[mode], nil
}

// wIdxTable is the fixed 11-entry w_idx -> w lookup.
var wIdxTable = [11]float64{0, 0.0179, 0.0391, 0.0658, 0.1038, 0.25, 0.3962, 0.4342, 0.4609, 0.4821, 0.5}

// WFromIdx resolves a clamped w_idx (0-10) to its w value.
func WFromIdx(idx int) (float64, error) {
	if idx < 0 || idx >= len(wIdxTable) {
		return 0, iamferr.New(iamferr.InvalidInput, "WFromIdx", "w_idx %d out of [0,%d]", idx, len(wIdxTable)-1)
	}
	return wIdxTable[idx], nil
}

// NextWIdx advances the running w_idx state by offset, clamped to [0,10],
// per spec.md §4.G.
func NextWIdx(prev int, offset int) int {
	next := prev + offset
	return int(floats.Round(math.Max(0, math.Min(10, float64(next))), 0))
}
