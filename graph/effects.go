// SPDX-License-Identifier: Unlicense OR MIT

package graph

import (
	"golang.org/x/image/math/f32"
)

// EffectKind identifies an effect of an EffectStack.
type EffectKind uint8

const (
	EffectBlur EffectKind = iota
	EffectShadow
	EffectGlow
	EffectGradient
	EffectBrightness
	EffectContrast
	EffectSaturation
)

// EffectParams holds the parameters of every effect kind. Each effect
// reads only the fields of its kind.
type EffectParams struct {
	BlurRadius  float32
	BlurSamples int

	ShadowOffset  f32.Vec2
	ShadowColor   f32.Vec4
	ShadowBlur    float32
	ShadowOpacity float32

	GlowIntensity float32
	GlowColor     f32.Vec4

	GradientStart f32.Vec4
	GradientEnd   f32.Vec4
	GradientAngle float32

	Brightness float32
	Contrast   float32
	Saturation float32
}

// DefaultEffectParams returns the parameters effects start from.
func DefaultEffectParams() EffectParams {
	return EffectParams{
		BlurRadius:    5,
		BlurSamples:   8,
		ShadowOffset:  f32.Vec2{0, 4},
		ShadowColor:   f32.Vec4{0, 0, 0, .5},
		ShadowBlur:    8,
		ShadowOpacity: .5,
		GlowIntensity: 1.5,
		GlowColor:     f32.Vec4{1, 1, 1, 1},
		GradientStart: f32.Vec4{1, 1, 1, 1},
		GradientEnd:   f32.Vec4{0, 0, 0, 1},
		Brightness:    1,
		Contrast:      1,
		Saturation:    1,
	}
}

// Effect is an effect kind with its parameters.
type Effect struct {
	Kind   EffectKind
	Params EffectParams
}

func Blur(radius float32) Effect {
	p := DefaultEffectParams()
	p.BlurRadius = radius
	return Effect{Kind: EffectBlur, Params: p}
}

func Shadow(offset f32.Vec2, color f32.Vec4, blur float32) Effect {
	p := DefaultEffectParams()
	p.ShadowOffset, p.ShadowColor, p.ShadowBlur = offset, color, blur
	return Effect{Kind: EffectShadow, Params: p}
}

func Glow(intensity float32) Effect {
	p := DefaultEffectParams()
	p.GlowIntensity = intensity
	return Effect{Kind: EffectGlow, Params: p}
}

// Gradient is accepted by EffectStack but has no render graph node.
func Gradient(start, end f32.Vec4, angle float32) Effect {
	p := DefaultEffectParams()
	p.GradientStart, p.GradientEnd, p.GradientAngle = start, end, angle
	return Effect{Kind: EffectGradient, Params: p}
}

func Brightness(v float32) Effect {
	p := DefaultEffectParams()
	p.Brightness = v
	return Effect{Kind: EffectBrightness, Params: p}
}

func Contrast(v float32) Effect {
	p := DefaultEffectParams()
	p.Contrast = v
	return Effect{Kind: EffectContrast, Params: p}
}

func Saturation(v float32) Effect {
	p := DefaultEffectParams()
	p.Saturation = v
	return Effect{Kind: EffectSaturation, Params: p}
}

// EffectStack is an ordered list of effects.
type EffectStack struct {
	effects []Effect
}

func (s *EffectStack) Push(e Effect) {
	s.effects = append(s.effects, e)
}

func (s *EffectStack) Effects() []Effect {
	return s.effects
}

func (s *EffectStack) Len() int {
	return len(s.effects)
}

// glow is the blur used for EffectGlow.
var glow = BlurPass{Radius: 8, Samples: 8}

// FromEffectStack returns a graph drawing rect with color and then
// applying the effects of s in order. Glow becomes a blur followed by
// a screen composite; brightness, contrast and saturation become a
// ColorAdjust. Gradients are skipped.
//
// The rectangle comes first, not last: the passes work on what is
// already on the surface, so a shape drawn after them would cover its
// own shadow and glow and be left unblurred.
func FromEffectStack(s *EffectStack, rect DrawRect) *Graph {
	g := new(Graph)
	rect.Add(g)
	for _, e := range s.effects {
		p := e.Params
		switch e.Kind {
		case EffectShadow:
			ShadowPass{
				Offset:  p.ShadowOffset,
				Color:   p.ShadowColor,
				Blur:    p.ShadowBlur,
				Opacity: p.ShadowOpacity,
			}.Add(g)
		case EffectBlur:
			BlurPass{Radius: p.BlurRadius, Samples: p.BlurSamples}.Add(g)
		case EffectGlow:
			glow.Add(g)
			CompositePass{Mode: BlendScreen}.Add(g)
		case EffectBrightness, EffectContrast, EffectSaturation:
			ColorAdjust{Brightness: p.Brightness, Contrast: p.Contrast, Saturation: p.Saturation}.Add(g)
		}
	}
	return g
}
