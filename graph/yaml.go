// SPDX-License-Identifier: Unlicense OR MIT

package graph

import (
	"fmt"

	"golang.org/x/image/math/f32"
	"gopkg.in/yaml.v3"
)

// yamlNode is the text form of a node:
//
//   - op: clear
//     color: [0, 0, 0, 1]
//   - op: draw_rect
//     rect: [10, 10, 100, 50]
//     color: [1, 0, 0, 1]
//   - op: blur
//     radius: 4
//     samples: 8
//   - op: shadow
//     offset: [0, 4]
//     color: [0, 0, 0, 0.5]
//     blur: 8
//     opacity: 0.5
//   - op: composite
//     mode: screen
//   - op: color_adjust
//     brightness: 1.2
//
// Omitted fields take the values of DefaultEffectParams.
type yamlNode struct {
	Op         string    `yaml:"op"`
	Rect       []float32 `yaml:"rect,omitempty,flow"`
	Color      []float32 `yaml:"color,omitempty,flow"`
	Offset     []float32 `yaml:"offset,omitempty,flow"`
	Radius     *float32  `yaml:"radius,omitempty"`
	Samples    *int      `yaml:"samples,omitempty"`
	Blur       *float32  `yaml:"blur,omitempty"`
	Opacity    *float32  `yaml:"opacity,omitempty"`
	Mode       string    `yaml:"mode,omitempty"`
	Brightness *float32  `yaml:"brightness,omitempty"`
	Contrast   *float32  `yaml:"contrast,omitempty"`
	Saturation *float32  `yaml:"saturation,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (g *Graph) MarshalYAML() (any, error) {
	nodes := make([]yamlNode, 0, len(g.nodes))
	for _, n := range g.nodes {
		y := yamlNode{Op: n.Type().String()}
		switch n := n.(type) {
		case Clear:
			y.Color = n.Color[:]
		case DrawRect:
			y.Rect = []float32{n.X, n.Y, n.W, n.H}
			y.Color = n.Color[:]
		case BlurPass:
			y.Radius, y.Samples = &n.Radius, &n.Samples
		case ShadowPass:
			y.Offset, y.Color = n.Offset[:], n.Color[:]
			y.Blur, y.Opacity = &n.Blur, &n.Opacity
		case CompositePass:
			y.Mode = n.Mode.String()
		case ColorAdjust:
			y.Brightness, y.Contrast, y.Saturation = &n.Brightness, &n.Contrast, &n.Saturation
		}
		nodes = append(nodes, y)
	}
	return nodes, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. g is unchanged if the
// document is invalid.
func (g *Graph) UnmarshalYAML(value *yaml.Node) error {
	var nodes []yamlNode
	if err := value.Decode(&nodes); err != nil {
		return err
	}
	dec := Graph{nodes: make([]Node, 0, len(nodes))}
	for i, y := range nodes {
		n, err := y.node()
		if err != nil {
			return fmt.Errorf("graph: node %d: %w", i, err)
		}
		dec.add(n)
	}
	*g = dec
	return nil
}

func (y yamlNode) node() (Node, error) {
	t, err := ParseNodeType(y.Op)
	if err != nil {
		return nil, err
	}
	def := DefaultEffectParams()
	switch t {
	case TypeClear:
		c, err := vec4(y.Color, "color", f32.Vec4{0, 0, 0, 1})
		return Clear{Color: c}, err
	case TypeDrawRect:
		if len(y.Rect) != 4 {
			return nil, fmt.Errorf("draw_rect: rect needs 4 values, got %d", len(y.Rect))
		}
		c, err := vec4(y.Color, "color", f32.Vec4{1, 1, 1, 1})
		return DrawRect{X: y.Rect[0], Y: y.Rect[1], W: y.Rect[2], H: y.Rect[3], Color: c}, err
	case TypeBlurPass:
		return BlurPass{
			Radius:  orDefault(y.Radius, def.BlurRadius),
			Samples: orDefault(y.Samples, def.BlurSamples),
		}, nil
	case TypeShadowPass:
		n := ShadowPass{
			Blur:    orDefault(y.Blur, def.ShadowBlur),
			Opacity: orDefault(y.Opacity, def.ShadowOpacity),
		}
		n.Color, err = vec4(y.Color, "color", def.ShadowColor)
		if err != nil {
			return nil, err
		}
		switch len(y.Offset) {
		case 0:
			n.Offset = def.ShadowOffset
		case 2:
			n.Offset = f32.Vec2{y.Offset[0], y.Offset[1]}
		default:
			return nil, fmt.Errorf("shadow: offset needs 2 values, got %d", len(y.Offset))
		}
		return n, nil
	case TypeCompositePass:
		if y.Mode == "" {
			return CompositePass{Mode: BlendNormal}, nil
		}
		m, err := ParseBlendMode(y.Mode)
		return CompositePass{Mode: m}, err
	case TypeColorAdjust:
		return ColorAdjust{
			Brightness: orDefault(y.Brightness, def.Brightness),
			Contrast:   orDefault(y.Contrast, def.Contrast),
			Saturation: orDefault(y.Saturation, def.Saturation),
		}, nil
	}
	panic("unreachable")
}

func vec4(v []float32, field string, def f32.Vec4) (f32.Vec4, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 4:
		return f32.Vec4{v[0], v[1], v[2], v[3]}, nil
	default:
		return f32.Vec4{}, fmt.Errorf("%s needs 4 values, got %d", field, len(v))
	}
}

func orDefault[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
