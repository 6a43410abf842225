// SPDX-License-Identifier: Unlicense OR MIT

package graph

import (
	"errors"
	"fmt"

	"golang.org/x/image/math/f32"
)

var (
	// ErrUnknownNode is returned for node types outside the known set.
	ErrUnknownNode = errors.New("graph: unknown node type")
	// ErrArity is returned when the parameter tape does not match the
	// arities of the node types.
	ErrArity = errors.New("graph: parameter count mismatch")
)

// Decode validates a node type list and its parameter tape and
// returns the graph they encode. Nothing is decoded unless the whole
// tape is valid. Integer parameters are truncated toward zero.
func Decode(types []int32, params []float32) (*Graph, error) {
	want, err := tapeLen(types)
	if err != nil {
		return nil, err
	}
	if want != len(params) {
		return nil, fmt.Errorf("%w: %d nodes need %d parameters, got %d", ErrArity, len(types), want, len(params))
	}
	g := &Graph{nodes: make([]Node, 0, len(types))}
	for _, t := range types {
		typ := NodeType(t)
		n := typ.Arity()
		g.add(decodeNode(typ, params[:n]))
		params = params[n:]
	}
	return g, nil
}

// tapeLen returns the sum of arities of types.
func tapeLen(types []int32) (int, error) {
	n := 0
	for i, t := range types {
		a := NodeType(t).Arity()
		if a < 0 {
			return 0, fmt.Errorf("%w: %d at node %d", ErrUnknownNode, t, i)
		}
		n += a
	}
	return n, nil
}

func decodeNode(t NodeType, p []float32) Node {
	switch t {
	case TypeClear:
		return Clear{Color: f32.Vec4{p[0], p[1], p[2], p[3]}}
	case TypeDrawRect:
		return DrawRect{
			X: p[0], Y: p[1], W: p[2], H: p[3],
			Color: f32.Vec4{p[4], p[5], p[6], p[7]},
		}
	case TypeBlurPass:
		return BlurPass{Radius: p[0], Samples: int(p[1])}
	case TypeShadowPass:
		return ShadowPass{
			Offset:  f32.Vec2{p[0], p[1]},
			Color:   f32.Vec4{p[2], p[3], p[4], p[5]},
			Blur:    p[6],
			Opacity: p[7],
		}
	case TypeCompositePass:
		return CompositePass{Mode: BlendMode(int32(p[0]))}
	case TypeColorAdjust:
		return ColorAdjust{Brightness: p[0], Contrast: p[1], Saturation: p[2]}
	default:
		panic("unreachable")
	}
}
