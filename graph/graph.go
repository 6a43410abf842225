// SPDX-License-Identifier: Unlicense OR MIT

/*
Package graph implements render graphs: ordered lists of drawing and
effect nodes.

A graph is built by adding typed nodes,

	var g graph.Graph
	graph.Clear{Color: f32.Vec4{0, 0, 0, 1}}.Add(&g)
	graph.BlurPass{Radius: 4, Samples: 8}.Add(&g)

and flattened by Encode into a node type per node and a single
parameter tape. Every node type has a fixed number of parameters, its
arity, and Decode rejects tapes that don't add up.

Graphs are also stored in a versioned binary format, see
MarshalBinary, and a YAML text format, see MarshalYAML.
*/
package graph

import (
	"fmt"
	"strconv"

	"golang.org/x/image/math/f32"
)

// NodeType identifies the kind of a node on the wire.
type NodeType int32

const (
	TypeClear NodeType = iota
	TypeDrawRect
	TypeBlurPass
	TypeShadowPass
	TypeCompositePass
	TypeColorAdjust
)

var arities = [...]int{
	TypeClear:         4,
	TypeDrawRect:      8,
	TypeBlurPass:      2,
	TypeShadowPass:    8,
	TypeCompositePass: 1,
	TypeColorAdjust:   3,
}

var typeNames = [...]string{
	TypeClear:         "clear",
	TypeDrawRect:      "draw_rect",
	TypeBlurPass:      "blur",
	TypeShadowPass:    "shadow",
	TypeCompositePass: "composite",
	TypeColorAdjust:   "color_adjust",
}

// Arity returns the number of parameters of t, or -1 if t is unknown.
func (t NodeType) Arity() int {
	if t < 0 || int(t) >= len(arities) {
		return -1
	}
	return arities[t]
}

func (t NodeType) String() string {
	if t.Arity() < 0 {
		return "NodeType(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// ParseNodeType returns the node type named s.
func ParseNodeType(s string) (NodeType, error) {
	for t, n := range typeNames {
		if n == s {
			return NodeType(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNode, s)
}

// BlendMode selects the blend function of a CompositePass.
type BlendMode int32

const (
	// BlendNormal is source over destination.
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	// BlendOverlay adds the source to the destination.
	BlendOverlay
)

var blendNames = [...]string{
	BlendNormal:   "normal",
	BlendMultiply: "multiply",
	BlendScreen:   "screen",
	BlendOverlay:  "overlay",
}

// Valid reports whether m is a known blend mode.
func (m BlendMode) Valid() bool {
	return m >= 0 && int(m) < len(blendNames)
}

// String returns the name of m, or its number if m is unknown.
func (m BlendMode) String() string {
	if !m.Valid() {
		return strconv.Itoa(int(m))
	}
	return blendNames[m]
}

// ParseBlendMode parses a blend mode name or number. Numbers of
// unknown modes are accepted.
func ParseBlendMode(s string) (BlendMode, error) {
	for m, n := range blendNames {
		if n == s {
			return BlendMode(m), nil
		}
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("graph: unknown blend mode %q", s)
	}
	return BlendMode(v), nil
}

// Node is a render graph node. The set of nodes is closed; it is
// implemented by the node types of this package.
type Node interface {
	Type() NodeType
	appendParams(p []float32) []float32
}

// Clear fills the surface with a color.
type Clear struct {
	Color f32.Vec4
}

// DrawRect fills a rectangle in surface pixels, with the origin in
// the upper left corner.
type DrawRect struct {
	X, Y, W, H float32
	Color      f32.Vec4
}

// BlurPass blurs the surface.
type BlurPass struct {
	Radius  float32
	Samples int
}

// ShadowPass draws a drop shadow of the surface content beneath it.
type ShadowPass struct {
	Offset  f32.Vec2
	Color   f32.Vec4
	Blur    float32
	Opacity float32
}

// CompositePass sets the blend mode of subsequent draws.
type CompositePass struct {
	Mode BlendMode
}

// ColorAdjust scales the brightness, contrast and saturation of the
// surface. 1 leaves a factor unchanged.
type ColorAdjust struct {
	Brightness, Contrast, Saturation float32
}

func (n Clear) Type() NodeType         { return TypeClear }
func (n DrawRect) Type() NodeType      { return TypeDrawRect }
func (n BlurPass) Type() NodeType      { return TypeBlurPass }
func (n ShadowPass) Type() NodeType    { return TypeShadowPass }
func (n CompositePass) Type() NodeType { return TypeCompositePass }
func (n ColorAdjust) Type() NodeType   { return TypeColorAdjust }

func (n Clear) Add(g *Graph)         { g.add(n) }
func (n DrawRect) Add(g *Graph)      { g.add(n) }
func (n BlurPass) Add(g *Graph)      { g.add(n) }
func (n ShadowPass) Add(g *Graph)    { g.add(n) }
func (n CompositePass) Add(g *Graph) { g.add(n) }
func (n ColorAdjust) Add(g *Graph)   { g.add(n) }

func (n Clear) appendParams(p []float32) []float32 {
	return append(p, n.Color[:]...)
}

func (n DrawRect) appendParams(p []float32) []float32 {
	p = append(p, n.X, n.Y, n.W, n.H)
	return append(p, n.Color[:]...)
}

func (n BlurPass) appendParams(p []float32) []float32 {
	return append(p, n.Radius, float32(n.Samples))
}

func (n ShadowPass) appendParams(p []float32) []float32 {
	p = append(p, n.Offset[:]...)
	p = append(p, n.Color[:]...)
	return append(p, n.Blur, n.Opacity)
}

func (n CompositePass) appendParams(p []float32) []float32 {
	return append(p, float32(n.Mode))
}

func (n ColorAdjust) appendParams(p []float32) []float32 {
	return append(p, n.Brightness, n.Contrast, n.Saturation)
}

// Graph is an ordered list of nodes. The zero value is an empty graph
// ready to use.
type Graph struct {
	nodes []Node
}

func (g *Graph) add(n Node) {
	g.nodes = append(g.nodes, n)
}

// Nodes returns the nodes of g in order. The slice is valid until the
// next modification of g.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Reset clears g for reuse.
func (g *Graph) Reset() {
	clear(g.nodes)
	g.nodes = g.nodes[:0]
}

// Encode flattens g into node types and a parameter tape.
func (g *Graph) Encode() (types []int32, params []float32) {
	types = make([]int32, 0, len(g.nodes))
	n := 0
	for _, nd := range g.nodes {
		types = append(types, int32(nd.Type()))
		n += nd.Type().Arity()
	}
	params = make([]float32, 0, n)
	for _, nd := range g.nodes {
		params = nd.appendParams(params)
	}
	return types, params
}
