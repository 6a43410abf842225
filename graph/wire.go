// SPDX-License-Identifier: Unlicense OR MIT

package graph

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Binary format, little endian:
//
//	magic   [3]byte "MRG"
//	version uint8
//	nodes   uint32
//	params  uint32
//	types   [nodes]int32
//	tape    [params]float32
const (
	wireMagic   = "MRG"
	wireVersion = 1
	headerLen   = len(wireMagic) + 1 + 4 + 4
)

var (
	// ErrVersion is returned for binary graphs of an unknown version.
	ErrVersion = errors.New("graph: unsupported version")
	// ErrFormat is returned for data that is not a binary graph.
	ErrFormat = errors.New("graph: malformed data")
)

// MarshalBinary encodes g in the binary format.
func (g *Graph) MarshalBinary() ([]byte, error) {
	types, params := g.Encode()
	data := make([]byte, headerLen, headerLen+4*(len(types)+len(params)))
	copy(data, wireMagic)
	data[3] = wireVersion
	binary.LittleEndian.PutUint32(data[4:], uint32(len(types)))
	binary.LittleEndian.PutUint32(data[8:], uint32(len(params)))
	for _, t := range types {
		data = binary.LittleEndian.AppendUint32(data, uint32(t))
	}
	for _, p := range params {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(p))
	}
	return data, nil
}

// UnmarshalBinary replaces g with the graph encoded in data. g is
// unchanged if data is invalid.
func (g *Graph) UnmarshalBinary(data []byte) error {
	if len(data) < headerLen || string(data[:3]) != wireMagic {
		return ErrFormat
	}
	if v := data[3]; v != wireVersion {
		return fmt.Errorf("%w: %d", ErrVersion, v)
	}
	nt := uint64(binary.LittleEndian.Uint32(data[4:]))
	np := uint64(binary.LittleEndian.Uint32(data[8:]))
	body := data[headerLen:]
	if uint64(len(body)) != 4*(nt+np) {
		return fmt.Errorf("%w: %d bytes for %d nodes and %d parameters", ErrFormat, len(body), nt, np)
	}
	types := make([]int32, nt)
	for i := range types {
		types[i] = int32(binary.LittleEndian.Uint32(body))
		body = body[4:]
	}
	params := make([]float32, np)
	for i := range params {
		params[i] = math.Float32frombits(binary.LittleEndian.Uint32(body))
		body = body[4:]
	}
	dec, err := Decode(types, params)
	if err != nil {
		return err
	}
	*g = *dec
	return nil
}
