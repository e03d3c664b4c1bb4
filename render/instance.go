// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"
)

// InstanceStride is the size of one packed Instance in bytes.
const InstanceStride = 28

// Instance is the per-rectangle record uploaded to the GPU.
//
// Packed layout, little-endian float32, no padding:
//
//	offset  0: Position (x, y)
//	offset  8: Size (w, h)
//	offset 16: Color (r, g, b)
type Instance struct {
	Position [2]float32
	Size     [2]float32
	Color    [3]float32
}

// AppendBytes appends the packed form of in to dst.
func (in Instance) AppendBytes(dst []byte) []byte {
	dst = appendFloat32s(dst, in.Position[:])
	dst = appendFloat32s(dst, in.Size[:])
	return appendFloat32s(dst, in.Color[:])
}

// EncodeInstances packs instances in order. The result is exactly
// len(instances)*InstanceStride bytes.
func EncodeInstances(instances []Instance) []byte {
	buf := make([]byte, 0, len(instances)*InstanceStride)
	for _, in := range instances {
		buf = in.AppendBytes(buf)
	}
	return buf
}

func appendFloat32s(dst []byte, fs []float32) []byte {
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}
