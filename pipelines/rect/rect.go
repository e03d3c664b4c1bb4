package rect

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/rectloop/render"
)

//go:embed shaders/rect.wgsl
var shaderSource string

// ShaderSource returns the embedded WGSL source.
func ShaderSource() string { return shaderSource }

// ErrReleased is returned by DrawItems after Release.
var ErrReleased = errors.New("rect: pipeline released")

// quadVertexStride is the byte stride of one quad corner: vec2<f32> at location 0.
const quadVertexStride = 8

// IndexCount is the number of indices drawn per rectangle.
const IndexCount = 6

var (
	quadCorners = [4][2]float32{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
	quadIndices = [IndexCount]uint16{0, 1, 2, 2, 3, 0}
)

// VertexLayouts returns the two vertex buffer layouts, quad corners in slot 0
// and instances in slot 1.
//
// Instance attributes:
//
//	location 1: position (vec2<f32>) offset 0
//	location 2: size     (vec2<f32>) offset 8
//	location 3: color    (vec3<f32>) offset 16
func VertexLayouts() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: render.InstanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 3},
			},
		},
	}
}

// PipelineDescriptor returns the render pipeline description for format.
// Triangle list, counter-clockwise front faces, back faces culled, one
// sample, no blending and no depth.
func PipelineDescriptor(format gputypes.TextureFormat) *gpucore.RenderPipelineDescriptor {
	return &gpucore.RenderPipelineDescriptor{
		Label:              "rect_pipeline",
		WGSL:               shaderSource,
		VertexEntryPoint:   "vs_main",
		FragmentEntryPoint: "fs_main",
		VertexBuffers:      VertexLayouts(),
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		SampleCount: 1,
		Format:      format,
		Blend:       nil,
		WriteMask:   gputypes.ColorWriteMaskAll,
	}
}

// Pipeline is the instanced rectangle drawable.
type Pipeline struct {
	device gpucore.Device
	format gputypes.TextureFormat

	pipeline gpucore.RenderPipeline
	vertices gpucore.Buffer
	indices  gpucore.Buffer

	// instances is replaced every frame. The previous buffer is retired.
	instances gpucore.Buffer
}

// New creates the quad geometry and compiles the pipeline for format.
func New(dev gpucore.Device, format gputypes.TextureFormat) (*Pipeline, error) {
	p := &Pipeline{device: dev, format: format}

	var err error
	p.vertices, err = dev.CreateBuffer(&gpucore.BufferDescriptor{
		Label:    "rect_quad_vertices",
		Usage:    gputypes.BufferUsageVertex,
		Contents: packCorners(),
	})
	if err != nil {
		return nil, fmt.Errorf("rect: create vertex buffer: %w", err)
	}

	p.indices, err = dev.CreateBuffer(&gpucore.BufferDescriptor{
		Label:    "rect_quad_indices",
		Usage:    gputypes.BufferUsageIndex,
		Contents: packIndices(),
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("rect: create index buffer: %w", err)
	}

	p.pipeline, err = dev.CreateRenderPipeline(PipelineDescriptor(format))
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("rect: create pipeline: %w", err)
	}

	rectloop.Logger().Debug("rect: pipeline created", "format", format)
	return p, nil
}

// Builder adapts New to render.PipelineBuilder.
func Builder(dev gpucore.Device, format gputypes.TextureFormat) (render.Drawable, error) {
	p, err := New(dev, format)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Format returns the target format the pipeline was compiled for.
func (p *Pipeline) Format() gputypes.TextureFormat { return p.format }

// DrawItems uploads instances into a new buffer sized exactly to them and
// returns one indexed item drawing all six quad indices for every instance.
// An empty set yields a zero-length buffer and an empty instance range.
func (p *Pipeline) DrawItems(instances []render.Instance) ([]render.DrawItem, error) {
	if p.pipeline == nil {
		return nil, ErrReleased
	}

	buf, err := p.device.CreateBuffer(&gpucore.BufferDescriptor{
		Label:    "rect_instances",
		Usage:    gputypes.BufferUsageVertex,
		Contents: render.EncodeInstances(instances),
	})
	if err != nil {
		return nil, fmt.Errorf("rect: create instance buffer (%d instances): %w", len(instances), err)
	}
	if p.instances != nil {
		p.device.Retire(p.instances)
	}
	p.instances = buf

	return []render.DrawItem{{
		Pipeline:      p.pipeline,
		VertexBuffers: []gpucore.Buffer{p.vertices, p.instances},
		Technique: render.Indexed{
			IndexBuffer: p.indices,
			Format:      gputypes.IndexFormatUint16,
			Indices:     gpucore.Span(IndexCount),
		},
		Instances: gpucore.Span(uint32(len(instances))),
	}}, nil
}

// Release retires all GPU resources in reverse creation order. The device
// frees them once the last submitted frame has completed.
func (p *Pipeline) Release() {
	for _, r := range []gpucore.Releasable{p.instances, p.pipeline, p.indices, p.vertices} {
		if r != nil {
			p.device.Retire(r)
		}
	}
	p.instances, p.pipeline, p.indices, p.vertices = nil, nil, nil, nil
}

func packCorners() []byte {
	buf := make([]byte, 0, len(quadCorners)*quadVertexStride)
	for _, c := range quadCorners {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c[0]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c[1]))
	}
	return buf
}

func packIndices() []byte {
	buf := make([]byte, 0, len(quadIndices)*2)
	for _, i := range quadIndices {
		buf = binary.LittleEndian.AppendUint16(buf, i)
	}
	return buf
}
