package rect

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rectloop/gpucore"
	"github.com/gogpu/rectloop/render"
)

// memDevice is an in-memory gpucore.Device that tracks live buffers.
type memDevice struct {
	buffers   []*memBuffer
	retired   []gpucore.Releasable
	pipelines int
	failOn    string
}

type memBuffer struct {
	label    string
	usage    gputypes.BufferUsage
	data     []byte
	released bool
}

func (b *memBuffer) Size() uint64 { return uint64(len(b.data)) }
func (b *memBuffer) Release()     { b.released = true }

type memPipeline struct {
	desc     *gpucore.RenderPipelineDescriptor
	released bool
}

func (p *memPipeline) Release() { p.released = true }

func (d *memDevice) Info() gpucore.AdapterInfo { return gpucore.AdapterInfo{Name: "mem"} }

func (d *memDevice) CreateBuffer(desc *gpucore.BufferDescriptor) (gpucore.Buffer, error) {
	if desc.Label == d.failOn {
		return nil, errors.New("out of memory")
	}
	b := &memBuffer{label: desc.Label, usage: desc.Usage, data: append([]byte(nil), desc.Contents...)}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *memDevice) CreateRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipeline, error) {
	if desc.Label == d.failOn {
		return nil, errors.New("bad shader")
	}
	d.pipelines++
	return &memPipeline{desc: desc}, nil
}

func (d *memDevice) CreateCommandRecorder(string) (gpucore.CommandRecorder, error) {
	return nil, errors.New("not supported")
}

func (d *memDevice) Submit(gpucore.CommandBuffer) {}

func (d *memDevice) Retire(r gpucore.Releasable) {
	d.retired = append(d.retired, r)
	r.Release()
}

func (d *memDevice) Close() {}

func (d *memDevice) buffer(label string) []*memBuffer {
	var out []*memBuffer
	for _, b := range d.buffers {
		if b.label == label {
			out = append(out, b)
		}
	}
	return out
}

func TestVertexLayouts(t *testing.T) {
	layouts := VertexLayouts()
	if len(layouts) != 2 {
		t.Fatalf("len(layouts) = %d, want 2", len(layouts))
	}

	quad := layouts[0]
	if quad.ArrayStride != 8 || quad.StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("quad layout = %+v", quad)
	}
	if len(quad.Attributes) != 1 || quad.Attributes[0].ShaderLocation != 0 {
		t.Errorf("quad attributes = %+v", quad.Attributes)
	}

	inst := layouts[1]
	if uint64(inst.ArrayStride) != render.InstanceStride || inst.StepMode != gputypes.VertexStepModeInstance {
		t.Errorf("instance layout = %+v", inst)
	}
	want := []struct {
		loc    uint32
		offset uint64
		format gputypes.VertexFormat
	}{
		{1, 0, gputypes.VertexFormatFloat32x2},
		{2, 8, gputypes.VertexFormatFloat32x2},
		{3, 16, gputypes.VertexFormatFloat32x3},
	}
	if len(inst.Attributes) != len(want) {
		t.Fatalf("instance attributes = %d, want %d", len(inst.Attributes), len(want))
	}
	for i, w := range want {
		a := inst.Attributes[i]
		if uint32(a.ShaderLocation) != w.loc || uint64(a.Offset) != w.offset || a.Format != w.format {
			t.Errorf("attribute %d = %+v, want location %d offset %d", i, a, w.loc, w.offset)
		}
	}
}

func TestPipelineDescriptor(t *testing.T) {
	desc := PipelineDescriptor(gputypes.TextureFormatBGRA8UnormSrgb)
	if desc.Label != "rect_pipeline" {
		t.Errorf("Label = %q", desc.Label)
	}
	if desc.Format != gputypes.TextureFormatBGRA8UnormSrgb {
		t.Errorf("Format = %v", desc.Format)
	}
	if desc.Primitive.Topology != gputypes.PrimitiveTopologyTriangleList ||
		desc.Primitive.FrontFace != gputypes.FrontFaceCCW ||
		desc.Primitive.CullMode != gputypes.CullModeBack {
		t.Errorf("Primitive = %+v", desc.Primitive)
	}
	if desc.Samples() != 1 || desc.Blend != nil || desc.WriteMask != gputypes.ColorWriteMaskAll {
		t.Errorf("samples=%d blend=%v mask=%v", desc.Samples(), desc.Blend, desc.WriteMask)
	}
	if vs, fs := desc.Entries(); vs != "vs_main" || fs != "fs_main" {
		t.Errorf("entries = %q, %q", vs, fs)
	}
}

func TestShaderSource(t *testing.T) {
	src := ShaderSource()
	for _, want := range []string{"fn vs_main", "fn fs_main", "@location(3)"} {
		if !strings.Contains(src, want) {
			t.Errorf("shader source missing %q", want)
		}
	}
}

func TestShaderCompiles(t *testing.T) {
	words, err := gpucore.CompileWGSL(ShaderSource())
	if err != nil {
		if strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported") {
			t.Skipf("naga feature not yet implemented: %v", err)
		}
		t.Fatalf("CompileWGSL: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("CompileWGSL returned no words")
	}
	if words[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x", words[0])
	}
}

func TestQuadGeometry(t *testing.T) {
	v := packCorners()
	if len(v) != 4*quadVertexStride {
		t.Fatalf("len(corners) = %d", len(v))
	}
	f := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(v[i*4:])) }
	want := []float32{1, 1, -1, 1, -1, -1, 1, -1}
	for i, w := range want {
		if f(i) != w {
			t.Errorf("corner component %d = %v, want %v", i, f(i), w)
		}
	}

	idx := packIndices()
	if len(idx) != IndexCount*2 {
		t.Fatalf("len(indices) = %d", len(idx))
	}
	for i, w := range []uint16{0, 1, 2, 2, 3, 0} {
		if got := binary.LittleEndian.Uint16(idx[i*2:]); got != w {
			t.Errorf("index %d = %d, want %d", i, got, w)
		}
	}
}

func TestNew(t *testing.T) {
	dev := &memDevice{}
	p, err := New(dev, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format = %v", p.Format())
	}
	if dev.pipelines != 1 {
		t.Errorf("pipelines = %d, want 1", dev.pipelines)
	}
	v := dev.buffer("rect_quad_vertices")
	if len(v) != 1 || v[0].usage != gputypes.BufferUsageVertex || v[0].Size() != 32 {
		t.Errorf("vertex buffer = %+v", v)
	}
	ix := dev.buffer("rect_quad_indices")
	if len(ix) != 1 || ix[0].usage != gputypes.BufferUsageIndex || ix[0].Size() != 12 {
		t.Errorf("index buffer = %+v", ix)
	}
}

func TestNewFailureReleases(t *testing.T) {
	dev := &memDevice{failOn: "rect_pipeline"}
	if _, err := New(dev, gputypes.TextureFormatBGRA8Unorm); err == nil {
		t.Fatal("New should fail when the pipeline cannot be created")
	}
	for _, b := range dev.buffers {
		if !b.released {
			t.Errorf("buffer %q leaked", b.label)
		}
	}
}

func TestDrawItems(t *testing.T) {
	dev := &memDevice{}
	p, err := New(dev, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	instances := []render.Instance{
		{Position: [2]float32{0.5, 0}, Size: [2]float32{0.1, 0.1}, Color: [3]float32{1, 0, 0}},
		{Position: [2]float32{-0.5, 0}, Size: [2]float32{0.2, 0.2}, Color: [3]float32{0, 1, 0}},
	}
	items, err := p.DrawItems(instances)
	if err != nil {
		t.Fatalf("DrawItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	it := items[0]
	if it.Instances != gpucore.Span(2) {
		t.Errorf("Instances = %v, want [0,2)", it.Instances)
	}
	if len(it.VertexBuffers) != 2 {
		t.Fatalf("VertexBuffers = %d, want 2", len(it.VertexBuffers))
	}
	idx, ok := it.Technique.(render.Indexed)
	if !ok {
		t.Fatalf("Technique = %T, want render.Indexed", it.Technique)
	}
	if idx.Indices != gpucore.Span(IndexCount) || idx.Format != gputypes.IndexFormatUint16 {
		t.Errorf("Indexed = %+v", idx)
	}

	inst := dev.buffer("rect_instances")
	if len(inst) != 1 || inst[0].Size() != 2*render.InstanceStride {
		t.Fatalf("instance buffers = %+v", inst)
	}
	if string(inst[0].data) != string(render.EncodeInstances(instances)) {
		t.Error("instance buffer contents differ from the encoded instances")
	}
}

func TestDrawItemsRetiresPreviousBuffer(t *testing.T) {
	dev := &memDevice{}
	p, err := New(dev, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	one := []render.Instance{{Size: [2]float32{1, 1}}}
	if _, err := p.DrawItems(one); err != nil {
		t.Fatal(err)
	}
	if _, err := p.DrawItems(one); err != nil {
		t.Fatal(err)
	}
	inst := dev.buffer("rect_instances")
	if len(inst) != 2 {
		t.Fatalf("instance buffers = %d, want 2", len(inst))
	}
	if !inst[0].released || inst[1].released {
		t.Errorf("released = %v, %v; want first retired only", inst[0].released, inst[1].released)
	}
}

func TestDrawItemsEmpty(t *testing.T) {
	dev := &memDevice{}
	p, err := New(dev, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	items, err := p.DrawItems(nil)
	if err != nil {
		t.Fatalf("DrawItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Instances != gpucore.Span(0) || !items[0].Instances.Empty() {
		t.Errorf("Instances = %v, want [0,0)", items[0].Instances)
	}
	if b := dev.buffer("rect_instances"); len(b) != 1 || b[0].Size() != 0 {
		t.Errorf("instance buffer = %+v, want one empty buffer", b)
	}
}

func TestDrawItemsBufferError(t *testing.T) {
	dev := &memDevice{}
	p, err := New(dev, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dev.failOn = "rect_instances"
	if _, err := p.DrawItems([]render.Instance{{}}); err == nil {
		t.Error("DrawItems should report the buffer error")
	}
}

func TestRelease(t *testing.T) {
	dev := &memDevice{}
	d, err := Builder(dev, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("Builder: %v", err)
	}
	if _, err := d.DrawItems([]render.Instance{{}}); err != nil {
		t.Fatal(err)
	}
	d.Release()
	if len(dev.retired) != 4 {
		t.Errorf("retired = %d, want 4", len(dev.retired))
	}
	for _, b := range dev.buffers {
		if !b.released {
			t.Errorf("buffer %q not released", b.label)
		}
	}

	d.Release()
	if len(dev.retired) != 4 {
		t.Errorf("second Release retired again: %d", len(dev.retired))
	}
	if _, err := d.DrawItems(nil); !errors.Is(err, ErrReleased) {
		t.Errorf("DrawItems after Release = %v, want ErrReleased", err)
	}
}
