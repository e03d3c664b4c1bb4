package gpucore

import "testing"

func TestRange(t *testing.T) {
	tests := []struct {
		name  string
		r     Range
		len   uint32
		empty bool
		str   string
	}{
		{"zero", Range{}, 0, true, "[0,0)"},
		{"span", Span(6), 6, false, "[0,6)"},
		{"offset", Range{Start: 2, End: 5}, 3, false, "[2,5)"},
		{"inverted", Range{Start: 5, End: 2}, 0, true, "[5,2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Len(); got != tt.len {
				t.Errorf("Len() = %d, want %d", got, tt.len)
			}
			if got := tt.r.Empty(); got != tt.empty {
				t.Errorf("Empty() = %v, want %v", got, tt.empty)
			}
			if got := tt.r.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestRenderPipelineDescriptorDefaults(t *testing.T) {
	var d RenderPipelineDescriptor
	vs, fs := d.Entries()
	if vs != "vs_main" || fs != "fs_main" {
		t.Errorf("Entries() = %q, %q, want vs_main, fs_main", vs, fs)
	}
	if d.Samples() != 1 {
		t.Errorf("Samples() = %d, want 1", d.Samples())
	}

	d = RenderPipelineDescriptor{VertexEntryPoint: "v", FragmentEntryPoint: "f", SampleCount: 4}
	vs, fs = d.Entries()
	if vs != "v" || fs != "f" || d.Samples() != 4 {
		t.Errorf("explicit values not kept: %q %q %d", vs, fs, d.Samples())
	}
}
