package gpucore

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/naga"

	"github.com/gogpu/rectloop/internal/cache"
)

// ErrEmptyShader is returned when compiling empty WGSL source.
var ErrEmptyShader = errors.New("gpucore: empty shader source")

// compiled memoizes SPIR-V by WGSL source across devices.
var compiled = cache.New[string, []uint32](32)

// CompileWGSL compiles WGSL source to SPIR-V words. Results are cached by
// source; the returned slice belongs to the caller.
func CompileWGSL(src string) ([]uint32, error) {
	if src == "" {
		return nil, ErrEmptyShader
	}
	words, err := compiled.GetOrCreate(src, func() ([]uint32, error) {
		spirv, err := naga.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("compile shader: %w", err)
		}
		return SPIRVWords(spirv)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(words), nil
}

// ShaderCacheStats reports hits and misses of the CompileWGSL cache.
func ShaderCacheStats() cache.Stats { return compiled.Stats() }

// SPIRVWords converts little-endian SPIR-V bytes to 32-bit words.
func SPIRVWords(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("gpucore: SPIR-V length %d is not a multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words, nil
}
