package halgpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

// compileSPIRV translates WGSL into little-endian SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	if wgsl == "" {
		return nil, fmt.Errorf("empty WGSL source")
	}
	code, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	if len(code)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V length %d is not a multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words, nil
}
