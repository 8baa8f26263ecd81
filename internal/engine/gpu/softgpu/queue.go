package softgpu

import (
	"fmt"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Queue applies writes immediately; there is nothing to submit.
type Queue struct {
	dev *Device
}

var _ gpu.Queue = (*Queue)(nil)

// WriteBuffer copies data into buf at offset.
func (q *Queue) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) {
	b := mustBuffer(buf)
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		panic(fmt.Sprintf("softgpu: write to destroyed buffer %q", b.label))
	}
	if !b.usage.Has(gpu.BufferUsageCopyDst) {
		panic(fmt.Sprintf("softgpu: buffer %q was not created with CopyDst", b.label))
	}
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		panic(fmt.Sprintf("softgpu: write of %d bytes at %d overruns buffer %q (%d bytes)",
			len(data), offset, b.label, len(b.data)))
	}
	copy(b.data[offset:], data)
	b.writes++
}

// WriteTexture replaces the texel data of tex.
func (q *Queue) WriteTexture(tex gpu.Texture, data []byte) {
	t := mustTexture(tex)
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(data) != len(t.pixels) {
		panic(fmt.Sprintf("softgpu: texture %q expects %d bytes, got %d", t.label, len(t.pixels), len(data)))
	}
	copy(t.pixels, data)
}
