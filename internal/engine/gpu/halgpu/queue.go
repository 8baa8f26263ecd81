package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Queue forwards uploads to the hal queue.
type Queue struct {
	dev *Device
	raw hal.Queue
}

var _ gpu.Queue = (*Queue)(nil)

// Raw returns the underlying hal queue.
func (q *Queue) Raw() hal.Queue { return q.raw }

// WriteBuffer uploads data into buf at offset. Upload failures are logged;
// the portable queue has no error return.
func (q *Queue) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) {
	b := buf.(*Buffer)
	if b.raw == nil {
		panic(fmt.Sprintf("halgpu: write to destroyed buffer %q", b.label))
	}
	if offset+uint64(len(data)) > b.size {
		panic(fmt.Sprintf("halgpu: write of %d bytes at %d overruns buffer %q (%d bytes)",
			len(data), offset, b.label, b.size))
	}
	if err := q.write(b, offset, data); err != nil {
		q.dev.log.Error("buffer upload failed", zap.String("buffer", b.label), zap.Error(err))
	}
}

// write pads data to the copy alignment. Only a write ending at the buffer's
// end may be padded, since its tail lands in the allocation's slack.
func (q *Queue) write(b *Buffer, offset uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if offset%4 != 0 {
		return fmt.Errorf("halgpu: unaligned write offset %d into %q", offset, b.label)
	}
	if n := uint64(len(data)); n != align4(n) {
		if offset+n != b.size {
			return fmt.Errorf("halgpu: write of %d bytes at %d into %q is not 4-byte aligned", n, offset, b.label)
		}
		padded := make([]byte, align4(n))
		copy(padded, data)
		data = padded
	}
	if err := q.raw.WriteBuffer(b.raw, offset, data); err != nil {
		return mapError(err)
	}
	return nil
}

// WriteTexture replaces the texel data of tex with tightly packed RGBA8 rows.
func (q *Queue) WriteTexture(tex gpu.Texture, data []byte) {
	t := tex.(*Texture)
	if want := int(t.width * t.height * 4); len(data) != want {
		panic(fmt.Sprintf("halgpu: texture %q wants %d bytes, got %d", t.label, want, len(data)))
	}
	err := q.raw.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.raw, Aspect: gputypes.TextureAspectAll},
		data,
		&hal.ImageDataLayout{BytesPerRow: t.width * 4, RowsPerImage: t.height},
		&hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		q.dev.log.Error("texture upload failed", zap.String("texture", t.label), zap.Error(mapError(err)))
	}
}
