package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/quadra/internal/engine/gpu"
)

// Queue writes through to GL immediately; the driver orders the uploads.
type Queue struct{}

var _ gpu.Queue = (*Queue)(nil)

// WriteBuffer uploads data into buf at offset.
func (q *Queue) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) {
	b := buf.(*Buffer)
	if b.id == 0 {
		panic(fmt.Sprintf("glgpu: write to destroyed buffer %q", b.label))
	}
	if offset+uint64(len(data)) > b.size {
		panic(fmt.Sprintf("glgpu: write of %d bytes at %d overruns buffer %q (%d bytes)",
			len(data), offset, b.label, b.size))
	}
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, int(offset), len(data), gl.Ptr(data))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
}

// WriteTexture replaces the texel data of tex with tightly packed RGBA8 rows.
func (q *Queue) WriteTexture(tex gpu.Texture, data []byte) {
	t := tex.(*Texture)
	if want := int(t.width * t.height * 4); len(data) != want {
		panic(fmt.Sprintf("glgpu: texture %q wants %d bytes, got %d", t.label, want, len(data)))
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(t.width), int32(t.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(data))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}
