package gfx

import "github.com/google/uuid"

// newLabel returns a unique debug label such as "rectangle-1b4e28ba".
func newLabel(kind string) string {
	return kind + "-" + uuid.New().String()[:8]
}
