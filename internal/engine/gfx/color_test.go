package gfx

import "testing"

func TestRGBANormalizes(t *testing.T) {
	c := RGBA(255, 0, 51, 255)
	if c != (Color{1, 0, 0.2, 1}) {
		t.Errorf("RGBA: got %v", c)
	}
	if RGB(0, 0, 0) != Black {
		t.Errorf("RGB(0,0,0): got %v, want Black", RGB(0, 0, 0))
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff0000", Red, false},
		{"#00ff0080", RGBA(0, 255, 0, 128), false},
		{"white", White, false},
		{" Black ", Black, false},
		{"#fff", Color{}, true},
		{"#zzzzzz", Color{}, true},
		{"not-a-color", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q): err %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseColor(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModulate(t *testing.T) {
	got := Color{1, 0.5, 0.5, 1}.Modulate(Color{0.5, 0.5, 1, 0.5})
	if got != (Color{0.5, 0.25, 0.5, 0.5}) {
		t.Errorf("Modulate: got %v", got)
	}
}
