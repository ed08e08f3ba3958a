package css

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  Color
		ok    bool
	}{
		{"#ff0000", Color{255, 0, 0, 255}, true},
		{"#00FF00", Color{0, 255, 0, 255}, true},
		{"#0f0", Color{0, 255, 0, 255}, true},
		{"#0f08", Color{0, 255, 0, 136}, true},
		{"#11223344", Color{0x11, 0x22, 0x33, 0x44}, true},
		{"red", Color{255, 0, 0, 255}, true},
		{"  Lime ", Color{0, 255, 0, 255}, true},
		{"rgb(1, 2, 3)", Color{1, 2, 3, 255}, true},
		{"rgba(1 2 3 / 0)", Color{1, 2, 3, 0}, true},
		{"rgb(300, 0, 0)", Color{255, 0, 0, 255}, true},
		{"#ggg", Color{}, false},
		{"#12345", Color{}, false},
		{"rgb(1, 2)", Color{}, false},
		{"notacolor", Color{}, false},
		{"", Color{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseColor(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestColorString(t *testing.T) {
	if got := (Color{255, 0, 0, 255}).String(); got != "#ff0000" {
		t.Errorf("Expected #ff0000, got %s", got)
	}
	if got := (Color{0, 255, 0, 128}).String(); got != "#00ff0080" {
		t.Errorf("Expected #00ff0080, got %s", got)
	}
	if got := (Color{1, 2, 3, 4}).NRGBA(); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("Unexpected NRGBA %v", got)
	}
}

func TestParseInlineStyle(t *testing.T) {
	decls := ParseInlineStyle("color: #ff0000; font-weight:bold ;; bogus; COLOR: red !important")
	if len(decls) != 2 {
		t.Fatalf("Expected 2 declarations, got %d: %+v", len(decls), decls)
	}
	if decls[0] != (Declaration{Property: "color", Value: "red", Important: true}) {
		t.Errorf("Unexpected first declaration %+v", decls[0])
	}
	if decls[1] != (Declaration{Property: "font-weight", Value: "bold"}) {
		t.Errorf("Unexpected second declaration %+v", decls[1])
	}
}

func TestPropertyValue(t *testing.T) {
	if got := PropertyValue("color: #00ff00", "Color"); got != "#00ff00" {
		t.Errorf("Expected #00ff00, got %q", got)
	}
	if got := PropertyValue("color: #00ff00", "background"); got != "" {
		t.Errorf("Expected empty value, got %q", got)
	}
}
