package key

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec    string
		want    Combo
		wantErr bool
	}{
		{"a", NewCombo("a", ModNone), false},
		{"ctrl+a", NewCombo("a", ModCtrl), false},
		{"Ctrl+Shift+Z", NewCombo("z", ModCtrl|ModShift), false},
		{"ctrl+shift+alt+x", NewCombo("x", ModCtrl|ModShift|ModAlt), false},
		{"C-s", NewCombo("s", ModCtrl), false},
		{"C-S-t", NewCombo("t", ModCtrl|ModShift), false},
		{"alt+enter", NewCombo("enter", ModAlt), false},
		{"escape", NewCombo("escape", ModNone), false},
		{"  ctrl+q  ", NewCombo("q", ModCtrl), false},
		{"", Combo{}, true},
		{"bogus+a", Combo{}, true},
		{"ctrl+", Combo{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr = %v", tt.spec, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !got.Equals(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseEmptyError(t *testing.T) {
	_, err := Parse("   ")
	if !errors.Is(err, ErrEmptySpec) {
		t.Errorf("Parse(blank) error = %v, want ErrEmptySpec", err)
	}
}

func TestParseRoundTrip(t *testing.T) {
	specs := []string{"ctrl+a", "ctrl+shift+z", "escape", "alt+t"}
	for _, spec := range specs {
		combo := MustParse(spec)
		again, err := Parse(combo.Encode())
		if err != nil {
			t.Fatalf("Parse(Encode(%q)) error = %v", spec, err)
		}
		if !combo.Equals(again) {
			t.Errorf("round trip changed %q: %v -> %v", spec, combo, again)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on invalid spec")
		}
	}()
	MustParse("nope+x")
}
