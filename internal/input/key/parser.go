package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into a Combo.
//
// Supported formats:
//   - Single key: "a", "Z", "escape"
//   - With modifiers: "ctrl+s", "Ctrl+Shift+Z", "alt+enter"
//   - Compact: "C-s", "C-S-z"
func Parse(spec string) (Combo, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Combo{}, ErrEmptySpec
	}

	sep := "+"
	if !strings.Contains(spec, "+") && strings.Contains(spec, "-") {
		sep = "-"
	}

	parts := strings.Split(spec, sep)

	// All but the last part are modifiers.
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Combo{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	symbol := strings.TrimSpace(parts[len(parts)-1])
	if symbol == "" {
		return Combo{}, fmt.Errorf("%w: missing key symbol", ErrInvalidSpec)
	}

	return NewCombo(symbol, mods), nil
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Combo {
	combo, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return combo
}
