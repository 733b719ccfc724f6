package key

import "strings"

// Well-known key symbols in their normalized form.
const (
	KeyEscape = "escape"
	KeyEnter  = "enter"
	KeySpace  = "space"
)

// symbolAliases maps alternate spellings to the normalized key symbol.
var symbolAliases = map[string]string{
	"esc":      KeyEscape,
	"return":   KeyEnter,
	"cr":       KeyEnter,
	"spacebar": KeySpace,
	" ":        KeySpace,
}

// NormalizeSymbol lowercases and trims a key symbol and resolves aliases.
// Empty and unknown symbols pass through unchanged apart from case folding;
// validating symbols against the known action set is the registry's job.
func NormalizeSymbol(symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if alias, ok := symbolAliases[s]; ok {
		return alias
	}
	return s
}

// Combo is a physical key symbol plus a set of modifier flags.
// Two combos are equal iff their normalized symbols and modifiers match.
type Combo struct {
	// Key is the key symbol ("a", "z", "escape"). Case-insensitive.
	Key string

	// Mods contains the active modifier keys.
	Mods Modifier
}

// NewCombo creates a combo with a normalized key symbol.
func NewCombo(symbol string, mods Modifier) Combo {
	return Combo{
		Key:  NormalizeSymbol(symbol),
		Mods: mods,
	}
}

// Encode returns the canonical identifier for this combo, such as
// "ctrl+shift+z". The encoding is deterministic and order-independent:
// modifiers always appear in ctrl, shift, alt order and the key symbol is
// lowercased. Encoding is structural, not semantic validation; unknown and
// empty symbols still encode.
func (c Combo) Encode() string {
	var b strings.Builder
	if c.Mods.HasCtrl() {
		b.WriteString("ctrl+")
	}
	if c.Mods.HasShift() {
		b.WriteString("shift+")
	}
	if c.Mods.HasAlt() {
		b.WriteString("alt+")
	}
	b.WriteString(NormalizeSymbol(c.Key))
	return b.String()
}

// Equals returns true if two combos represent the same key press.
func (c Combo) Equals(other Combo) bool {
	return c.Mods == other.Mods && NormalizeSymbol(c.Key) == NormalizeSymbol(other.Key)
}

// IsZero returns true if the combo has no key symbol and no modifiers.
func (c Combo) IsZero() bool {
	return c.Key == "" && c.Mods == ModNone
}

// IsEscape returns true if this is the Escape key with no modifiers.
func (c Combo) IsEscape() bool {
	return NormalizeSymbol(c.Key) == KeyEscape && c.Mods == ModNone
}

// Label returns a human-readable representation like "Ctrl+Shift+Z".
func (c Combo) Label() string {
	var parts []string
	if c.Mods.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if c.Mods.HasShift() {
		parts = append(parts, "Shift")
	}
	if c.Mods.HasAlt() {
		parts = append(parts, "Alt")
	}
	parts = append(parts, labelSymbol(NormalizeSymbol(c.Key)))
	return strings.Join(parts, "+")
}

// labelSymbol renders a normalized key symbol for display.
func labelSymbol(symbol string) string {
	switch symbol {
	case "":
		return "?"
	case KeyEscape:
		return "Esc"
	case KeyEnter:
		return "Enter"
	case KeySpace:
		return "Space"
	}
	if len(symbol) == 1 {
		return strings.ToUpper(symbol)
	}
	return strings.ToUpper(symbol[:1]) + symbol[1:]
}

// String returns the canonical encoding.
func (c Combo) String() string {
	return c.Encode()
}
