package protocol

// Dialect selects between the legacy and the MAC-addressed command wire
// formats.
type Dialect int

const (
	DialectLegacy Dialect = iota
	DialectMAC
)

func (d Dialect) String() string {
	if d == DialectMAC {
		return "mac"
	}
	return "legacy"
}

// SceneFormat selects the scene encoding generation.
type SceneFormat int

const (
	SceneNone SceneFormat = iota // light has no scene support
	SceneBasic9
	SceneAdvanced17
)

func (s SceneFormat) String() string {
	switch s {
	case SceneBasic9:
		return "basic9"
	case SceneAdvanced17:
		return "advanced17"
	default:
		return "none"
	}
}

// FormatCapability is the subset of a light's capability record that drives
// command-format selection.
type FormatCapability struct {
	NewPowerCommand bool
	NewRGBCommand   bool
	Support9FX      bool
	Support17FX     bool
}

// FormatChoice is the per-invocation decision of which dialect each command
// family uses. It is derived, never cached: MAC availability can change
// between calls.
type FormatChoice struct {
	Power Dialect
	RGB   Dialect
	Scene SceneFormat
}

// SelectFormat picks command formats from capability flags and MAC
// availability. A nil capability (unknown light) forces the most
// conservative choice on every axis. MAC absence always wins over
// capability flags: a light that prefers the new dialect still accepts the
// legacy one, while the new dialect without a MAC is unaddressable.
func SelectFormat(cap *FormatCapability, macAvailable bool) FormatChoice {
	choice := FormatChoice{Power: DialectLegacy, RGB: DialectLegacy, Scene: SceneNone}
	if cap == nil {
		return choice
	}
	if cap.NewPowerCommand && macAvailable {
		choice.Power = DialectMAC
	}
	if cap.NewRGBCommand && macAvailable {
		choice.RGB = DialectMAC
	}
	switch {
	case cap.Support17FX:
		choice.Scene = SceneAdvanced17
	case cap.Support9FX:
		choice.Scene = SceneBasic9
	}
	return choice
}
