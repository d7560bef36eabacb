package model

// Glyphs shown next to entries in the stream viewer.
// Using simple single-width characters for consistent terminal rendering
const (
	IconManager     = "◆"
	IconEnvironment = "•"
	IconVirtual     = "◇"
	IconDuplicate   = "≈" // frame repeated an identity already shown
	IconLog         = "›"
)

// KindIcon picks the glyph for an environment kind. Isolated
// environments (venv-like) get a hollow marker.
func KindIcon(kind EnvironmentKind) string {
	switch kind {
	case KindVenv, KindVirtualEnv, KindVirtualEnvWrapper, KindPipenv, KindPyenvVirtualEnv:
		return IconVirtual
	default:
		return IconEnvironment
	}
}
