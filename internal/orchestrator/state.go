package orchestrator

// State names the patch pipeline's position, per spec.md §9 Design Notes.
// Transitions are linear; a failure leaves the run at whatever state it
// reached, with scratch data retained for diagnostics.
type State int

const (
	StateIdle State = iota
	StateBackedUp
	StateUnpacked
	StateAssetsParsed
	StateAudioStaged
	StateArtRepacked
	StateImageWritten
	StateLocaleRepacked
	StateCleaned
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateBackedUp:
		return "BackedUp"
	case StateUnpacked:
		return "Unpacked"
	case StateAssetsParsed:
		return "AssetsParsed"
	case StateAudioStaged:
		return "AudioStaged"
	case StateArtRepacked:
		return "ArtRepacked"
	case StateImageWritten:
		return "ImageWritten"
	case StateLocaleRepacked:
		return "LocaleRepacked"
	case StateCleaned:
		return "Cleaned"
	default:
		return "Unknown"
	}
}
