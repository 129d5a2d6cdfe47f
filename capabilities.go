package termplay

import (
	"os"
	"strings"
	"sync"
)

// Kind identifies the terminal family the process is running in.
//
// Classification is static: it looks only at environment variables and never
// queries the terminal. Spoofed or missing variables therefore misclassify,
// which is an accepted limitation of the model.
type Kind int

const (
	// KindStandard is the catch-all for unrecognized terminals.
	KindStandard Kind = iota
	// KindITerm2 renders images natively via OSC 1337 inline files.
	KindITerm2
	// KindKitty speaks the Kitty graphics protocol.
	KindKitty
	// KindGhostty speaks the Kitty graphics protocol.
	KindGhostty
	// KindWezTerm speaks the Kitty graphics protocol and Sixel.
	KindWezTerm
	// KindVSCode is the editor-embedded terminal.
	KindVSCode
	// KindMultiplexer covers tmux, GNU screen and the Windows Terminal host.
	KindMultiplexer
	// KindAlacritty is the GPU-accelerated terminal without graphics support.
	KindAlacritty
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindITerm2:
		return "iTerm2"
	case KindKitty:
		return "Kitty"
	case KindGhostty:
		return "Ghostty"
	case KindWezTerm:
		return "WezTerm"
	case KindVSCode:
		return "VSCode"
	case KindMultiplexer:
		return "Multiplexer"
	case KindAlacritty:
		return "Alacritty"
	default:
		return "Standard"
	}
}

// Capabilities is the immutable capability record for a terminal kind.
// Every field is a fixed function of Kind; records are never mutated after
// creation.
type Capabilities struct {
	Kind Kind

	// TrueColor reports 24-bit SGR support. The halfblock encoder always
	// emits 24-bit sequences, so this is informational.
	TrueColor bool
	// NativeImages reports support for the iTerm2 inline image protocol.
	NativeImages bool
	// KittyGraphics reports support for the Kitty graphics protocol.
	KittyGraphics bool
	// Sixel reports Sixel support.
	Sixel bool
	// TransparencyBlend reports that the terminal composites half-block
	// cells over its real background, so near-transparent pixels can keep
	// their color.
	TransparencyBlend bool
	// BlankTransparency makes the halfblock encoder emit a blank cell when
	// both stacked pixels fall below alpha 128 instead of only at alpha 0.
	BlankTransparency bool
}

// Environ carries the environment signals capability detection reads.
// Decoupling it from os.Getenv keeps classification a pure function.
type Environ struct {
	Term              string // TERM
	TermProgram       string // TERM_PROGRAM
	LCTerminal        string // LC_TERMINAL
	KittyWindowID     string // KITTY_WINDOW_ID
	WezTermExecutable string // WEZTERM_EXECUTABLE
	Tmux              string // TMUX
	WTSession         string // WT_SESSION
}

// OSEnviron snapshots the process environment into an Environ.
func OSEnviron() Environ {
	return Environ{
		Term:              os.Getenv("TERM"),
		TermProgram:       os.Getenv("TERM_PROGRAM"),
		LCTerminal:        os.Getenv("LC_TERMINAL"),
		KittyWindowID:     os.Getenv("KITTY_WINDOW_ID"),
		WezTermExecutable: os.Getenv("WEZTERM_EXECUTABLE"),
		Tmux:              os.Getenv("TMUX"),
		WTSession:         os.Getenv("WT_SESSION"),
	}
}

// ClassifyKind maps environment signals to a terminal kind. First match wins.
func ClassifyKind(env Environ) Kind {
	switch {
	case env.TermProgram == "iTerm.app",
		strings.Contains(strings.ToLower(env.LCTerminal), "iterm"):
		return KindITerm2
	case env.KittyWindowID != "",
		strings.Contains(strings.ToLower(env.Term), "kitty"):
		return KindKitty
	case env.TermProgram == "ghostty":
		return KindGhostty
	case env.TermProgram == "WezTerm", env.WezTermExecutable != "":
		return KindWezTerm
	case env.TermProgram == "vscode":
		return KindVSCode
	case env.Tmux != "", env.WTSession != "":
		return KindMultiplexer
	case strings.Contains(env.Term, "alacritty"):
		return KindAlacritty
	default:
		return KindStandard
	}
}

// DetectCapabilities classifies env and returns the fixed capability record
// for the resulting kind.
func DetectCapabilities(env Environ) Capabilities {
	return KindCapabilities(ClassifyKind(env))
}

// KindCapabilities returns the capability record for a kind.
func KindCapabilities(kind Kind) Capabilities {
	caps := Capabilities{Kind: kind, TrueColor: true}
	switch kind {
	case KindITerm2:
		caps.NativeImages = true
		caps.TransparencyBlend = true
	case KindKitty, KindGhostty:
		caps.KittyGraphics = true
		caps.TransparencyBlend = true
	case KindWezTerm:
		caps.KittyGraphics = true
		caps.Sixel = true
		caps.TransparencyBlend = true
	case KindVSCode, KindMultiplexer:
		// No compositing over the real background; render transparency as
		// blank cells past the half-opacity threshold.
		caps.BlankTransparency = true
	case KindAlacritty:
		caps.TransparencyBlend = true
	case KindStandard:
		// Strict policy: only alpha 0 counts as transparent.
	}
	return caps
}

var (
	detectOnce   sync.Once
	detectedCaps Capabilities
)

// Detect returns the process-wide capability record, classifying the
// environment exactly once.
func Detect() Capabilities {
	detectOnce.Do(func() {
		detectedCaps = DetectCapabilities(OSEnviron())
	})
	return detectedCaps
}
