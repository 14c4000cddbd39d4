package cli

import (
	"fmt"

	"github.com/rsify/jay/pkg/cli/term"
	"github.com/rsify/jay/pkg/plugger"
)

// Render is the payload of RenderEvent: the text of the prompt line as drawn
// so far, and the display column of the cursor in it.
type Render struct {
	Output string
	Cursor int
}

// The channels every Editor dispatches on.
var (
	// Schema holds the channels below. Buses passed to NewEditor must be
	// created from it.
	Schema = plugger.NewSchema()
	// LineEvent is dispatched with each non-empty line the user enters.
	LineEvent = plugger.Declare[string](Schema, "line")
	// RenderEvent is dispatched to compute the prompt line for each frame.
	// Handlers run in registration order, so a handler that prepends text
	// must shift the cursor before later handlers append decorations.
	RenderEvent = plugger.Declare[Render](Schema, "render")
	// KeypressEvent is dispatched for every key except those driving the
	// completion menu.
	KeypressEvent = plugger.Declare[term.Keypress](Schema, "keypress")
)

// NewBus creates a Bus for the channels in Schema.
func NewBus() *plugger.Bus { return plugger.New(Schema) }

// OutcomeKind is the kind of an Outcome.
type OutcomeKind int

// Kinds of outcomes.
const (
	// The user entered a line.
	Line OutcomeKind = iota
	// The user asked to exit.
	Exit
	// The user abandoned the current line.
	Abort
)

var outcomeKindNames = [...]string{"Line", "Exit", "Abort"}

func (k OutcomeKind) String() string {
	if 0 <= k && int(k) < len(outcomeKindNames) {
		return outcomeKindNames[k]
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is how a prompt session ended. Line holds the content of the buffer
// at that moment, for all kinds.
type Outcome struct {
	Kind OutcomeKind
	Line string
}
