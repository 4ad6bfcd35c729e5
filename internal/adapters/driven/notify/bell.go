// Package notify delivers the audible cue for incoming replies.
package notify

import (
	"io"

	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
)

// Ensure Bell implements the interface.
var _ driven.NotificationSink = (*Bell)(nil)

// Bell rings the terminal bell. Whether a turn chimes at all is the
// chat service's decision; the bell only plays.
type Bell struct {
	out io.Writer
}

// NewBell creates a bell that writes to w. Pass stderr so the cue
// never lands inside a rendered frame.
func NewBell(w io.Writer) *Bell {
	return &Bell{out: w}
}

// Chime rings once. Write errors are discarded; a silent bell must
// never break a turn.
func (b *Bell) Chime() {
	_, _ = b.out.Write([]byte("\a"))
}
