package journey

import (
	"time"

	engine "github.com/trakaido/trakaido/internal/journey"
)

// turnMsg delivers the next turn from the session controller. Both
// key-driven and timer-driven advances arrive through this message.
type turnMsg struct {
	Turn engine.Turn
}

// timerTickMsg is sent every second to update the elapsed display.
type timerTickMsg time.Time

// audioDoneMsg reports the outcome of a pronunciation playback.
type audioDoneMsg struct {
	Err error
}

// endSessionMsg triggers the session end flow.
type endSessionMsg struct{}
