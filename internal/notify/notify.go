package notify

import (
	"sync"

	"github.com/gen2brain/beeep"

	"racebell/internal/alert"
)

// Sink consumes fired alerts. Both calls are fire-and-forget: a missing audio
// device or denied notification permission must degrade to silence, never to
// an error the caller has to handle mid-tick.
type Sink interface {
	PlayAlert(kind alert.Kind, voice bool)
	Notify(title, body string)
}

// Beeep plays tones and posts desktop notifications through the host's
// notification service.
type Beeep struct{}

func NewBeeep() *Beeep {
	return &Beeep{}
}

// PlayAlert plays a short tone pattern per alert kind. The deadline tone is
// urgent (two flat beeps); the pre-warning is a rising chime. Voice mode
// lengthens the pattern so it carries from another room.
func (b *Beeep) PlayAlert(kind alert.Kind, voice bool) {
	go func() {
		switch kind {
		case alert.Deadline:
			reps := 2
			if voice {
				reps = 4
			}
			for i := 0; i < reps; i++ {
				beeep.Beep(880, 180)
			}
		case alert.PreWarning:
			for _, freq := range []float64{523, 659, 784} {
				beeep.Beep(freq, 150)
			}
			if voice {
				beeep.Beep(1047, 300)
			}
		}
	}()
}

func (b *Beeep) Notify(title, body string) {
	go beeep.Notify(title, body, "")
}

// Nop discards everything. Used when both channels are disabled or in serve
// mode where there is no desktop session.
type Nop struct{}

func (Nop) PlayAlert(alert.Kind, bool) {}
func (Nop) Notify(string, string)      {}

// Recorder captures calls for tests.
type Recorder struct {
	mu     sync.Mutex
	Played []alert.Kind
	Voiced []bool
	Titles []string
	Bodies []string
}

func (r *Recorder) PlayAlert(kind alert.Kind, voice bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Played = append(r.Played, kind)
	r.Voiced = append(r.Voiced, voice)
}

func (r *Recorder) Notify(title, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Titles = append(r.Titles, title)
	r.Bodies = append(r.Bodies, body)
}
