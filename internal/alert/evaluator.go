package alert

import (
	"fmt"
	"time"

	"racebell/internal/config"
	"racebell/internal/race"
)

// Kind distinguishes the two alert rules.
type Kind int

const (
	// Deadline fires two minutes before a race goes off, when betting closes.
	Deadline Kind = iota
	// PreWarning fires ten minutes out, for races the user wants time to review.
	PreWarning
)

func (k Kind) String() string {
	if k == PreWarning {
		return "pre-warning"
	}
	return "deadline"
}

// Lead times before start, per rule.
const (
	DeadlineLead   = 2 * time.Minute
	PreWarningLead = 10 * time.Minute
)

// dueWindow is the tolerance around a trigger instant. It is sized to absorb
// tick jitter from a ~1 Hz clock, not to be a precision guarantee.
const dueWindow = time.Second

// Alert is a fired alert, ready to route to a sink.
type Alert struct {
	Race  race.Race
	Kind  Kind
	Title string
	Body  string
}

// Pending is the single nearest not-yet-due alert across the whole race set.
type Pending struct {
	Race    race.Race
	Kind    Kind
	FiresAt time.Time
	Message string
}

// Evaluation is the result of one tick.
type Evaluation struct {
	// Next is nil when no future trigger remains.
	Next *Pending
	Due  []Alert
}

// Evaluate is a pure function of the tick instant, the race snapshot, and the
// user's preferences. It holds no state: re-firing suppression across ticks is
// the Scheduler's job.
func Evaluate(now time.Time, races []race.Race, settings config.Settings) Evaluation {
	var ev Evaluation
	var minDelta time.Duration

	consider := func(r race.Race, kind Kind, triggerAt time.Time) {
		delta := triggerAt.Sub(now)

		if delta < dueWindow && delta > -dueWindow {
			ev.Due = append(ev.Due, fired(r, kind))
			return
		}

		// Strict less-than keeps the first-seen pair on exact ties.
		if delta > 0 && (ev.Next == nil || delta < minDelta) {
			minDelta = delta
			ev.Next = &Pending{
				Race:    r,
				Kind:    kind,
				FiresAt: triggerAt,
				Message: pendingMessage(r, kind),
			}
		}
	}

	for _, r := range races {
		heavy := r.Grade.Heavy()

		if settings.NotifyOnlyHeavy && !heavy {
			continue
		}

		consider(r, Deadline, r.StartTime.Add(-DeadlineLead))

		if (settings.G1OnlyAlertEnabled && r.Grade == race.GradeG1) ||
			(settings.HeavyAlertEnabled && heavy) {
			consider(r, PreWarning, r.StartTime.Add(-PreWarningLead))
		}
	}

	return ev
}

func fired(r race.Race, kind Kind) Alert {
	if kind == PreWarning {
		return Alert{
			Race:  r,
			Kind:  kind,
			Title: "Review start",
			Body:  fmt.Sprintf("%s starts in 10 minutes", raceLabel(r)),
		}
	}
	return Alert{
		Race:  r,
		Kind:  kind,
		Title: "Betting closes soon",
		Body:  fmt.Sprintf("%s — 2 minutes to deadline", raceLabel(r)),
	}
}

func pendingMessage(r race.Race, kind Kind) string {
	if kind == PreWarning {
		return fmt.Sprintf("Next alert: %s review start", raceLabel(r))
	}
	return fmt.Sprintf("Next alert: %s deadline in 2 min", raceLabel(r))
}

func raceLabel(r race.Race) string {
	return fmt.Sprintf("%s %dR %s", r.Location, r.Number, r.Name)
}

// Scheduler wraps Evaluate with a fired set so each (race, rule) pair fires at
// most once per session. The 1 Hz tick normally visits each trigger window
// exactly once, but a backward clock jump or a stalled tick can revisit it;
// the guard makes that harmless.
type Scheduler struct {
	fired map[string]struct{}
}

func NewScheduler() *Scheduler {
	return &Scheduler{fired: make(map[string]struct{})}
}

// Tick evaluates one instant and filters out alerts that already fired.
func (s *Scheduler) Tick(now time.Time, races []race.Race, settings config.Settings) (*Pending, []Alert) {
	ev := Evaluate(now, races, settings)

	var due []Alert
	for _, a := range ev.Due {
		key := a.Race.ID + "/" + a.Kind.String()
		if _, seen := s.fired[key]; seen {
			continue
		}
		s.fired[key] = struct{}{}
		due = append(due, a)
	}

	return ev.Next, due
}

// Reset forgets every fired pair, re-arming all triggers.
func (s *Scheduler) Reset() {
	s.fired = make(map[string]struct{})
}
