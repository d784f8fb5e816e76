package services

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
	"github.com/terraincognita07/worktrace/internal/models"
)

const (
	TimerStopped = "stopped"

	TimerEventPause  = "pause"
	TimerEventResume = "resume"
	TimerEventStop   = "stop"
)

type timerContext struct {
	TimerID uint
}

// TimerMachine guards timer lifecycle transitions:
// running <-> paused, and either of them -> stopped.
type TimerMachine struct {
	interpreter *statekit.Interpreter[timerContext]
}

func NewTimerMachine(timer models.TimeEntryTimer) (*TimerMachine, error) {
	builder := statekit.NewMachine[timerContext]("timer-machine").
		WithInitial(statekit.StateID(timer.Status)).
		WithContext(timerContext{TimerID: timer.ID})

	builder.State(models.TimerStatusRunning).
		On(TimerEventPause).Target(models.TimerStatusPaused).
		On(TimerEventStop).Target(TimerStopped).
		Done()

	builder.State(models.TimerStatusPaused).
		On(TimerEventResume).Target(models.TimerStatusRunning).
		On(TimerEventStop).Target(TimerStopped).
		Done()

	builder.State(TimerStopped).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build timer machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &TimerMachine{interpreter: interpreter}, nil
}

func (machine *TimerMachine) Current() string {
	return string(machine.interpreter.State().Value)
}

// Fire applies event and returns the new state, or a conflict when the event
// is not allowed from the current state.
func (machine *TimerMachine) Fire(event string) (string, error) {
	before := machine.Current()
	machine.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := machine.Current()
	if before == after {
		return before, conflictError(fmt.Sprintf("cannot %s a timer that is %s", event, before))
	}
	return after, nil
}
