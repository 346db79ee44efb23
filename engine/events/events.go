// Package events delivers controller output to a presentation layer.
// Events are replayed in emission order; nothing here touches game state.
package events

import "github.com/nathoo/dragonroad/types"

// Presenter is the outbound interface a rendering surface implements.
type Presenter interface {
	LogLine(text string)
	StatusUpdate(status types.Status)
	AvailableActions(actions []types.ActionDesc)
	GameEnded(outcome types.Outcome)
}

// Log builds a log event.
func Log(text string) types.Event {
	return types.Event{Kind: types.EventLog, Text: text}
}

// Status builds a status event.
func Status(st types.Status) types.Event {
	return types.Event{Kind: types.EventStatus, Status: &st}
}

// Actions builds an available-actions event.
func Actions(actions []types.ActionDesc) types.Event {
	return types.Event{Kind: types.EventActions, Actions: actions}
}

// Ended builds a terminal event.
func Ended(outcome types.Outcome) types.Event {
	return types.Event{Kind: types.EventGameEnded, Outcome: outcome}
}

// Dispatch replays the events of a result on p, in order.
func Dispatch(result types.Result, p Presenter) {
	for _, ev := range result.Events {
		switch ev.Kind {
		case types.EventLog:
			p.LogLine(ev.Text)
		case types.EventStatus:
			if ev.Status != nil {
				p.StatusUpdate(*ev.Status)
			}
		case types.EventActions:
			p.AvailableActions(ev.Actions)
		case types.EventGameEnded:
			p.GameEnded(ev.Outcome)
		}
	}
}

// Lines returns the log lines of a result.
func Lines(result types.Result) []string {
	var out []string
	for _, ev := range result.Events {
		if ev.Kind == types.EventLog {
			out = append(out, ev.Text)
		}
	}
	return out
}

// LastStatus returns the most recent status in a result.
func LastStatus(result types.Result) (types.Status, bool) {
	for i := len(result.Events) - 1; i >= 0; i-- {
		if ev := result.Events[i]; ev.Kind == types.EventStatus && ev.Status != nil {
			return *ev.Status, true
		}
	}
	return types.Status{}, false
}

// LastActions returns the most recent action list in a result.
func LastActions(result types.Result) ([]types.ActionDesc, bool) {
	for i := len(result.Events) - 1; i >= 0; i-- {
		if ev := result.Events[i]; ev.Kind == types.EventActions {
			return ev.Actions, true
		}
	}
	return nil, false
}

// Outcome returns the terminal outcome carried by a result, if any.
func Outcome(result types.Result) (types.Outcome, bool) {
	for _, ev := range result.Events {
		if ev.Kind == types.EventGameEnded {
			return ev.Outcome, true
		}
	}
	return "", false
}

// Recorder is a Presenter that keeps everything it is told.
type Recorder struct {
	Lines    []string
	Status   types.Status
	Actions  []types.ActionDesc
	Outcome  types.Outcome
	Statuses int
}

// LogLine appends a line.
func (r *Recorder) LogLine(text string) {
	r.Lines = append(r.Lines, text)
}

// StatusUpdate keeps the latest status.
func (r *Recorder) StatusUpdate(status types.Status) {
	r.Status = status
	r.Statuses++
}

// AvailableActions keeps the latest action list.
func (r *Recorder) AvailableActions(actions []types.ActionDesc) {
	r.Actions = actions
}

// GameEnded keeps the terminal outcome.
func (r *Recorder) GameEnded(outcome types.Outcome) {
	r.Outcome = outcome
}
