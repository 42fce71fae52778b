package attendance

import "fmt"

type Status string

const (
	StatusNotCheckedIn Status = "not_checked_in"
	StatusCheckedIn    Status = "checked_in"
	StatusInRecess     Status = "in_recess"
	StatusCheckedOut   Status = "checked_out"
)

var statusLabels = map[Status]string{
	StatusNotCheckedIn: "Not Checked In",
	StatusCheckedIn:    "Checked In",
	StatusInRecess:     "In Recess",
	StatusCheckedOut:   "Checked Out",
}

// Label is the text the dashboard shows for the status.
func (s Status) Label() string {
	return statusLabels[s]
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Action is an event that drives the attendance state machine.
type Action string

const (
	ActionCheckIn     Action = "checkin"
	ActionStartRecess Action = "start-recess"
	ActionEndRecess   Action = "end-recess"
	ActionCheckOut    Action = "checkout"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionCheckIn, ActionStartRecess, ActionEndRecess, ActionCheckOut:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// AllowedActions lists the actions accepted from status s.
func AllowedActions(s Status) []Action {
	switch s {
	case StatusNotCheckedIn:
		return []Action{ActionCheckIn}
	case StatusCheckedIn:
		return []Action{ActionStartRecess, ActionCheckOut}
	case StatusInRecess:
		return []Action{ActionEndRecess}
	}
	return []Action{}
}
