package attendance

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is wrapped by every rejected state change so callers
// can classify with errors.Is.
var ErrInvalidTransition = errors.New("invalid attendance transition")

// Attendance domain errors
var (
	// Transition errors
	ErrAlreadyCheckedIn     = fmt.Errorf("%w: you have already checked in today", ErrInvalidTransition)
	ErrNotCheckedIn         = fmt.Errorf("%w: you have not checked in yet", ErrInvalidTransition)
	ErrAlreadyInRecess      = fmt.Errorf("%w: you are already in recess", ErrInvalidTransition)
	ErrNotInRecess          = fmt.Errorf("%w: you are not in recess", ErrInvalidTransition)
	ErrCheckoutDuringRecess = fmt.Errorf("%w: end your recess before checking out", ErrInvalidTransition)
	ErrAlreadyCheckedOut    = fmt.Errorf("%w: you have already checked out", ErrInvalidTransition)
	ErrOutOfOrderTimestamp  = fmt.Errorf("%w: timestamp precedes the previous event", ErrInvalidTransition)
	ErrConcurrentTransition = fmt.Errorf("%w: attendance was changed by another request, retry", ErrInvalidTransition)

	// General errors
	ErrUnknownAction          = errors.New("unknown attendance action")
	ErrAttendanceNotFound     = errors.New("attendance record not found")
	ErrEmployeeProfileMissing = errors.New("attendance requires an employee profile")
)
