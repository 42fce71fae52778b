package attendance

import "time"

// Apply runs action against the record at instant now. On error the record
// is left untouched.
func (r *Record) Apply(action Action, now time.Time, lateByMinutes int) error {
	switch action {
	case ActionCheckIn:
		return r.CheckIn(now, lateByMinutes)
	case ActionStartRecess:
		return r.StartRecess(now)
	case ActionEndRecess:
		return r.EndRecess(now)
	case ActionCheckOut:
		return r.CheckOut(now)
	}
	return ErrUnknownAction
}

func (r *Record) CheckIn(now time.Time, lateByMinutes int) error {
	if r.Status() != StatusNotCheckedIn {
		return ErrAlreadyCheckedIn
	}
	if lateByMinutes < 0 {
		lateByMinutes = 0
	}
	r.CheckInTime = &now
	r.CurrentStatus = StatusCheckedIn
	r.LateCheckIn = lateByMinutes > 0
	r.LateByMinutes = lateByMinutes
	if r.RecessIntervals == nil {
		r.RecessIntervals = []RecessInterval{}
	}
	return nil
}

func (r *Record) StartRecess(now time.Time) error {
	switch r.Status() {
	case StatusNotCheckedIn:
		return ErrNotCheckedIn
	case StatusInRecess:
		return ErrAlreadyInRecess
	case StatusCheckedOut:
		return ErrAlreadyCheckedOut
	}
	if err := r.checkOrder(now); err != nil {
		return err
	}
	r.RecessIntervals = append(r.RecessIntervals, RecessInterval{Start: now})
	r.CurrentStatus = StatusInRecess
	return nil
}

func (r *Record) EndRecess(now time.Time) error {
	switch r.Status() {
	case StatusNotCheckedIn:
		return ErrNotCheckedIn
	case StatusCheckedOut:
		return ErrAlreadyCheckedOut
	case StatusCheckedIn:
		return ErrNotInRecess
	}
	open := r.openRecess()
	if open == nil {
		return ErrNotInRecess
	}
	if err := r.checkOrder(now); err != nil {
		return err
	}
	open.End = &now
	r.CurrentStatus = StatusCheckedIn
	return nil
}

func (r *Record) CheckOut(now time.Time) error {
	switch r.Status() {
	case StatusNotCheckedIn:
		return ErrNotCheckedIn
	case StatusInRecess:
		return ErrCheckoutDuringRecess
	case StatusCheckedOut:
		return ErrAlreadyCheckedOut
	}
	if err := r.checkOrder(now); err != nil {
		return err
	}
	r.CheckOutTime = &now
	r.CurrentStatus = StatusCheckedOut
	return nil
}

func (r *Record) checkOrder(now time.Time) error {
	if last := r.lastEventTime(); last != nil && now.Before(*last) {
		return ErrOutOfOrderTimestamp
	}
	return nil
}
