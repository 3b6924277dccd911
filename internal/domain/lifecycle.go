package domain

// Action a lifecycle operation on a reservation
type Action string

const (
	ActionConfirm   Action = "confirm"
	ActionStart     Action = "start"
	ActionExtend    Action = "extend"
	ActionEndEarly  Action = "end_early"
	ActionClose     Action = "close"
	ActionCancel    Action = "cancel"
	ActionUpdate    Action = "update"
	ActionExpire    Action = "expire_hold"
	ActionEndOpen   Action = "end_open_time"
	ActionStartOpen Action = "start_open_time"
)

var nonTerminal = []ReservationStatus{
	StatusPending,
	StatusOnHold,
	StatusConfirmed,
	StatusActive,
	StatusPartial,
	StatusPaid,
}

// updatable admin edits are allowed on anything but cancelled reservations
var updatable = []ReservationStatus{
	StatusPending,
	StatusOnHold,
	StatusConfirmed,
	StatusActive,
	StatusPartial,
	StatusPaid,
	StatusCompleted,
}

// allowedFrom statuses from which each action may run
var allowedFrom = map[Action][]ReservationStatus{
	ActionConfirm:  {StatusPending, StatusOnHold},
	ActionStart:    {StatusConfirmed, StatusPaid, StatusPartial},
	ActionExtend:   nonTerminal,
	ActionEndEarly: {StatusActive},
	ActionClose:    nonTerminal,
	ActionCancel:   nonTerminal,
	ActionUpdate:   updatable,
	ActionExpire:   {StatusOnHold},
	ActionEndOpen:  {StatusActive},
}

// CheckTransition returns a StateTransitionError when the current status
// does not allow the action
func (r *Reservation) CheckTransition(a Action) error {
	for _, s := range allowedFrom[a] {
		if r.Status == s {
			return nil
		}
	}
	return &StateTransitionError{From: r.Status, Action: a}
}
