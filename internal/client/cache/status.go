package cache

// Phase is where an action is in its lifecycle.
type Phase int

const (
	Idle Phase = iota
	Pending
	Settled
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Settled:
		return "settled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Action names a logical user action on the collection.
type Action string

const (
	ActionFetch  Action = "fetch"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

func (a Action) String() string { return string(a) }

// Status is the latest action transition. Message is the user-facing text
// for a failure and is empty otherwise.
type Status struct {
	Action  Action
	ID      int64
	Phase   Phase
	Message string
	Err     error
}
