package domain

type TodoID string

// Todo is a single task record owned by one user. IDs are opaque: they may
// be minted locally before the backing store confirms the record, in which
// case the store-assigned ID replaces the provisional one.
type Todo struct {
	ID          TodoID
	Title       string
	Description string
	Completed   bool
	UserID      UserID
}

// TodoDraft carries the user-editable fields of a not-yet-persisted todo.
type TodoDraft struct {
	Title       string
	Description string
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

func ParseFilter(raw string) (Filter, error) {
	switch Filter(raw) {
	case FilterAll, FilterActive, FilterCompleted:
		return Filter(raw), nil
	}
	return "", ErrUnknownFilter
}

// Matches reports whether the todo belongs to the filter's view.
func (f Filter) Matches(todo Todo) bool {
	switch f {
	case FilterActive:
		return !todo.Completed
	case FilterCompleted:
		return todo.Completed
	default:
		return true
	}
}
