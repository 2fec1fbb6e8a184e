// Package tasklist holds the ordered local copy of the remote task list and
// the refresh signals emitted when it changes.
package tasklist

import "todos/internal/service"

// Op identifies the scope of a list change.
type Op int

const (
	// OpReset means the whole list was replaced.
	OpReset Op = iota
	// OpInsert means a task was inserted at Index.
	OpInsert
	// OpChange means the task at Index was replaced in place.
	OpChange
	// OpRemove means the task previously at Index was removed.
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpReset:
		return "reset"
	case OpInsert:
		return "insert"
	case OpChange:
		return "change"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Change is the minimal-scope refresh signal for a list view.
type Change struct {
	Op    Op
	Index int // unused for OpReset
}

// Match describes how Lookup resolved a row/id pair.
type Match struct {
	Index     int  // -1 if no entry has the id
	StaleRow  bool // the row hint did not hold the id
	Ambiguous bool // more than one entry has the id
}

// List is an ordered, duplicate-tolerant sequence of tasks.
// It is not safe for concurrent use; a single owner mutates it.
type List struct {
	tasks []service.Task
}

// New returns an empty list.
func New() *List {
	return &List{}
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// At returns the task at index i.
func (l *List) At(i int) service.Task {
	return l.tasks[i]
}

// Tasks returns a copy of the tasks in order.
func (l *List) Tasks() []service.Task {
	out := make([]service.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Replace discards the current contents and takes tasks as the new list.
func (l *List) Replace(tasks []service.Task) Change {
	l.tasks = make([]service.Task, len(tasks))
	copy(l.tasks, tasks)
	return Change{Op: OpReset}
}

// Append adds task at the end.
func (l *List) Append(task service.Task) Change {
	l.tasks = append(l.tasks, task)
	return Change{Op: OpInsert, Index: len(l.tasks) - 1}
}

// Lookup finds the entry for id, preferring row when it still holds that id.
// Otherwise the first entry with the id wins.
func (l *List) Lookup(row, id int) Match {
	m := Match{Index: -1}
	count := 0
	first := -1
	for i, t := range l.tasks {
		if t.ID != id {
			continue
		}
		count++
		if first < 0 {
			first = i
		}
	}
	if count == 0 {
		m.StaleRow = true
		return m
	}
	m.Ambiguous = count > 1
	if row >= 0 && row < len(l.tasks) && l.tasks[row].ID == id {
		m.Index = row
		return m
	}
	m.Index = first
	m.StaleRow = true
	return m
}

// Set replaces the entry for id (see Lookup) with task.
// Reports false and leaves the list untouched if no entry has the id.
func (l *List) Set(row, id int, task service.Task) (Change, bool) {
	m := l.Lookup(row, id)
	if m.Index < 0 {
		return Change{}, false
	}
	l.tasks[m.Index] = task
	return Change{Op: OpChange, Index: m.Index}, true
}

// Remove deletes exactly one entry for id (see Lookup).
// Reports false if no entry has the id, e.g. because it was already removed.
func (l *List) Remove(row, id int) (Change, bool) {
	m := l.Lookup(row, id)
	if m.Index < 0 {
		return Change{}, false
	}
	l.tasks = append(l.tasks[:m.Index], l.tasks[m.Index+1:]...)
	return Change{Op: OpRemove, Index: m.Index}, true
}
