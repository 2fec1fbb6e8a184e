package service

// PlaceholderOwnerID is the owner sent with every task. The client has no
// notion of users.
const PlaceholderOwnerID = 1

// DefaultNewTaskCompleted is the completion flag sent for newly created tasks.
// New tasks are submitted as already completed unless configured otherwise.
const DefaultNewTaskCompleted = true

// Task represents a single to-do item.
type Task struct {
	ID        int // 0 until the server assigns one
	Text      string
	Completed bool
	OwnerID   int
}

// NewTask builds the record submitted by CreateTask.
func NewTask(text string, completed bool) Task {
	return Task{
		ID:        0,
		Text:      text,
		Completed: completed,
		OwnerID:   PlaceholderOwnerID,
	}
}

// WithCompleted returns a copy of t with the completion flag set.
func (t Task) WithCompleted(completed bool) Task {
	t.Completed = completed
	return t
}
