package models

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Done    bool   `json:"done"`
	OwnerID int    `json:"owner_id"`
}

// TaskCreate is the payload for creating a task; Done always starts false.
type TaskCreate struct {
	Title string `json:"title" binding:"required,max=255" example:"buy milk"`
}

// TaskUpdate is a partial update: only non-nil fields are applied.
type TaskUpdate struct {
	Title *string `json:"title,omitempty" binding:"omitempty,min=1,max=255" example:"buy oat milk"`
	Done  *bool   `json:"done,omitempty" example:"true"`
}

// Apply merges the present fields of upd over t and returns the result.
func (upd TaskUpdate) Apply(t Task) Task {
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Done != nil {
		t.Done = *upd.Done
	}
	return t
}

// TasksDelete is the bulk delete payload and response.
type TasksDelete struct {
	IDs []int `json:"ids" binding:"required"`
}

// NewTask is what the task store persists on create.
type NewTask struct {
	Title   string
	OwnerID int
}
