package storage

import "github.com/sandeepkv93/paneld/internal/model"

// Task is the persisted form of the domain task. The repository validates
// on every write, so rows never violate the model invariants.
type Task = model.Task

type TaskListFilter struct {
	Completed *bool
	Limit     int
	Offset    int
}
