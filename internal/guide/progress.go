package guide

import (
	"fmt"
	"time"
)

// ToggleTask flips the completion status of the task with the given ID and
// recomputes parent/child consistency over the whole list:
//   - toggling a parent that has children is rejected; parents only move
//     through their children
//   - a parent becomes done exactly when all of its children are done, and
//     reverts to todo as soon as any child is un-done
//
// The returned slice is a copy; the input is not mutated.
func ToggleTask(tasks []Task, taskID string, now time.Time) ([]Task, error) {
	nowUTC := now.UTC()

	updated := cloneTasks(tasks)
	targetIndex := -1
	for i := range updated {
		if updated[i].TaskID == taskID {
			targetIndex = i
			break
		}
	}
	if targetIndex == -1 {
		return nil, fmt.Errorf("task %s not found", taskID)
	}
	if hasChildren(updated, taskID) {
		return nil, fmt.Errorf("task %s has sub-tasks; complete those instead", taskID)
	}

	target := &updated[targetIndex]
	if target.Status == TaskStatusDone {
		target.Status = TaskStatusTodo
	} else {
		target.Status = TaskStatusDone
	}
	target.UpdatedAt = nowUTC

	reconcileParents(updated, nowUTC)
	return updated, nil
}

func hasChildren(tasks []Task, taskID string) bool {
	for i := range tasks {
		if tasks[i].ParentTaskID == taskID {
			return true
		}
	}
	return false
}

func reconcileParents(tasks []Task, now time.Time) {
	for i := range tasks {
		parentID := tasks[i].TaskID
		childCount := 0
		doneCount := 0
		for j := range tasks {
			if tasks[j].ParentTaskID != parentID {
				continue
			}
			childCount++
			if tasks[j].Status == TaskStatusDone {
				doneCount++
			}
		}
		if childCount == 0 {
			continue
		}
		want := TaskStatusTodo
		if doneCount == childCount {
			want = TaskStatusDone
		}
		if tasks[i].Status != want {
			tasks[i].Status = want
			tasks[i].UpdatedAt = now
		}
	}
}
