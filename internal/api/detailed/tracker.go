package detailed

import (
	"sync"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// TasksPerDay is the number of progress steps reported for every planned day.
const TasksPerDay = 3

// Task messages shown while a step is in flight.
const (
	msgGenerate = "Generating events with AI"
	msgEnrich   = "Enriching locations with places lookup"
	msgFinalize = "Creating detailed timeline"
)

// ProgressFunc receives a snapshot of the run after every change.
type ProgressFunc func(types.GenerationProgress)

// Tracker owns the progress of one generation run.
type Tracker struct {
	mu       sync.Mutex
	progress types.GenerationProgress
	notify   ProgressFunc
}

func NewTracker(totalDays int, notify ProgressFunc) *Tracker {
	status := make([]types.TaskResult, totalDays*TasksPerDay)
	for i := range status {
		status[i] = types.TaskResult{Day: i/TasksPerDay + 1, Task: i%TasksPerDay + 1}
	}
	return &Tracker{
		progress: types.GenerationProgress{
			TotalDays:    totalDays,
			TotalTasks:   totalDays * TasksPerDay,
			IsGenerating: true,
			TaskStatus:   status,
		},
		notify: notify,
	}
}

// Progress returns a copy of the current state.
func (t *Tracker) Progress() types.GenerationProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress.Clone()
}

func (t *Tracker) update(fn func(p *types.GenerationProgress)) {
	t.mu.Lock()
	fn(&t.progress)
	snapshot := t.progress.Clone()
	t.mu.Unlock()

	if t.notify != nil {
		t.notify(snapshot)
	}
}

func (t *Tracker) StartDay(day int) {
	t.update(func(p *types.GenerationProgress) { p.CurrentDay = day })
}

func (t *Tracker) StartTask(day, task int, message string) {
	t.update(func(p *types.GenerationProgress) {
		p.CurrentDay = day
		p.CurrentTask = task
		p.CurrentTaskMessage = message
	})
}

func (t *Tracker) CompleteTask(day, task int, success bool) {
	t.update(func(p *types.GenerationProgress) {
		i := (day-1)*TasksPerDay + task - 1
		if i < 0 || i >= len(p.TaskStatus) {
			return
		}
		p.TaskStatus[i] = types.TaskResult{Day: day, Task: task, Success: success, Completed: true}
		if success {
			p.CompletedTasks++
		}
	})
}

// Finish ends the run, recording err if the run was aborted.
func (t *Tracker) Finish(err error) {
	t.update(func(p *types.GenerationProgress) {
		p.IsGenerating = false
		if err != nil {
			p.Error = err.Error()
		}
	})
}
