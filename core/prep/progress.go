package prep

import "time"

// ProgressEvent is one step of a prep run, streamed to websocket
// subscribers of the reporting server.
type ProgressEvent struct {
	RunID   string    `json:"runId"`
	Stage   string    `json:"stage"`
	Group   string    `json:"group,omitempty"`
	Message string    `json:"message"`
	Files   int       `json:"files,omitempty"`
	Done    bool      `json:"done"`
	Time    time.Time `json:"time"`
}

// ProgressFunc receives progress events. Runners treat a nil func as
// "no subscriber".
type ProgressFunc func(ProgressEvent)

func (r *Runner) publish(stage string, group, message string, files int, done bool) {
	if r.progress == nil {
		return
	}
	r.progress(ProgressEvent{
		RunID:   r.run.ID,
		Stage:   stage,
		Group:   group,
		Message: message,
		Files:   files,
		Done:    done,
		Time:    time.Now(),
	})
}
