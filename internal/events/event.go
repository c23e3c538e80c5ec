package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/vk/jobgrid/internal/dag"
	"github.com/vk/jobgrid/internal/executor"
	"github.com/vk/jobgrid/internal/scheduler"
)

// Type names a lifecycle event. It doubles as the socket.io event name and
// the AMQP routing key.
type Type string

// Event types.
const (
	TypeRunStarted  Type = "run.started"
	TypeJobStarted  Type = "job.started"
	TypeJobFinished Type = "job.finished"
	TypeRunFinished Type = "run.finished"
)

// Event is the wire representation of one notification.
type Event struct {
	ID       string    `json:"id"`
	RunID    string    `json:"run_id"`
	Type     Type      `json:"type"`
	Job      string    `json:"job,omitempty"`
	Status   string    `json:"status,omitempty"`
	ExitCode *int      `json:"exit_code,omitempty"`
	Signal   string    `json:"signal,omitempty"`
	Error    string    `json:"error,omitempty"`
	Time     time.Time `json:"time"`
}

func newEvent(runID string, typ Type, at time.Time) Event {
	return Event{
		ID:    uuid.New().String(),
		RunID: runID,
		Type:  typ,
		Time:  at.UTC(),
	}
}

func jobFinishedEvent(runID string, job *dag.Job, res executor.Result, at time.Time) Event {
	ev := newEvent(runID, TypeJobFinished, at)
	ev.Job = job.Name
	ev.Status = res.Status.String()
	code := res.ExitCode
	ev.ExitCode = &code
	ev.Signal = res.Signal
	if res.Err != nil {
		ev.Error = res.Err.Error()
	}
	return ev
}

func runFinishedEvent(runID string, report *scheduler.Report, at time.Time) Event {
	ev := newEvent(runID, TypeRunFinished, at)
	if report.Succeeded {
		ev.Status = dag.Succeeded.String()
	} else {
		ev.Status = dag.Failed.String()
	}
	if report.Err != nil {
		ev.Error = report.Err.Error()
	}
	return ev
}
