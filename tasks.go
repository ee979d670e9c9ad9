package fusion

import (
	"context"
	"sync/atomic"
	"time"

	fusionerrors "github.com/oomol-lab/fusion-sdk-go/errors"
	"github.com/oomol-lab/fusion-sdk-go/fusiontypes"
)

// Task is a handle to a submitted task. Wait blocks for completion;
// Cancel aborts a pending Wait from any goroutine.
type Task struct {
	sessionID string
	service   string
	client    *Client
	cancelled atomic.Bool
}

// SessionID returns the server-assigned session identifier.
func (t *Task) SessionID() string {
	return t.sessionID
}

// Service returns the service name the task was submitted to.
func (t *Task) Service() string {
	return t.service
}

// Cancel marks the task as cancelled. A concurrent or subsequent Wait
// returns a TaskCancelledError at its next poll. The server-side task
// is not stopped.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
}

// Submit sends a task to the given service and returns a handle for
// polling its result.
func (c *Client) Submit(ctx context.Context, req fusiontypes.SubmitRequest) (*Task, error) {
	if req.Service == "" {
		return nil, fusionerrors.NewError("submit", fusionerrors.ErrValidation).
			WithMessage("service name must not be empty")
	}

	result, err := c.api.SubmitTask(ctx, req.Service, req.Inputs)
	if err != nil {
		return nil, err
	}

	if result.SessionID == "" {
		return nil, fusionerrors.NewError("submit", fusionerrors.ErrProtocol).
			WithMessage("no session ID in response")
	}

	return &Task{
		sessionID: result.SessionID,
		service:   req.Service,
		client:    c,
	}, nil
}

// Wait polls the task until it reaches a terminal state, the configured
// timeout elapses, the task is cancelled, or ctx is done. The progress
// callback fires whenever the reported percentage changes and once more
// with 100 when the task completes.
func (t *Task) Wait(ctx context.Context, opts ...fusiontypes.RunOption) (*fusiontypes.TaskResult, error) {
	var cfg fusiontypes.RunConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	deadline := time.Now().Add(t.client.cfg.Timeout)
	lastProgress := 0.0

	for {
		if t.cancelled.Load() {
			return nil, &fusionerrors.TaskCancelledError{
				SessionID: t.sessionID,
				Service:   t.service,
			}
		}

		if !time.Now().Before(deadline) {
			return nil, &fusionerrors.TaskTimeoutError{
				SessionID: t.sessionID,
				Service:   t.service,
				Timeout:   t.client.cfg.Timeout,
			}
		}

		status, err := t.client.api.TaskStatus(ctx, t.service, t.sessionID)
		if err != nil {
			return nil, err
		}

		state := fusiontypes.TaskState(status.State)

		if cfg.OnProgress != nil && status.Progress != lastProgress && state != fusiontypes.TaskStateCompleted {
			lastProgress = status.Progress
			cfg.OnProgress(status.Progress)
		}

		switch state {
		case fusiontypes.TaskStateCompleted:
			if cfg.OnProgress != nil {
				cfg.OnProgress(100)
			}

			return &fusiontypes.TaskResult{
				Data:      status.Data,
				SessionID: t.sessionID,
				Service:   t.service,
			}, nil

		case fusiontypes.TaskStateFailed, fusiontypes.TaskStateError:
			return nil, &fusionerrors.TaskFailedError{
				SessionID: t.sessionID,
				Service:   t.service,
				State:     status.State,
				Details:   status.Error,
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(t.client.cfg.PollingInterval):
		}
	}
}

// Run submits a task and waits for its result in one call.
func (c *Client) Run(
	ctx context.Context,
	req fusiontypes.SubmitRequest,
	opts ...fusiontypes.RunOption,
) (*fusiontypes.TaskResult, error) {
	task, err := c.Submit(ctx, req)
	if err != nil {
		return nil, err
	}

	return task.Wait(ctx, opts...)
}

// TaskStatus probes the current status of a task session without waiting.
func (c *Client) TaskStatus(ctx context.Context, service, sessionID string) (*fusiontypes.TaskStatus, error) {
	result, err := c.api.TaskStatus(ctx, service, sessionID)
	if err != nil {
		return nil, err
	}

	return &fusiontypes.TaskStatus{
		State:    fusiontypes.TaskState(result.State),
		Data:     result.Data,
		Error:    result.Error,
		Progress: result.Progress,
	}, nil
}
