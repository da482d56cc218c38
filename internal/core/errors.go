package core

import "errors"

var (
	// ErrBusy means a confirmation is pending; it must be approved, rejected
	// or cancelled before another message can be sent.
	ErrBusy = errors.New("confirmation pending, resolve it first")

	// ErrConcurrentSendRejected means an assistant reply is still in
	// progress. Sends are rejected rather than queued to keep transcript
	// ordering deterministic.
	ErrConcurrentSendRejected = errors.New("assistant reply in progress")

	// ErrDuplicateConfirmation means the backend issued a second
	// confirmation request while one was pending. The original request
	// stays pending.
	ErrDuplicateConfirmation = errors.New("confirmation already pending")

	// ErrNoPendingConfirmation means confirm or cancel was called with no
	// outstanding request.
	ErrNoPendingConfirmation = errors.New("no pending confirmation")

	// ErrAlreadyResolved means a decision for the pending request is
	// already in flight; no second decision frame is produced.
	ErrAlreadyResolved = errors.New("confirmation already resolved")

	// ErrStopped means the conversation service is no longer running.
	ErrStopped = errors.New("conversation service stopped")
)
