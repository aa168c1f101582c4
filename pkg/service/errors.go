package service

import "errors"

var (
	// ErrAlreadyRunning is returned by Start while a watch is active.
	ErrAlreadyRunning = errors.New("watcher service is already running")
)
