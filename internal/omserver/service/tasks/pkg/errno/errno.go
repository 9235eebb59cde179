package errno

import (
	"errors"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskExists        = errors.New("task already exists")
	ErrSupervisorClosed  = errors.New("task supervisor is closed")
	ErrAborted           = errors.New("task aborted")
	ErrOrchestratorPanic = errors.New("orchestrator panicked")
)
