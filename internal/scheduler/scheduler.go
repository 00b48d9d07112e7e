package scheduler

import "github.com/pkg/errors"

// ErrSyncAlreadyRunning indica que uma execução do mesmo fluxo ainda não
// terminou. Cada fluxo admite uma execução lógica por vez.
var ErrSyncAlreadyRunning = errors.New("sincronização já está em execução")
