package service

import (
	"fmt"
	"strings"

	"github.com/forgo/raidsign/internal/model"
)

// Centralized service layer errors.
// Each wraps one of the model sentinels so handlers can classify them with
// errors.Is(err, model.ErrNotFound) as well as by identity.

// ===== Raid Errors =====
var (
	ErrRaidNotFound   = fmt.Errorf("raid %w", model.ErrNotFound)
	ErrRaidNameExists = fmt.Errorf("a raid with this name already exists: %w", model.ErrConflict)
	ErrRaidAmbiguous  = fmt.Errorf("several raids share this name: %w", model.ErrConflict)
)

// ===== Locking Errors =====
var (
	ErrLockTimeout = fmt.Errorf("raid is busy: %w", model.ErrConflict)
)

// AmbiguousRaidError carries the ids of every raid matching an ambiguous name
type AmbiguousRaidError struct {
	Name string
	IDs  []string
}

func (e *AmbiguousRaidError) Error() string {
	return fmt.Sprintf("%d raids named %q: %s", len(e.IDs), e.Name, strings.Join(e.IDs, ", "))
}

func (e *AmbiguousRaidError) Unwrap() error {
	return ErrRaidAmbiguous
}
