package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/forgo/raidsign/internal/model"
	"github.com/forgo/raidsign/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling for every command so that users see the
// same wording for the same failure.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var ambiguous *service.AmbiguousRaidError
	var invalid *model.ValidationError

	switch {
	// ===== Not Found =====
	case errors.Is(err, service.ErrRaidNotFound),
		errors.Is(err, model.ErrNotFound):
		return model.NewNotFoundError("No raid found with that name.")

	// ===== Conflict =====
	case errors.As(err, &ambiguous):
		refs := make([]string, 0, len(ambiguous.IDs))
		for _, id := range ambiguous.IDs {
			refs = append(refs, service.RaidIDPrefix+id)
		}
		return model.NewConflictError(fmt.Sprintf(
			"Several raids are named \"%s\". Use one of: %s", ambiguous.Name, strings.Join(refs, ", ")))
	case errors.Is(err, service.ErrRaidNameExists):
		return model.NewConflictError("A raid with that name already exists.")
	case errors.Is(err, service.ErrLockTimeout):
		return model.NewConflictError("That raid is busy right now, please try again.")

	// ===== Validation =====
	case errors.As(err, &invalid):
		return model.NewValidationError("", invalid.Fields)
	case errors.Is(err, model.ErrValidation):
		return model.NewValidationError("", nil)

	// ===== Store / Internal =====
	case errors.Is(err, model.ErrStore):
		return model.NewStoreFailure("")
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return model.NewInternalError("The command timed out.")

	default:
		return model.NewInternalError("")
	}
}
