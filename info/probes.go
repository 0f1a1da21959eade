package info

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type probePayload struct {
	Status string `json:"status"`
}

func (ih *InfoHandler) respondProbe(w http.ResponseWriter, r *http.Request, state string) {
	ih.RespondWithJSON(w, r, http.StatusOK, probePayload{Status: state})
}

// runChecks runs every check under one deadline and joins the failures.
func (ih *InfoHandler) runChecks(ctx context.Context, checks []ProbeFunc) error {
	if len(checks) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, ih.probeTimeout)
	defer cancel()

	var errs []error
	for i, check := range checks {
		err := check(ctx)
		switch {
		case err == nil:
		case errors.Is(err, context.DeadlineExceeded):
			errs = append(errs, fmt.Errorf("probe %d timed out after %s", i+1, ih.probeTimeout))
		default:
			errs = append(errs, fmt.Errorf("probe %d failed: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}

func filterProbes(checks []ProbeFunc) []ProbeFunc {
	var filtered []ProbeFunc
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return filtered
}
