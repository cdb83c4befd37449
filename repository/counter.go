package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/prezm/poc-orchestrator/infra"
)

// ErrCounterConflict means another request committed the counter first. The
// environment id handed out by NextID may have been issued twice; callers log
// this loudly but the already-created instance is kept.
var ErrCounterConflict = errors.New("environment counter advanced concurrently")

// CounterRepository issues environment identifiers from the shared SSM
// counter parameter. NextID never writes: the increment is committed by the
// caller only after the compute instance is confirmed created, so a failed
// creation leaves the counter untouched and the identifier can be retried.
type CounterRepository struct {
	ssm   *infra.SSMClient
	param string
}

func NewCounterRepository(ssm *infra.SSMClient, param string) *CounterRepository {
	return &CounterRepository{
		ssm:   ssm,
		param: param,
	}
}

// NextID reads the current counter (absent means 0) and derives the next
// environment id without persisting anything.
func (r *CounterRepository) NextID(ctx context.Context) (envID string, next int, err error) {
	value, found, err := r.ssm.GetParameter(ctx, r.param)
	if err != nil {
		return "", 0, err
	}

	current := 0
	if found {
		current, err = strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return "", 0, fmt.Errorf("counter parameter holds non-numeric value %q: %w", value, err)
		}
	}

	next = current + 1
	return fmt.Sprintf("poc%d", next), next, nil
}

// Commit persists the counter value obtained from NextID. The counter never
// regresses: if a concurrent request already advanced it past next, the write
// is skipped and ErrCounterConflict returned.
func (r *CounterRepository) Commit(ctx context.Context, next int) error {
	value, found, err := r.ssm.GetParameter(ctx, r.param)
	if err != nil {
		return err
	}
	if found {
		current, perr := strconv.Atoi(strings.TrimSpace(value))
		if perr != nil {
			return fmt.Errorf("counter parameter holds non-numeric value %q: %w", value, perr)
		}
		if current >= next {
			return ErrCounterConflict
		}
	}

	return r.ssm.PutParameter(ctx, r.param, strconv.Itoa(next), false)
}
