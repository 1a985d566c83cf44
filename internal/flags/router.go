package flags

import (
	"context"
	"errors"
	"hash/fnv"

	"forgefit/coach-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Router makes deterministic rollout decisions for feature flags. It is a
// pure read over the flag and override repositories: for a fixed flag
// configuration the same (user, flag) pair always yields the same answer, on
// every call and across process restarts.
type Router struct {
	flagRepo     repository.FeatureFlagRepository
	overrideRepo repository.FlagOverrideRepository
}

// NewRouter creates a flag router backed by the given repositories.
func NewRouter(flagRepo repository.FeatureFlagRepository, overrideRepo repository.FlagOverrideRepository) *Router {
	return &Router{
		flagRepo:     flagRepo,
		overrideRepo: overrideRepo,
	}
}

// Decide resolves whether the flag is on for the user. Precedence, each
// layer short-circuiting the rest:
//
//  1. adminOverrideDisabled: emergency kill-switch, always false.
//  2. adminOverrideEnabled: force-on for every user.
//  3. Per-user override: returned verbatim.
//  4. Master switch off: false.
//  5. Percentage rollout via stable hash bucketing.
//
// A missing flag resolves to false (the non-experimental path). Repository
// failures other than not-found also resolve to false rather than blocking
// the caller; routing is best-effort by design.
func (r *Router) Decide(ctx context.Context, userID primitive.ObjectID, flagName string) bool {
	flag, err := r.flagRepo.GetByName(ctx, flagName)
	if err != nil {
		return false
	}

	if flag.AdminOverrideDisabled {
		return false
	}
	if flag.AdminOverrideEnabled {
		return true
	}

	override, err := r.overrideRepo.Get(ctx, userID, flagName)
	if err == nil {
		return override.IsEnabled
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false
	}

	if !flag.IsEnabled {
		return false
	}

	return Bucket(userID.Hex(), flagName) < flag.RolloutPercentage
}

// Bucket reduces (userId, flagName) to a stable integer in [0, 100).
// FNV-1a is well distributed for short keys and has no seed, so the bucket
// never changes across processes.
func Bucket(userID, flagName string) int {
	h := fnv.New32a()
	h.Write([]byte(userID))
	h.Write([]byte(":"))
	h.Write([]byte(flagName))
	return int(h.Sum32() % 100)
}
