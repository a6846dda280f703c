// Package experiment assigns the A/B downsell bucket for the cancellation
// flow. Assignment is deterministic per user so the same account always sees
// the same branch, and a previously stored bucket always wins over a fresh
// computation.
package experiment

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"time"

	"cancellation-flow-be/internal/pkg/logger"
	"cancellation-flow-be/pkg/flow"

	"github.com/google/uuid"
)

// DefaultSalt matches the historical salt; changing it must never flip the
// bucket of a user with a stored assignment.
const DefaultSalt = "migrate_mate_ab_salt"

var errInvalidUserID = errors.New("invalid user id for variant assignment")

// VariantStore is the narrow read surface the assigner needs: the variant on
// the user's most recent cancellation record, if any.
type VariantStore interface {
	LatestVariant(ctx context.Context, userID uuid.UUID) (flow.Variant, bool, error)
}

// Assignment describes a resolved bucket, for diagnostics endpoints.
type Assignment struct {
	UserID     uuid.UUID    `json:"user_id"`
	Variant    flow.Variant `json:"variant"`
	Source     string       `json:"source"` // "stored" or "computed"
	ResolvedAt time.Time    `json:"resolved_at"`
}

type Assigner struct {
	store  VariantStore
	salt   string
	logger logger.ILogger
}

func NewAssigner(store VariantStore, salt string, log logger.ILogger) *Assigner {
	if salt == "" {
		salt = DefaultSalt
	}
	return &Assigner{store: store, salt: salt, logger: log}
}

// GetOrAssignVariant resolves the user's bucket. The stored value is
// authoritative even when it disagrees with a fresh hash (a salt rotation
// must not move existing users); the mismatch is logged, never corrected.
// Any failure falls back to variant A without persisting the fallback.
func (a *Assigner) GetOrAssignVariant(ctx context.Context, userID uuid.UUID) flow.Variant {
	variant, _ := a.resolve(ctx, userID)
	return variant
}

// resolve does a single store lookup and labels where the bucket came from,
// so a variant and its source always describe the same resolution.
func (a *Assigner) resolve(ctx context.Context, userID uuid.UUID) (flow.Variant, string) {
	if userID == uuid.Nil {
		a.logger.Warn("EXPERIMENT", "variant assignment failed", map[string]interface{}{
			"error": errInvalidUserID.Error(),
		})
		return flow.VariantA, "computed"
	}

	stored, found, err := a.store.LatestVariant(ctx, userID)
	if err != nil {
		a.logger.Error("EXPERIMENT", "variant lookup failed, falling back to A", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		return flow.VariantA, "computed"
	}

	computed := a.compute(userID)

	if found && stored.Valid() {
		if stored != computed {
			a.logger.Warn("EXPERIMENT", "stored variant differs from fresh computation", map[string]interface{}{
				"user_id":  userID.String(),
				"stored":   string(stored),
				"computed": string(computed),
			})
		}
		return stored, "stored"
	}

	a.logger.Info("EXPERIMENT", "variant assigned", map[string]interface{}{
		"user_id": userID.String(),
		"variant": string(computed),
	})
	return computed, "computed"
}

// ShouldShowDownsellOffers reports whether the "still looking" branch shows
// the intermediate retention offer. True only for variant B; false on any
// failure so errors never widen the experiment.
func (a *Assigner) ShouldShowDownsellOffers(ctx context.Context, userID uuid.UUID) bool {
	return a.GetOrAssignVariant(ctx, userID) == flow.VariantB
}

// Info returns the resolved assignment for the diagnostics endpoint.
func (a *Assigner) Info(ctx context.Context, userID uuid.UUID) Assignment {
	variant, source := a.resolve(ctx, userID)
	return Assignment{
		UserID:     userID,
		Variant:    variant,
		Source:     source,
		ResolvedAt: time.Now().UTC(),
	}
}

// compute hashes userID+salt with SHA-256 and reduces the big-endian integer
// value of the first 4 bytes modulo 2: even buckets to A, odd to B.
func (a *Assigner) compute(userID uuid.UUID) flow.Variant {
	sum := sha256.Sum256([]byte(userID.String() + a.salt))
	if binary.BigEndian.Uint32(sum[:4])%2 == 0 {
		return flow.VariantA
	}
	return flow.VariantB
}
