// Package correlation scores pairs of case targets for shared identity
// data and maintains the persisted correlation set for a case.
package correlation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/skeinhq/skein/internal/core/fieldmatch"
	"github.com/skeinhq/skein/internal/core/model"
	"github.com/skeinhq/skein/internal/logger"
)

// Per-value weights for cross-target scoring. Unlike duplicate detection,
// each intersecting value contributes its weight, there is no lower
// threshold, and any score above zero is a reportable correlation.
const (
	EmailWeight    = 30
	PhoneWeight    = 25
	UsernameWeight = 20
	IPWeight       = 15
	AddressWeight  = 20

	MaxConfidence = 100
)

// TargetStore loads persisted targets with their flattened collateral.
type TargetStore interface {
	GetTarget(ctx context.Context, targetUUID string) (*model.Target, error)
	// ListCaseTargets returns every other target in the case, excluding
	// excludeUUID.
	ListCaseTargets(ctx context.Context, caseID, excludeUUID string) ([]model.Target, error)
}

// CorrelationStore persists correlations keyed by the unordered target
// pair.
type CorrelationStore interface {
	// FindBetween returns the stored correlation between the two targets
	// in either direction, or nil when none exists.
	FindBetween(ctx context.Context, aUUID, bUUID string) (*model.Correlation, error)
	Insert(ctx context.Context, c *model.Correlation) error
	Update(ctx context.Context, c *model.Correlation) error
}

// Engine computes pairwise correlations between a primary target and the
// rest of its case, and upserts the significant ones.
type Engine struct {
	Targets      TargetStore
	Correlations CorrelationStore
	Log          *logger.Logger

	// Concurrency bounds the fan-out for candidate scoring. Upserts are
	// always serialized so the find-or-create cannot race against itself
	// within one run.
	Concurrency int

	// UUIDGenerator is injectable for deterministic tests.
	UUIDGenerator func() string
}

func NewEngine(targets TargetStore, correlations CorrelationStore, log *logger.Logger) *Engine {
	return &Engine{
		Targets:       targets,
		Correlations:  correlations,
		Log:           log,
		Concurrency:   4,
		UUIDGenerator: func() string { return uuid.New().String() },
	}
}

// Compare scores candidate against primary field by field. Rules are
// evaluated in fixed priority order (email, phone, username, ip, address);
// the first rule that matches sets the correlation type, and a match
// across more than one field kind forces the type to "network".
func (e *Engine) Compare(primary, candidate model.Target) model.CorrelationResult {
	res := model.CorrelationResult{
		CandidateUUID: candidate.UUID,
		Type:          model.CorrelationUnknown,
		SharedData:    make(map[string][]string),
	}

	apply := func(kind string, ctype model.CorrelationType, weight int, shared []string) {
		if len(shared) == 0 {
			return
		}
		res.Confidence += weight * len(shared)
		res.MatchingFields = append(res.MatchingFields, kind)
		res.SharedData[kind] = shared
		if res.Type == model.CorrelationUnknown {
			res.Type = ctype
		}
	}

	apply("email", model.CorrelationEmail, EmailWeight,
		intersect(primary.Collateral.Emails, candidate.Collateral.Emails, normalizeLower))
	apply("phone", model.CorrelationPhone, PhoneWeight,
		intersect(primary.Collateral.Phones, candidate.Collateral.Phones, fieldmatch.NormalizePhone))
	apply("username", model.CorrelationUsername, UsernameWeight,
		intersect(primary.Collateral.Usernames, candidate.Collateral.Usernames, normalizeLower))
	apply("ip", model.CorrelationIP, IPWeight,
		intersect(primary.Collateral.IPs, candidate.Collateral.IPs, normalizeExact))
	apply("address", model.CorrelationAddress, AddressWeight,
		intersect(primary.Collateral.Addresses, candidate.Collateral.Addresses, normalizeLower))

	if len(res.MatchingFields) > 1 {
		res.Type = model.CorrelationNetwork
	}
	if res.Confidence > MaxConfidence {
		res.Confidence = MaxConfidence
	}
	if len(res.SharedData) == 0 {
		res.SharedData = nil
	}

	return res
}

// RunAnalysis loads the target, scores it against every other target in
// its case, and upserts each result with a positive confidence. A failed
// upsert is logged and skipped; the run continues with the remaining
// candidates and the count of successful persists is returned.
func (e *Engine) RunAnalysis(ctx context.Context, targetUUID string) (int, error) {
	primary, err := e.Targets.GetTarget(ctx, targetUUID)
	if err != nil {
		return 0, fmt.Errorf("failed to load target %s: %w", targetUUID, err)
	}

	candidates, err := e.Targets.ListCaseTargets(ctx, primary.CaseID, primary.UUID)
	if err != nil {
		return 0, fmt.Errorf("failed to load candidates for case %s: %w", primary.CaseID, err)
	}

	// Scoring is pure, so it can fan out. Persistence below stays serial.
	results := make([]model.CorrelationResult, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	limit := e.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i := range candidates {
		i := i
		g.Go(func() error {
			results[i] = e.Compare(*primary, candidates[i])
			return nil
		})
	}
	_ = g.Wait()

	persisted := 0
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return persisted, err
		}
		res := results[i]
		if res.Confidence <= 0 {
			continue
		}
		if err := e.upsert(ctx, primary, &candidates[i], res); err != nil {
			if e.Log != nil {
				e.Log.Error("failed to persist correlation",
					"target_a", primary.UUID,
					"target_b", candidates[i].UUID,
					"error", err)
			}
			continue
		}
		persisted++
	}

	return persisted, nil
}

// upsert searches for an existing correlation between the pair in either
// direction: last analysis run wins, so a hit is updated in place rather
// than duplicated. The reviewer's Verified flag is never reset.
func (e *Engine) upsert(ctx context.Context, primary, candidate *model.Target, res model.CorrelationResult) error {
	existing, err := e.Correlations.FindBetween(ctx, primary.UUID, candidate.UUID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if existing != nil {
		existing.Type = res.Type
		existing.MatchingFields = res.MatchingFields
		existing.Confidence = res.Confidence
		existing.SharedData = res.SharedData
		existing.UpdatedAt = now
		return e.Correlations.Update(ctx, existing)
	}

	return e.Correlations.Insert(ctx, &model.Correlation{
		UUID:           e.UUIDGenerator(),
		TargetAUUID:    primary.UUID,
		TargetBUUID:    candidate.UUID,
		CaseID:         primary.CaseID,
		Type:           res.Type,
		MatchingFields: res.MatchingFields,
		Confidence:     res.Confidence,
		SharedData:     res.SharedData,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func normalizeLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeExact(s string) string {
	return strings.TrimSpace(s)
}

// intersect normalizes both lists and returns the distinct values present
// on both sides, in the primary list's order.
func intersect(primary, candidate []string, normalize func(string) string) []string {
	if len(primary) == 0 || len(candidate) == 0 {
		return nil
	}

	candidateSet := make(map[string]bool, len(candidate))
	for _, v := range candidate {
		if n := normalize(v); n != "" {
			candidateSet[n] = true
		}
	}

	var shared []string
	seen := make(map[string]bool)
	for _, v := range primary {
		n := normalize(v)
		if n == "" || !candidateSet[n] || seen[n] {
			continue
		}
		seen[n] = true
		shared = append(shared, n)
	}
	return shared
}
