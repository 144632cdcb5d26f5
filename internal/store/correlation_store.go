package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/skeinhq/skein/internal/core/model"
	"github.com/skeinhq/skein/internal/driver"
)

// FindBetween returns the stored correlation between the two targets,
// matching either storage direction, or nil when none exists.
func (s *GraphStore) FindBetween(ctx context.Context, aUUID, bUUID string) (*model.Correlation, error) {
	result, err := s.Driver.ExecuteQuery(ctx, driver.FindCorrelationQuery, map[string]interface{}{
		"a_uuid": aUUID,
		"b_uuid": bUUID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find correlation between %s and %s: %w", aUUID, bUUID, err)
	}
	if len(result.Records) == 0 {
		return nil, nil
	}
	c := correlationFromRecord(result.Records[0])
	return &c, nil
}

func (s *GraphStore) Insert(ctx context.Context, c *model.Correlation) error {
	shared, err := encodeSharedData(c.SharedData)
	if err != nil {
		return err
	}
	params := map[string]interface{}{
		"uuid":             c.UUID,
		"target_a_uuid":    c.TargetAUUID,
		"target_b_uuid":    c.TargetBUUID,
		"case_id":          c.CaseID,
		"correlation_type": string(c.Type),
		"matching_fields":  stringList(c.MatchingFields),
		"confidence":       c.Confidence,
		"shared_data":      shared,
		"verified":         c.Verified,
		"created_at":       c.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":       c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if _, err := s.Driver.ExecuteQuery(ctx, driver.InsertCorrelationQuery, params); err != nil {
		return fmt.Errorf("failed to insert correlation %s: %w", c.UUID, err)
	}
	return nil
}

// Update rewrites the scoring fields of an existing correlation edge.
// The verified flag is deliberately untouched.
func (s *GraphStore) Update(ctx context.Context, c *model.Correlation) error {
	shared, err := encodeSharedData(c.SharedData)
	if err != nil {
		return err
	}
	params := map[string]interface{}{
		"uuid":             c.UUID,
		"correlation_type": string(c.Type),
		"matching_fields":  stringList(c.MatchingFields),
		"confidence":       c.Confidence,
		"shared_data":      shared,
		"updated_at":       c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if _, err := s.Driver.ExecuteQuery(ctx, driver.UpdateCorrelationQuery, params); err != nil {
		return fmt.Errorf("failed to update correlation %s: %w", c.UUID, err)
	}
	return nil
}

func (s *GraphStore) ListForTarget(ctx context.Context, targetUUID string) ([]model.Correlation, error) {
	result, err := s.Driver.ExecuteQuery(ctx, driver.ListTargetCorrelationsQuery, map[string]interface{}{
		"uuid": targetUUID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list correlations for target %s: %w", targetUUID, err)
	}
	return correlationsFromRecords(result.Records), nil
}

func (s *GraphStore) ListForCase(ctx context.Context, caseID string) ([]model.Correlation, error) {
	result, err := s.Driver.ExecuteQuery(ctx, driver.ListCaseCorrelationsQuery, map[string]interface{}{
		"case_id": caseID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list correlations for case %s: %w", caseID, err)
	}
	return correlationsFromRecords(result.Records), nil
}

// SetVerified flips the reviewer flag on a correlation edge.
func (s *GraphStore) SetVerified(ctx context.Context, correlationUUID string, verified bool) error {
	result, err := s.Driver.ExecuteQuery(ctx, driver.SetCorrelationVerifiedQuery, map[string]interface{}{
		"uuid":       correlationUUID,
		"verified":   verified,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to set verified on correlation %s: %w", correlationUUID, err)
	}
	if len(result.Records) == 0 {
		return fmt.Errorf("correlation %s not found", correlationUUID)
	}
	return nil
}

func correlationsFromRecords(records []*neo4j.Record) []model.Correlation {
	out := make([]model.Correlation, 0, len(records))
	for _, rec := range records {
		out = append(out, correlationFromRecord(rec))
	}
	return out
}

func correlationFromRecord(rec *neo4j.Record) model.Correlation {
	return model.Correlation{
		UUID:           recordString(rec, "uuid"),
		TargetAUUID:    recordString(rec, "target_a_uuid"),
		TargetBUUID:    recordString(rec, "target_b_uuid"),
		CaseID:         recordString(rec, "case_id"),
		Type:           model.CorrelationType(recordString(rec, "correlation_type")),
		MatchingFields: recordStringList(rec, "matching_fields"),
		Confidence:     recordInt(rec, "confidence"),
		SharedData:     decodeSharedData(recordString(rec, "shared_data")),
		Verified:       recordBool(rec, "verified"),
		CreatedAt:      recordTime(rec, "created_at"),
		UpdatedAt:      recordTime(rec, "updated_at"),
	}
}

// shared_data is stored as a JSON string property; bolt maps cannot hold
// list values inside relationship properties on Memgraph.
func encodeSharedData(shared map[string][]string) (string, error) {
	if len(shared) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(shared)
	if err != nil {
		return "", fmt.Errorf("failed to encode shared data: %w", err)
	}
	return string(raw), nil
}

func decodeSharedData(raw string) map[string][]string {
	if raw == "" || raw == "{}" {
		return nil
	}
	var shared map[string][]string
	if err := json.Unmarshal([]byte(raw), &shared); err != nil {
		return nil
	}
	return shared
}
