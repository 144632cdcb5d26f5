package store

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/skeinhq/skein/internal/core/model"
	"github.com/skeinhq/skein/internal/driver"
)

// SaveTarget upserts the target node keyed by uuid.
func (s *GraphStore) SaveTarget(ctx context.Context, t *model.Target) error {
	params := map[string]interface{}{
		"uuid":       t.UUID,
		"case_id":    t.CaseID,
		"name":       t.Name,
		"created_at": t.CreatedAt.UTC().Format(time.RFC3339),
		"emails":     stringList(t.Collateral.Emails),
		"phones":     stringList(t.Collateral.Phones),
		"usernames":  stringList(t.Collateral.Usernames),
		"ips":        stringList(t.Collateral.IPs),
		"addresses":  stringList(t.Collateral.Addresses),
		"sources":    stringList(t.Sources),
		"summary":    t.Summary,
	}
	if _, err := s.Driver.ExecuteQuery(ctx, driver.SaveTargetQuery, params); err != nil {
		return fmt.Errorf("failed to save target %s: %w", t.UUID, err)
	}
	return nil
}

func (s *GraphStore) GetTarget(ctx context.Context, targetUUID string) (*model.Target, error) {
	result, err := s.Driver.ExecuteQuery(ctx, driver.GetTargetQuery, map[string]interface{}{
		"uuid": targetUUID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get target %s: %w", targetUUID, err)
	}
	if len(result.Records) == 0 {
		return nil, fmt.Errorf("target %s not found", targetUUID)
	}
	t := targetFromRecord(result.Records[0])
	return &t, nil
}

// ListCaseTargets returns every target in the case except excludeUUID,
// ordered by creation time.
func (s *GraphStore) ListCaseTargets(ctx context.Context, caseID, excludeUUID string) ([]model.Target, error) {
	result, err := s.Driver.ExecuteQuery(ctx, driver.GetCaseTargetsQuery, map[string]interface{}{
		"case_id":      caseID,
		"exclude_uuid": excludeUUID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list targets for case %s: %w", caseID, err)
	}
	targets := make([]model.Target, 0, len(result.Records))
	for _, rec := range result.Records {
		targets = append(targets, targetFromRecord(rec))
	}
	return targets, nil
}

func targetFromRecord(rec *neo4j.Record) model.Target {
	return model.Target{
		UUID:      recordString(rec, "uuid"),
		CaseID:    recordString(rec, "case_id"),
		Name:      recordString(rec, "name"),
		CreatedAt: recordTime(rec, "created_at"),
		Collateral: model.Collateral{
			Emails:    recordStringList(rec, "emails"),
			Phones:    recordStringList(rec, "phones"),
			Usernames: recordStringList(rec, "usernames"),
			IPs:       recordStringList(rec, "ips"),
			Addresses: recordStringList(rec, "addresses"),
		},
		Sources: recordStringList(rec, "sources"),
		Summary: recordString(rec, "summary"),
	}
}

// stringList keeps nil slices out of bolt parameters.
func stringList(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
