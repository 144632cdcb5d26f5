package correlation

import (
	"context"
	"fmt"

	"github.com/skeinhq/skein/internal/core/model"
)

type mockTargetStore struct {
	Targets map[string]*model.Target
}

func (m *mockTargetStore) GetTarget(ctx context.Context, targetUUID string) (*model.Target, error) {
	t, ok := m.Targets[targetUUID]
	if !ok {
		return nil, fmt.Errorf("target %s not found", targetUUID)
	}
	return t, nil
}

func (m *mockTargetStore) ListCaseTargets(ctx context.Context, caseID, excludeUUID string) ([]model.Target, error) {
	var out []model.Target
	// Deterministic order for assertions.
	for _, uuid := range sortedKeys(m.Targets) {
		t := m.Targets[uuid]
		if t.CaseID == caseID && t.UUID != excludeUUID {
			out = append(out, *t)
		}
	}
	return out, nil
}

type mockCorrelationStore struct {
	Rows []*model.Correlation

	InsertErr map[string]error // keyed by TargetBUUID
	Inserts   int
	Updates   int
}

func (m *mockCorrelationStore) FindBetween(ctx context.Context, aUUID, bUUID string) (*model.Correlation, error) {
	for _, c := range m.Rows {
		if (c.TargetAUUID == aUUID && c.TargetBUUID == bUUID) ||
			(c.TargetAUUID == bUUID && c.TargetBUUID == aUUID) {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCorrelationStore) Insert(ctx context.Context, c *model.Correlation) error {
	if err := m.InsertErr[c.TargetBUUID]; err != nil {
		return err
	}
	m.Inserts++
	m.Rows = append(m.Rows, c)
	return nil
}

func (m *mockCorrelationStore) Update(ctx context.Context, c *model.Correlation) error {
	m.Updates++
	return nil
}

func sortedKeys(m map[string]*model.Target) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	return keys
}
