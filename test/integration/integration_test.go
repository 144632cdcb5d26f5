//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skeinhq/skein/internal/core"
	"github.com/skeinhq/skein/internal/core/correlation"
	"github.com/skeinhq/skein/internal/core/model"
	"github.com/skeinhq/skein/internal/core/network"
	"github.com/skeinhq/skein/internal/driver"
	"github.com/skeinhq/skein/internal/logger"
	"github.com/skeinhq/skein/internal/store"
)

func connect(t *testing.T) *store.GraphStore {
	t.Helper()
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}

	log := logger.NewNop()
	d, err := driver.NewMemgraphDriver(uri, os.Getenv("MEMGRAPH_USER"), os.Getenv("MEMGRAPH_PASSWORD"), log)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close(context.Background()) })

	require.NoError(t, d.BuildIndices(context.Background()))
	return store.NewGraphStore(d)
}

// TestFullFlow runs ingest, analysis, verification and network detection
// against a live Memgraph instance.
func TestFullFlow(t *testing.T) {
	graphStore := connect(t)
	ctx := context.Background()
	log := logger.NewNop()

	caseID := fmt.Sprintf("itest-%d", time.Now().UnixNano())

	// First batch: two rows sharing an email consolidate into one target.
	pipeline := core.NewPipeline(graphStore, log)
	result, err := pipeline.IngestResults(ctx, caseID, []model.ResultRow{
		{Source: "breach_db", Fields: map[string]interface{}{
			"email": "jsmith@example.com",
			"name":  "John Smith",
			"phone": "+1 555 123 4567",
		}},
		{Source: "social_scan", Fields: map[string]interface{}{
			"email":    "jsmith@example.com",
			"username": "jsmith88",
		}},
	})
	require.NoError(t, err)
	require.Len(t, result.Targets, 1, "duplicate rows should consolidate")
	smith := result.Targets[0]

	// Second batch: a different person who reused the same phone number.
	// Grouping only happens within a batch, so this stays a separate
	// target and the shared phone becomes a correlation instead.
	result, err = pipeline.IngestResults(ctx, caseID, []model.ResultRow{
		{Source: "registry", Fields: map[string]interface{}{
			"name":  "Maria Lopez",
			"phone": "1 (555) 123-4567",
		}},
	})
	require.NoError(t, err)
	require.Len(t, result.Targets, 1)
	lopez := result.Targets[0]

	// Round-trip through the store.
	loaded, err := graphStore.GetTarget(ctx, smith.UUID)
	require.NoError(t, err)
	assert.Equal(t, caseID, loaded.CaseID)
	assert.Contains(t, loaded.Collateral.Emails, "jsmith@example.com")

	// Analysis: the shared phone links the two targets.
	engine := correlation.NewEngine(graphStore, graphStore, log)
	count, err := engine.RunAnalysis(ctx, smith.UUID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	correlations, err := graphStore.ListForTarget(ctx, smith.UUID)
	require.NoError(t, err)
	require.Len(t, correlations, 1)
	assert.Equal(t, model.CorrelationPhone, correlations[0].Type)
	assert.Equal(t, correlation.PhoneWeight, correlations[0].Confidence)

	// Verify, then re-analyze: the flag must survive and no duplicate
	// edge may appear.
	require.NoError(t, graphStore.SetVerified(ctx, correlations[0].UUID, true))

	count, err = engine.RunAnalysis(ctx, lopez.UUID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	correlations, err = graphStore.ListForCase(ctx, caseID)
	require.NoError(t, err)
	require.Len(t, correlations, 1, "re-analysis must update, not duplicate")
	assert.True(t, correlations[0].Verified)

	// Network detection sees one two-member cluster.
	targets, err := graphStore.ListCaseTargets(ctx, caseID, "")
	require.NoError(t, err)
	require.Len(t, targets, 2)

	networks, err := network.NewSimpleDetector().Detect(targets, correlations)
	require.NoError(t, err)
	require.Len(t, networks, 1)
	assert.Len(t, networks[0], 2)
}
