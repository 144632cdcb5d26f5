// Package core wires extraction, duplicate detection and consolidation
// into the ingest pipeline that turns raw search results into persisted
// case targets.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skeinhq/skein/internal/core/dedupe"
	"github.com/skeinhq/skein/internal/core/extraction"
	"github.com/skeinhq/skein/internal/core/model"
	"github.com/skeinhq/skein/internal/logger"
)

// TargetWriter persists consolidated targets.
type TargetWriter interface {
	SaveTarget(ctx context.Context, t *model.Target) error
}

// Pipeline runs raw result rows through extract → group → merge and
// writes one target per consolidated record.
type Pipeline struct {
	Extractor    *extraction.Extractor
	Detector     *dedupe.MatchDetector
	Consolidator *dedupe.Consolidator
	Targets      TargetWriter
	Log          *logger.Logger

	// UUIDGenerator is injectable for deterministic tests.
	UUIDGenerator func() string
}

func NewPipeline(targets TargetWriter, log *logger.Logger) *Pipeline {
	return &Pipeline{
		Extractor:     extraction.NewExtractor(),
		Detector:      dedupe.NewMatchDetector(),
		Consolidator:  dedupe.NewConsolidator(),
		Targets:       targets,
		Log:           log,
		UUIDGenerator: func() string { return uuid.New().String() },
	}
}

// IngestResult reports what one batch of rows produced.
type IngestResult struct {
	RecordCount int               `json:"record_count"`
	Groups      []model.MatchGroup `json:"groups,omitempty"`
	Targets     []model.Target    `json:"targets"`
}

// IngestResults extracts records from the rows, groups duplicates, merges
// each group, and persists one target per consolidated record (ungrouped
// records pass through unchanged). A failed save is logged and skipped so
// one bad row cannot sink the batch.
func (p *Pipeline) IngestResults(ctx context.Context, caseID string, rows []model.ResultRow) (*IngestResult, error) {
	if caseID == "" {
		return nil, fmt.Errorf("case id is required")
	}

	records := p.Extractor.ExtractRecords(rows)
	groups := p.Detector.FindGroups(records)

	// Anchor index -> its group; member indices absorbed into a group.
	anchors := make(map[int]model.MatchGroup, len(groups))
	absorbed := make(map[int]bool)
	for _, g := range groups {
		anchors[g.MemberIndices[0]] = g
		for _, idx := range g.MemberIndices[1:] {
			absorbed[idx] = true
		}
	}

	result := &IngestResult{
		RecordCount: len(records),
		Groups:      groups,
	}

	for i, rec := range records {
		if absorbed[i] {
			continue
		}

		consolidated := rec
		if g, ok := anchors[i]; ok {
			members := make([]model.ExtractedRecord, 0, len(g.MemberIndices))
			for _, idx := range g.MemberIndices {
				members = append(members, records[idx])
			}
			consolidated = p.Consolidator.Merge(members)
		}

		target := p.targetFromRecord(caseID, consolidated)
		if err := p.Targets.SaveTarget(ctx, &target); err != nil {
			if p.Log != nil {
				p.Log.Error("failed to save target", "case_id", caseID, "error", err)
			}
			continue
		}
		result.Targets = append(result.Targets, target)
	}

	return result, nil
}

// targetFromRecord flattens a consolidated record into the collateral
// lists correlation scoring reads.
func (p *Pipeline) targetFromRecord(caseID string, rec model.ExtractedRecord) model.Target {
	t := model.Target{
		UUID:      p.UUIDGenerator(),
		CaseID:    caseID,
		Name:      rec.Name,
		CreatedAt: time.Now().UTC(),
	}

	if rec.Email != "" {
		t.Collateral.Emails = append(t.Collateral.Emails, rec.Email)
	}
	if rec.Phone != "" {
		t.Collateral.Phones = append(t.Collateral.Phones, rec.Phone)
	}
	if rec.IP != "" {
		t.Collateral.IPs = append(t.Collateral.IPs, rec.IP)
	}
	if rec.Address != "" {
		t.Collateral.Addresses = append(t.Collateral.Addresses, rec.Address)
	}

	seenUsernames := make(map[string]bool)
	if rec.Username != "" {
		seenUsernames[rec.Username] = true
		t.Collateral.Usernames = append(t.Collateral.Usernames, rec.Username)
	}
	for _, profile := range rec.SocialProfiles {
		if profile.Username == "" || seenUsernames[profile.Username] {
			continue
		}
		seenUsernames[profile.Username] = true
		t.Collateral.Usernames = append(t.Collateral.Usernames, profile.Username)
	}

	if src, ok := rec.RawData["source"].(string); ok && src != "" {
		t.Sources = append(t.Sources, src)
	}

	return t
}
