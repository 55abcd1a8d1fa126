// ABOUTME: MCP resource implementations over the imported health database.
// ABOUTME: Provides hkimport://profile, hkimport://record-types, hkimport://stats.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// hkimport://profile - The export owner's profile
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "hkimport://profile",
		Name:        "Health Profile",
		Description: "The export owner's profile: locale, export date, characteristics",
		MIMEType:    "application/json",
	}, s.handleProfileResource)

	// hkimport://record-types - Record type inventory
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "hkimport://record-types",
		Name:        "Record Types",
		Description: "Distinct record types in the database with row counts",
		MIMEType:    "application/json",
	}, s.handleRecordTypesResource)

	// hkimport://stats - Per-table row counts
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "hkimport://stats",
		Name:        "Import Statistics",
		Description: "Per-table row counts for the imported database",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

// Resource handlers

func (s *Server) handleProfileResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	profile, err := s.store.FindProfile()
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var result map[string]any
	if profile == nil {
		result = map[string]any{"message": "No import has run against this database."}
	} else {
		result = map[string]any{
			"id":              profile.ID.String(),
			"locale":          profile.Locale,
			"export_date":     profile.ExportDate.Format(time.RFC3339),
			"date_of_birth":   profile.DateOfBirth,
			"biological_sex":  profile.BiologicalSex,
			"blood_type":      profile.BloodType,
			"skin_type":       profile.SkinType,
			"medications_use": profile.MedicationsUse,
		}
	}

	return jsonResource("hkimport://profile", result)
}

func (s *Server) handleRecordTypesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	types, err := s.store.RecordTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to list record types: %w", err)
	}

	counts := make(map[string]int64, len(types))
	for _, rt := range types {
		counts[rt.Type] = rt.Count
	}

	result := map[string]any{
		"record_types": counts,
		"type_count":   len(types),
	}
	return jsonResource("hkimport://record-types", result)
}

func (s *Server) handleStatsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	counts, err := s.store.TableCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to count tables: %w", err)
	}

	tables := make(map[string]int64, len(counts))
	var total int64
	for _, tc := range counts {
		tables[tc.Table] = tc.Count
		total += tc.Count
	}

	result := map[string]any{
		"tables":     tables,
		"total_rows": total,
	}
	return jsonResource("hkimport://stats", result)
}

func jsonResource(uri string, result any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
