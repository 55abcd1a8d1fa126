// ABOUTME: MCP tool implementations over the imported health database.
// ABOUTME: Read-only queries for record types, records, workouts, summaries, stats.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/hkimport/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// list_record_types
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_record_types",
		Description: "List the distinct record types in the database with row counts",
	}, s.handleListRecordTypes)

	// query_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query_records",
		Description: "Query records of one type, optionally bounded to a date range",
	}, s.handleQueryRecords)

	// list_workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List workouts, most recent first",
	}, s.handleListWorkouts)

	// get_activity_summary
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_activity_summary",
		Description: "Get the activity ring summary for one calendar day",
	}, s.handleGetActivitySummary)

	// import_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "import_stats",
		Description: "Per-table row counts for the imported database",
	}, s.handleImportStats)
}

// Tool input/output types

type queryRecordsInput struct {
	RecordType string `json:"record_type" jsonschema:"HealthKit type identifier (e.g. HKQuantityTypeIdentifierHeartRate)"`
	From       string `json:"from,omitempty" jsonschema:"Earliest start date (ISO 8601)"`
	To         string `json:"to,omitempty" jsonschema:"Latest start date (ISO 8601)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type recordOutput struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Value      *string `json:"value,omitempty"`
	Unit       *string `json:"unit,omitempty"`
	SourceName string  `json:"source_name"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
}

type listWorkoutsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type workoutOutput struct {
	ID                string   `json:"id"`
	ActivityType      string   `json:"activity_type"`
	Duration          *float64 `json:"duration,omitempty"`
	DurationUnit      *string  `json:"duration_unit,omitempty"`
	TotalDistance     *float64 `json:"total_distance,omitempty"`
	TotalEnergyBurned *float64 `json:"total_energy_burned,omitempty"`
	SourceName        string   `json:"source_name"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
}

type getActivitySummaryInput struct {
	Date string `json:"date" jsonschema:"Calendar day (YYYY-MM-DD)"`
}

type activitySummaryOutput struct {
	Date               string   `json:"date"`
	ActiveEnergyBurned *float64 `json:"active_energy_burned,omitempty"`
	ActiveEnergyGoal   *float64 `json:"active_energy_goal,omitempty"`
	ActiveEnergyUnit   *string  `json:"active_energy_unit,omitempty"`
	MoveTime           *float64 `json:"move_time,omitempty"`
	MoveTimeGoal       *float64 `json:"move_time_goal,omitempty"`
	ExerciseTime       *float64 `json:"exercise_time,omitempty"`
	ExerciseTimeGoal   *float64 `json:"exercise_time_goal,omitempty"`
	StandHours         *int64   `json:"stand_hours,omitempty"`
	StandHoursGoal     *int64   `json:"stand_hours_goal,omitempty"`
}

// Tool handlers

func (s *Server) handleListRecordTypes(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	types, err := s.store.RecordTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list record types: %w", err)
	}

	if len(types) == 0 {
		return nil, map[string]any{"message": "No records imported yet."}, nil
	}

	out := make(map[string]int64, len(types))
	for _, rt := range types {
		out[rt.Type] = rt.Count
	}
	return nil, out, nil
}

func (s *Server) handleQueryRecords(ctx context.Context, req *mcp.CallToolRequest, input queryRecordsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	from, err := parseDateInput(input.From)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid from date: %w", err)
	}
	to, err := parseDateInput(input.To)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid to date: %w", err)
	}

	records, err := s.store.QueryRecords(input.RecordType, from, to, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query records: %w", err)
	}

	if len(records) == 0 {
		return nil, map[string]any{"message": "No records found."}, nil
	}

	out := make([]recordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, recordOutput{
			ID:         r.ID.String(),
			Type:       r.Type,
			Value:      r.Value,
			Unit:       r.Unit,
			SourceName: r.SourceName,
			StartDate:  r.StartDate.Format(time.RFC3339),
			EndDate:    r.EndDate.Format(time.RFC3339),
		})
	}
	return nil, out, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	workouts, err := s.store.ListWorkouts(input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	if len(workouts) == 0 {
		return nil, map[string]any{"message": "No workouts found."}, nil
	}

	out := make([]workoutOutput, 0, len(workouts))
	for _, w := range workouts {
		out = append(out, workoutOutput{
			ID:                w.ID.String(),
			ActivityType:      w.ActivityType,
			Duration:          w.Duration,
			DurationUnit:      w.DurationUnit,
			TotalDistance:     w.TotalDistance,
			TotalEnergyBurned: w.TotalEnergyBurned,
			SourceName:        w.SourceName,
			StartDate:         w.StartDate.Format(time.RFC3339),
			EndDate:           w.EndDate.Format(time.RFC3339),
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetActivitySummary(ctx context.Context, req *mcp.CallToolRequest, input getActivitySummaryInput) (*mcp.CallToolResult, any, error) {
	summary, err := s.store.SummaryByDate(input.Date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get activity summary: %w", err)
	}
	if summary == nil {
		return nil, map[string]any{"message": fmt.Sprintf("No activity summary for %s.", input.Date)}, nil
	}

	return nil, summaryOutput(summary), nil
}

func (s *Server) handleImportStats(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	counts, err := s.store.TableCounts()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count tables: %w", err)
	}

	out := make(map[string]int64, len(counts))
	for _, tc := range counts {
		out[tc.Table] = tc.Count
	}
	return nil, out, nil
}

func summaryOutput(s *models.ActivitySummary) activitySummaryOutput {
	return activitySummaryOutput{
		Date:               s.DateComponents,
		ActiveEnergyBurned: s.ActiveEnergyBurned,
		ActiveEnergyGoal:   s.ActiveEnergyGoal,
		ActiveEnergyUnit:   s.ActiveEnergyUnit,
		MoveTime:           s.MoveTime,
		MoveTimeGoal:       s.MoveTimeGoal,
		ExerciseTime:       s.ExerciseTime,
		ExerciseTimeGoal:   s.ExerciseTimeGoal,
		StandHours:         s.StandHours,
		StandHoursGoal:     s.StandHoursGoal,
	}
}

// parseDateInput accepts RFC 3339 or a bare calendar day.
func parseDateInput(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
