// ABOUTME: Per-kind counters for accepted rows, duplicates, and errors.
// ABOUTME: Increment-only during a run; rendered once as the final report.
package importer

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Stats accumulates what a run did. Other components only ever increment;
// nothing reads the counters until the run finishes or is cancelled.
type Stats struct {
	Records             int64
	Workouts            int64
	Correlations        int64
	ActivitySummaries   int64
	ClinicalRecords     int64
	Audiograms          int64
	VisionPrescriptions int64
	MetadataEntries     int64
	HRVLists            int64
	CorrelationLinks    int64

	Duplicates  int64
	Skipped     int64
	Errors      int64
	BulkInserts int64
	Processed   int64
}

// Accepted sums the rows this run added across all kinds.
func (s *Stats) Accepted() int64 {
	return s.Records + s.Workouts + s.Correlations + s.ActivitySummaries +
		s.ClinicalRecords + s.Audiograms + s.VisionPrescriptions +
		s.MetadataEntries + s.HRVLists + s.CorrelationLinks
}

// Report writes the final statistics. Printed for successful completion and
// for cancellation alike.
func (s *Stats) Report(w io.Writer) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Fprintln(w, "Import statistics")
	rows := []struct {
		name  string
		count int64
	}{
		{"records", s.Records},
		{"workouts", s.Workouts},
		{"correlations", s.Correlations},
		{"correlation_records", s.CorrelationLinks},
		{"activity_summaries", s.ActivitySummaries},
		{"clinical_records", s.ClinicalRecords},
		{"audiograms", s.Audiograms},
		{"vision_prescriptions", s.VisionPrescriptions},
		{"metadata_entries", s.MetadataEntries},
		{"hrv_lists", s.HRVLists},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-22s %d\n", row.name, row.count)
	}
	fmt.Fprintf(w, "  %-22s %s\n", "duplicates", color.YellowString("%d", s.Duplicates))
	fmt.Fprintf(w, "  %-22s %s\n", "skipped", color.YellowString("%d", s.Skipped))
	if s.Errors > 0 {
		fmt.Fprintf(w, "  %-22s %s\n", "errors", color.RedString("%d", s.Errors))
	} else {
		fmt.Fprintf(w, "  %-22s %d\n", "errors", s.Errors)
	}
	faint.Fprintf(w, "  %d elements processed, %d bulk inserts\n", s.Processed, s.BulkInserts)
}
