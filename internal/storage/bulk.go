// ABOUTME: Bulk insert support: one multi-row INSERT per entity kind per flush.
// ABOUTME: Statements are chunked to stay under the SQLite bind-variable limit.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/hkimport/internal/models"
)

// maxBindVars keeps multi-row statements under SQLITE_MAX_VARIABLE_NUMBER.
const maxBindVars = 32000

// BulkInsert writes all rows of one kind inside the given transaction.
// Rows must all be of the model type matching the kind.
func BulkInsert(tx *sql.Tx, kind models.Kind, rows []any) error {
	if len(rows) == 0 {
		return nil
	}
	spec, ok := bulkSpecs[kind]
	if !ok {
		return fmt.Errorf("bulk insert: unsupported kind %q", kind)
	}
	return bulkExec(tx, spec, rows)
}

// bulkSpec describes how one kind maps onto its table.
type bulkSpec struct {
	table string
	cols  []string
	bind  func(row any) ([]any, error)
}

func bulkExec(tx *sql.Tx, spec bulkSpec, rows []any) error {
	ncols := len(spec.cols)
	chunkSize := maxBindVars / ncols

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", ncols-1), ", ") + ", ?)"
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", spec.table, strings.Join(spec.cols, ", "))

	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		var sb strings.Builder
		sb.WriteString(prefix)
		args := make([]any, 0, len(chunk)*ncols)
		for i, row := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(placeholder)
			rowArgs, err := spec.bind(row)
			if err != nil {
				return fmt.Errorf("bulk insert %s: %w", spec.table, err)
			}
			args = append(args, rowArgs...)
		}

		if _, err := tx.Exec(sb.String(), args...); err != nil {
			return fmt.Errorf("bulk insert %s: %w", spec.table, err)
		}
	}
	return nil
}

func fmtTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func boolPtr(b *bool) any {
	if b == nil {
		return nil
	}
	if *b {
		return int64(1)
	}
	return int64(0)
}

func badRow(kind models.Kind, row any) error {
	return fmt.Errorf("row type %T does not match kind %q", row, kind)
}

var bulkSpecs = map[models.Kind]bulkSpec{
	models.KindRecord: {
		table: "records",
		cols: []string{"id", "type", "source_name", "source_version", "device",
			"unit", "value", "creation_date", "start_date", "end_date", "profile_id"},
		bind: func(row any) ([]any, error) {
			r, ok := row.(*models.Record)
			if !ok {
				return nil, badRow(models.KindRecord, row)
			}
			return []any{r.ID.String(), r.Type, r.SourceName, r.SourceVersion, r.Device,
				r.Unit, r.Value, fmtTimePtr(r.CreationDate), fmtTime(r.StartDate),
				fmtTime(r.EndDate), r.ProfileID.String()}, nil
		},
	},
	models.KindWorkout: {
		table: "workouts",
		cols: []string{"id", "activity_type", "duration", "duration_unit",
			"total_distance", "total_distance_unit", "total_energy_burned",
			"total_energy_burned_unit", "source_name", "source_version", "device",
			"creation_date", "start_date", "end_date", "profile_id"},
		bind: func(row any) ([]any, error) {
			w, ok := row.(*models.Workout)
			if !ok {
				return nil, badRow(models.KindWorkout, row)
			}
			return []any{w.ID.String(), w.ActivityType, w.Duration, w.DurationUnit,
				w.TotalDistance, w.TotalDistanceUnit, w.TotalEnergyBurned,
				w.TotalEnergyBurnedUnit, w.SourceName, w.SourceVersion, w.Device,
				fmtTimePtr(w.CreationDate), fmtTime(w.StartDate), fmtTime(w.EndDate),
				w.ProfileID.String()}, nil
		},
	},
	models.KindWorkoutEvent: {
		table: "workout_events",
		cols:  []string{"id", "type", "date", "duration", "duration_unit", "workout_id"},
		bind: func(row any) ([]any, error) {
			e, ok := row.(*models.WorkoutEvent)
			if !ok {
				return nil, badRow(models.KindWorkoutEvent, row)
			}
			return []any{e.ID.String(), e.Type, fmtTime(e.Date), e.Duration,
				e.DurationUnit, e.WorkoutID.String()}, nil
		},
	},
	models.KindWorkoutStatistics: {
		table: "workout_statistics",
		cols: []string{"id", "type", "start_date", "end_date", "average",
			"minimum", "maximum", "sum", "unit", "workout_id"},
		bind: func(row any) ([]any, error) {
			s, ok := row.(*models.WorkoutStatistics)
			if !ok {
				return nil, badRow(models.KindWorkoutStatistics, row)
			}
			return []any{s.ID.String(), s.Type, fmtTime(s.StartDate), fmtTime(s.EndDate),
				s.Average, s.Minimum, s.Maximum, s.Sum, s.Unit, s.WorkoutID.String()}, nil
		},
	},
	models.KindWorkoutRoute: {
		table: "workout_routes",
		cols: []string{"id", "source_name", "source_version", "device",
			"creation_date", "start_date", "end_date", "file_path", "workout_id"},
		bind: func(row any) ([]any, error) {
			r, ok := row.(*models.WorkoutRoute)
			if !ok {
				return nil, badRow(models.KindWorkoutRoute, row)
			}
			return []any{r.ID.String(), r.SourceName, r.SourceVersion, r.Device,
				fmtTimePtr(r.CreationDate), fmtTime(r.StartDate), fmtTime(r.EndDate),
				r.FilePath, r.WorkoutID.String()}, nil
		},
	},
	models.KindCorrelation: {
		table: "correlations",
		cols: []string{"id", "type", "source_name", "source_version", "device",
			"creation_date", "start_date", "end_date", "profile_id"},
		bind: func(row any) ([]any, error) {
			c, ok := row.(*models.Correlation)
			if !ok {
				return nil, badRow(models.KindCorrelation, row)
			}
			return []any{c.ID.String(), c.Type, c.SourceName, c.SourceVersion, c.Device,
				fmtTimePtr(c.CreationDate), fmtTime(c.StartDate), fmtTime(c.EndDate),
				c.ProfileID.String()}, nil
		},
	},
	models.KindCorrelationLink: {
		table: "correlation_records",
		cols:  []string{"id", "correlation_id", "record_id"},
		bind: func(row any) ([]any, error) {
			l, ok := row.(*models.CorrelationLink)
			if !ok {
				return nil, badRow(models.KindCorrelationLink, row)
			}
			return []any{l.ID.String(), l.CorrelationID.String(), l.RecordID.String()}, nil
		},
	},
	models.KindActivitySummary: {
		table: "activity_summaries",
		cols: []string{"id", "date_components", "active_energy_burned",
			"active_energy_goal", "active_energy_unit", "move_time", "move_time_goal",
			"exercise_time", "exercise_time_goal", "stand_hours", "stand_hours_goal",
			"profile_id"},
		bind: func(row any) ([]any, error) {
			s, ok := row.(*models.ActivitySummary)
			if !ok {
				return nil, badRow(models.KindActivitySummary, row)
			}
			return []any{s.ID.String(), s.DateComponents, s.ActiveEnergyBurned,
				s.ActiveEnergyGoal, s.ActiveEnergyUnit, s.MoveTime, s.MoveTimeGoal,
				s.ExerciseTime, s.ExerciseTimeGoal, s.StandHours, s.StandHoursGoal,
				s.ProfileID.String()}, nil
		},
	},
	models.KindClinicalRecord: {
		table: "clinical_records",
		cols: []string{"id", "type", "identifier", "source_name", "source_url",
			"fhir_version", "received_date", "resource_file_path", "profile_id"},
		bind: func(row any) ([]any, error) {
			c, ok := row.(*models.ClinicalRecord)
			if !ok {
				return nil, badRow(models.KindClinicalRecord, row)
			}
			return []any{c.ID.String(), c.Type, c.Identifier, c.SourceName, c.SourceURL,
				c.FHIRVersion, fmtTime(c.ReceivedDate), c.ResourceFilePath,
				c.ProfileID.String()}, nil
		},
	},
	models.KindAudiogram: {
		table: "audiograms",
		cols: []string{"id", "type", "source_name", "source_version", "device",
			"creation_date", "start_date", "end_date", "profile_id"},
		bind: func(row any) ([]any, error) {
			a, ok := row.(*models.Audiogram)
			if !ok {
				return nil, badRow(models.KindAudiogram, row)
			}
			return []any{a.ID.String(), a.Type, a.SourceName, a.SourceVersion, a.Device,
				fmtTimePtr(a.CreationDate), fmtTime(a.StartDate), fmtTime(a.EndDate),
				a.ProfileID.String()}, nil
		},
	},
	models.KindSensitivityPoint: {
		table: "sensitivity_points",
		cols: []string{"id", "frequency_value", "frequency_unit", "left_ear_value",
			"left_ear_unit", "left_ear_masked", "left_ear_clamp_low", "left_ear_clamp_high",
			"right_ear_value", "right_ear_unit", "right_ear_masked", "right_ear_clamp_low",
			"right_ear_clamp_high", "audiogram_id"},
		bind: func(row any) ([]any, error) {
			p, ok := row.(*models.SensitivityPoint)
			if !ok {
				return nil, badRow(models.KindSensitivityPoint, row)
			}
			return []any{p.ID.String(), p.FrequencyValue, p.FrequencyUnit, p.LeftEarValue,
				p.LeftEarUnit, boolPtr(p.LeftEarMasked), p.LeftEarClampLow, p.LeftEarClampHigh,
				p.RightEarValue, p.RightEarUnit, boolPtr(p.RightEarMasked), p.RightEarClampLow,
				p.RightEarClampHigh, p.AudiogramID.String()}, nil
		},
	},
	models.KindVisionPrescription: {
		table: "vision_prescriptions",
		cols:  []string{"id", "type", "date_issued", "expiration_date", "brand", "profile_id"},
		bind: func(row any) ([]any, error) {
			v, ok := row.(*models.VisionPrescription)
			if !ok {
				return nil, badRow(models.KindVisionPrescription, row)
			}
			return []any{v.ID.String(), v.Type, fmtTime(v.DateIssued),
				fmtTimePtr(v.ExpirationDate), v.Brand, v.ProfileID.String()}, nil
		},
	},
	models.KindEyePrescription: {
		table: "eye_prescriptions",
		cols: []string{"id", "eye_side", "sphere", "sphere_unit", "cylinder",
			"cylinder_unit", "axis", "axis_unit", "add_power", "add_power_unit",
			"vertex", "vertex_unit", "prism_amount", "prism_amount_unit",
			"prism_angle", "prism_angle_unit", "far_pd", "far_pd_unit",
			"near_pd", "near_pd_unit", "base_curve", "base_curve_unit",
			"diameter", "diameter_unit", "prescription_id"},
		bind: func(row any) ([]any, error) {
			e, ok := row.(*models.EyePrescription)
			if !ok {
				return nil, badRow(models.KindEyePrescription, row)
			}
			return []any{e.ID.String(), string(e.EyeSide), e.Sphere, e.SphereUnit,
				e.Cylinder, e.CylinderUnit, e.Axis, e.AxisUnit, e.Add, e.AddUnit,
				e.Vertex, e.VertexUnit, e.PrismAmount, e.PrismAmountUnit,
				e.PrismAngle, e.PrismAngleUnit, e.FarPD, e.FarPDUnit,
				e.NearPD, e.NearPDUnit, e.BaseCurve, e.BaseCurveUnit,
				e.Diameter, e.DiameterUnit, e.PrescriptionID.String()}, nil
		},
	},
	models.KindVisionAttachment: {
		table: "vision_attachments",
		cols:  []string{"id", "identifier", "prescription_id"},
		bind: func(row any) ([]any, error) {
			a, ok := row.(*models.VisionAttachment)
			if !ok {
				return nil, badRow(models.KindVisionAttachment, row)
			}
			return []any{a.ID.String(), a.Identifier, a.PrescriptionID.String()}, nil
		},
	},
	models.KindMetadataEntry: {
		table: "metadata_entries",
		cols:  []string{"id", "key", "value", "parent_kind", "parent_id"},
		bind: func(row any) ([]any, error) {
			m, ok := row.(*models.MetadataEntry)
			if !ok {
				return nil, badRow(models.KindMetadataEntry, row)
			}
			return []any{m.ID.String(), m.Key, m.Value, string(m.ParentKind),
				m.ParentID.String()}, nil
		},
	},
	models.KindHRVList: {
		table: "hrv_lists",
		cols:  []string{"id", "record_id"},
		bind: func(row any) ([]any, error) {
			h, ok := row.(*models.HRVList)
			if !ok {
				return nil, badRow(models.KindHRVList, row)
			}
			return []any{h.ID.String(), h.RecordID.String()}, nil
		},
	},
	models.KindBeatsPerMinute: {
		table: "instantaneous_bpm",
		cols:  []string{"id", "bpm", "time", "hrv_list_id"},
		bind: func(row any) ([]any, error) {
			b, ok := row.(*models.InstantaneousBPM)
			if !ok {
				return nil, badRow(models.KindBeatsPerMinute, row)
			}
			return []any{b.ID.String(), b.BPM, fmtTime(b.Time), b.HRVListID.String()}, nil
		},
	},
}
