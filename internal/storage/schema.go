// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One table per export entity kind plus identity-key indexes for dedup.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS health_profiles (
		id TEXT PRIMARY KEY,
		locale TEXT NOT NULL,
		export_date DATETIME NOT NULL,
		date_of_birth TEXT NOT NULL DEFAULT '',
		biological_sex TEXT NOT NULL DEFAULT '',
		blood_type TEXT NOT NULL DEFAULT '',
		skin_type TEXT NOT NULL DEFAULT '',
		medications_use TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		source_name TEXT NOT NULL DEFAULT '',
		source_version TEXT,
		device TEXT,
		unit TEXT,
		value TEXT,
		creation_date DATETIME,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		profile_id TEXT NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES health_profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		activity_type TEXT NOT NULL,
		duration REAL,
		duration_unit TEXT,
		total_distance REAL,
		total_distance_unit TEXT,
		total_energy_burned REAL,
		total_energy_burned_unit TEXT,
		source_name TEXT NOT NULL DEFAULT '',
		source_version TEXT,
		device TEXT,
		creation_date DATETIME,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		profile_id TEXT NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES health_profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS workout_events (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		date DATETIME NOT NULL,
		duration REAL,
		duration_unit TEXT,
		workout_id TEXT NOT NULL,
		FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS workout_statistics (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		average REAL,
		minimum REAL,
		maximum REAL,
		sum REAL,
		unit TEXT,
		workout_id TEXT NOT NULL,
		FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS workout_routes (
		id TEXT PRIMARY KEY,
		source_name TEXT NOT NULL DEFAULT '',
		source_version TEXT,
		device TEXT,
		creation_date DATETIME,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		file_path TEXT NOT NULL DEFAULT '',
		workout_id TEXT NOT NULL,
		FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS correlations (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		source_name TEXT NOT NULL DEFAULT '',
		source_version TEXT,
		device TEXT,
		creation_date DATETIME,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		profile_id TEXT NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES health_profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS correlation_records (
		id TEXT PRIMARY KEY,
		correlation_id TEXT NOT NULL,
		record_id TEXT NOT NULL,
		FOREIGN KEY (correlation_id) REFERENCES correlations(id) ON DELETE CASCADE,
		FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS activity_summaries (
		id TEXT PRIMARY KEY,
		date_components TEXT NOT NULL,
		active_energy_burned REAL,
		active_energy_goal REAL,
		active_energy_unit TEXT,
		move_time REAL,
		move_time_goal REAL,
		exercise_time REAL,
		exercise_time_goal REAL,
		stand_hours INTEGER,
		stand_hours_goal INTEGER,
		profile_id TEXT NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES health_profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS clinical_records (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		identifier TEXT NOT NULL,
		source_name TEXT NOT NULL DEFAULT '',
		source_url TEXT,
		fhir_version TEXT,
		received_date DATETIME NOT NULL,
		resource_file_path TEXT,
		profile_id TEXT NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES health_profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS audiograms (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		source_name TEXT NOT NULL DEFAULT '',
		source_version TEXT,
		device TEXT,
		creation_date DATETIME,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		profile_id TEXT NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES health_profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS sensitivity_points (
		id TEXT PRIMARY KEY,
		frequency_value REAL NOT NULL,
		frequency_unit TEXT NOT NULL DEFAULT '',
		left_ear_value REAL,
		left_ear_unit TEXT,
		left_ear_masked INTEGER,
		left_ear_clamp_low REAL,
		left_ear_clamp_high REAL,
		right_ear_value REAL,
		right_ear_unit TEXT,
		right_ear_masked INTEGER,
		right_ear_clamp_low REAL,
		right_ear_clamp_high REAL,
		audiogram_id TEXT NOT NULL,
		FOREIGN KEY (audiogram_id) REFERENCES audiograms(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS vision_prescriptions (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		date_issued DATETIME NOT NULL,
		expiration_date DATETIME,
		brand TEXT,
		profile_id TEXT NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES health_profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS eye_prescriptions (
		id TEXT PRIMARY KEY,
		eye_side TEXT NOT NULL,
		sphere REAL, sphere_unit TEXT,
		cylinder REAL, cylinder_unit TEXT,
		axis REAL, axis_unit TEXT,
		add_power REAL, add_power_unit TEXT,
		vertex REAL, vertex_unit TEXT,
		prism_amount REAL, prism_amount_unit TEXT,
		prism_angle REAL, prism_angle_unit TEXT,
		far_pd REAL, far_pd_unit TEXT,
		near_pd REAL, near_pd_unit TEXT,
		base_curve REAL, base_curve_unit TEXT,
		diameter REAL, diameter_unit TEXT,
		prescription_id TEXT NOT NULL,
		FOREIGN KEY (prescription_id) REFERENCES vision_prescriptions(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS vision_attachments (
		id TEXT PRIMARY KEY,
		identifier TEXT NOT NULL DEFAULT '',
		prescription_id TEXT NOT NULL,
		FOREIGN KEY (prescription_id) REFERENCES vision_prescriptions(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS metadata_entries (
		id TEXT PRIMARY KEY,
		key TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		parent_kind TEXT NOT NULL,
		parent_id TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS hrv_lists (
		id TEXT PRIMARY KEY,
		record_id TEXT NOT NULL,
		FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS instantaneous_bpm (
		id TEXT PRIMARY KEY,
		bpm INTEGER NOT NULL,
		time DATETIME NOT NULL,
		hrv_list_id TEXT NOT NULL,
		FOREIGN KEY (hrv_list_id) REFERENCES hrv_lists(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_records_identity ON records(type, start_date, end_date, profile_id, value);
	CREATE INDEX IF NOT EXISTS idx_records_type_start ON records(type, start_date);
	CREATE INDEX IF NOT EXISTS idx_workouts_identity ON workouts(activity_type, start_date, end_date, profile_id);
	CREATE INDEX IF NOT EXISTS idx_correlations_identity ON correlations(type, start_date, end_date, profile_id);
	CREATE INDEX IF NOT EXISTS idx_summaries_identity ON activity_summaries(date_components, profile_id);
	CREATE INDEX IF NOT EXISTS idx_clinical_identity ON clinical_records(identifier, profile_id);
	CREATE INDEX IF NOT EXISTS idx_audiograms_identity ON audiograms(type, start_date, end_date, profile_id);
	CREATE INDEX IF NOT EXISTS idx_vision_identity ON vision_prescriptions(type, date_issued, profile_id);
	CREATE INDEX IF NOT EXISTS idx_links_pair ON correlation_records(correlation_id, record_id);
	CREATE INDEX IF NOT EXISTS idx_metadata_parent ON metadata_entries(parent_kind, parent_id);
	CREATE INDEX IF NOT EXISTS idx_events_workout ON workout_events(workout_id);
	CREATE INDEX IF NOT EXISTS idx_stats_workout ON workout_statistics(workout_id);
	CREATE INDEX IF NOT EXISTS idx_routes_workout ON workout_routes(workout_id);
	CREATE INDEX IF NOT EXISTS idx_points_audiogram ON sensitivity_points(audiogram_id);
	CREATE INDEX IF NOT EXISTS idx_bpm_list ON instantaneous_bpm(hrv_list_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
