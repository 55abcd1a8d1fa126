// ABOUTME: Pure decoders from element attribute maps to typed entities.
// ABOUTME: Never touch the store or the duplicate index; errors stay per-element.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/hkimport/internal/models"
)

// attrStr returns the attribute value, defaulting to the empty string.
func attrStr(attrs map[string]string, name string) string {
	return attrs[name]
}

// attrStrPtr returns nil for an absent attribute, for nullable columns.
func attrStrPtr(attrs map[string]string, name string) *string {
	v, ok := attrs[name]
	if !ok {
		return nil
	}
	return &v
}

// attrFloat decodes an optional numeric attribute. Empty or absent means
// no value, never zero.
func attrFloat(attrs map[string]string, name string) (*float64, error) {
	v, ok := attrs[name]
	if !ok || v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("attribute %s: %w", name, err)
	}
	return &f, nil
}

// attrInt decodes an optional integer attribute.
func attrInt(attrs map[string]string, name string) (*int64, error) {
	v, ok := attrs[name]
	if !ok || v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("attribute %s: %w", name, err)
	}
	return &n, nil
}

// attrBool decodes an optional "true"/"false" attribute.
func attrBool(attrs map[string]string, name string) *bool {
	v, ok := attrs[name]
	if !ok || v == "" {
		return nil
	}
	b := v == "true"
	return &b
}

// unescapeUnit rewrites encoded angle brackets that survive XML decoding in
// unit strings, e.g. "cm&lt;250" becomes "cm<250".
func unescapeUnit(s *string) *string {
	if s == nil {
		return nil
	}
	if !strings.Contains(*s, "&lt;") && !strings.Contains(*s, "&gt;") {
		return s
	}
	u := strings.ReplaceAll(*s, "&lt;", "<")
	u = strings.ReplaceAll(u, "&gt;", ">")
	return &u
}

func decodeRecord(attrs map[string]string, profileID uuid.UUID, loc *time.Location) (*models.Record, error) {
	creation, err := parseDateOpt(attrStr(attrs, "creationDate"), loc)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(attrStr(attrs, "startDate"), loc)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(attrStr(attrs, "endDate"), loc)
	if err != nil {
		return nil, err
	}
	return &models.Record{
		ID:            uuid.New(),
		Type:          attrStr(attrs, "type"),
		SourceName:    attrStr(attrs, "sourceName"),
		SourceVersion: attrStrPtr(attrs, "sourceVersion"),
		Device:        attrStrPtr(attrs, "device"),
		Unit:          unescapeUnit(attrStrPtr(attrs, "unit")),
		Value:         attrStrPtr(attrs, "value"),
		CreationDate:  creation,
		StartDate:     start,
		EndDate:       end,
		ProfileID:     profileID,
	}, nil
}

func decodeCorrelation(attrs map[string]string, profileID uuid.UUID, loc *time.Location) (*models.Correlation, error) {
	creation, err := parseDateOpt(attrStr(attrs, "creationDate"), loc)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(attrStr(attrs, "startDate"), loc)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(attrStr(attrs, "endDate"), loc)
	if err != nil {
		return nil, err
	}
	return &models.Correlation{
		ID:            uuid.New(),
		Type:          attrStr(attrs, "type"),
		SourceName:    attrStr(attrs, "sourceName"),
		SourceVersion: attrStrPtr(attrs, "sourceVersion"),
		Device:        attrStrPtr(attrs, "device"),
		CreationDate:  creation,
		StartDate:     start,
		EndDate:       end,
		ProfileID:     profileID,
	}, nil
}

func decodeWorkout(attrs map[string]string, profileID uuid.UUID, loc *time.Location) (*models.Workout, error) {
	duration, err := attrFloat(attrs, "duration")
	if err != nil {
		return nil, err
	}
	distance, err := attrFloat(attrs, "totalDistance")
	if err != nil {
		return nil, err
	}
	energy, err := attrFloat(attrs, "totalEnergyBurned")
	if err != nil {
		return nil, err
	}
	creation, err := parseDateOpt(attrStr(attrs, "creationDate"), loc)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(attrStr(attrs, "startDate"), loc)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(attrStr(attrs, "endDate"), loc)
	if err != nil {
		return nil, err
	}
	return &models.Workout{
		ID:                    uuid.New(),
		ActivityType:          attrStr(attrs, "workoutActivityType"),
		Duration:              duration,
		DurationUnit:          unescapeUnit(attrStrPtr(attrs, "durationUnit")),
		TotalDistance:         distance,
		TotalDistanceUnit:     unescapeUnit(attrStrPtr(attrs, "totalDistanceUnit")),
		TotalEnergyBurned:     energy,
		TotalEnergyBurnedUnit: unescapeUnit(attrStrPtr(attrs, "totalEnergyBurnedUnit")),
		SourceName:            attrStr(attrs, "sourceName"),
		SourceVersion:         attrStrPtr(attrs, "sourceVersion"),
		Device:                attrStrPtr(attrs, "device"),
		CreationDate:          creation,
		StartDate:             start,
		EndDate:               end,
		ProfileID:             profileID,
	}, nil
}

func decodeActivitySummary(attrs map[string]string, profileID uuid.UUID) (*models.ActivitySummary, error) {
	s := &models.ActivitySummary{
		ID:               uuid.New(),
		DateComponents:   attrStr(attrs, "dateComponents"),
		ActiveEnergyUnit: unescapeUnit(attrStrPtr(attrs, "activeEnergyBurnedUnit")),
		ProfileID:        profileID,
	}
	var err error
	if s.ActiveEnergyBurned, err = attrFloat(attrs, "activeEnergyBurned"); err != nil {
		return nil, err
	}
	if s.ActiveEnergyGoal, err = attrFloat(attrs, "activeEnergyBurnedGoal"); err != nil {
		return nil, err
	}
	if s.MoveTime, err = attrFloat(attrs, "appleMoveTime"); err != nil {
		return nil, err
	}
	if s.MoveTimeGoal, err = attrFloat(attrs, "appleMoveTimeGoal"); err != nil {
		return nil, err
	}
	if s.ExerciseTime, err = attrFloat(attrs, "appleExerciseTime"); err != nil {
		return nil, err
	}
	if s.ExerciseTimeGoal, err = attrFloat(attrs, "appleExerciseTimeGoal"); err != nil {
		return nil, err
	}
	if s.StandHours, err = attrInt(attrs, "appleStandHours"); err != nil {
		return nil, err
	}
	if s.StandHoursGoal, err = attrInt(attrs, "appleStandHoursGoal"); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeClinicalRecord(attrs map[string]string, profileID uuid.UUID, loc *time.Location) (*models.ClinicalRecord, error) {
	received, err := parseDate(attrStr(attrs, "receivedDate"), loc)
	if err != nil {
		return nil, err
	}
	return &models.ClinicalRecord{
		ID:               uuid.New(),
		Type:             attrStr(attrs, "type"),
		Identifier:       attrStr(attrs, "identifier"),
		SourceName:       attrStr(attrs, "sourceName"),
		SourceURL:        attrStrPtr(attrs, "sourceURL"),
		FHIRVersion:      attrStrPtr(attrs, "fhirVersion"),
		ReceivedDate:     received,
		ResourceFilePath: attrStrPtr(attrs, "resourceFilePath"),
		ProfileID:        profileID,
	}, nil
}

func decodeAudiogram(attrs map[string]string, profileID uuid.UUID, loc *time.Location) (*models.Audiogram, error) {
	creation, err := parseDateOpt(attrStr(attrs, "creationDate"), loc)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(attrStr(attrs, "startDate"), loc)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(attrStr(attrs, "endDate"), loc)
	if err != nil {
		return nil, err
	}
	return &models.Audiogram{
		ID:            uuid.New(),
		Type:          attrStr(attrs, "type"),
		SourceName:    attrStr(attrs, "sourceName"),
		SourceVersion: attrStrPtr(attrs, "sourceVersion"),
		Device:        attrStrPtr(attrs, "device"),
		CreationDate:  creation,
		StartDate:     start,
		EndDate:       end,
		ProfileID:     profileID,
	}, nil
}

func decodeVisionPrescription(attrs map[string]string, profileID uuid.UUID, loc *time.Location) (*models.VisionPrescription, error) {
	issued, err := parseDate(attrStr(attrs, "dateIssued"), loc)
	if err != nil {
		return nil, err
	}
	expiration, err := parseDateOpt(attrStr(attrs, "expirationDate"), loc)
	if err != nil {
		return nil, err
	}
	return &models.VisionPrescription{
		ID:             uuid.New(),
		Type:           attrStr(attrs, "type"),
		DateIssued:     issued,
		ExpirationDate: expiration,
		Brand:          attrStrPtr(attrs, "brand"),
		ProfileID:      profileID,
	}, nil
}

func decodeWorkoutEvent(attrs map[string]string, workoutID uuid.UUID, loc *time.Location) (*models.WorkoutEvent, error) {
	date, err := parseDate(attrStr(attrs, "date"), loc)
	if err != nil {
		return nil, err
	}
	duration, err := attrFloat(attrs, "duration")
	if err != nil {
		return nil, err
	}
	return &models.WorkoutEvent{
		ID:           uuid.New(),
		Type:         attrStr(attrs, "type"),
		Date:         date,
		Duration:     duration,
		DurationUnit: unescapeUnit(attrStrPtr(attrs, "durationUnit")),
		WorkoutID:    workoutID,
	}, nil
}

func decodeWorkoutStatistics(attrs map[string]string, workoutID uuid.UUID, loc *time.Location) (*models.WorkoutStatistics, error) {
	start, err := parseDate(attrStr(attrs, "startDate"), loc)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(attrStr(attrs, "endDate"), loc)
	if err != nil {
		return nil, err
	}
	s := &models.WorkoutStatistics{
		ID:        uuid.New(),
		Type:      attrStr(attrs, "type"),
		StartDate: start,
		EndDate:   end,
		Unit:      unescapeUnit(attrStrPtr(attrs, "unit")),
		WorkoutID: workoutID,
	}
	if s.Average, err = attrFloat(attrs, "average"); err != nil {
		return nil, err
	}
	if s.Minimum, err = attrFloat(attrs, "minimum"); err != nil {
		return nil, err
	}
	if s.Maximum, err = attrFloat(attrs, "maximum"); err != nil {
		return nil, err
	}
	if s.Sum, err = attrFloat(attrs, "sum"); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeWorkoutRoute(attrs map[string]string, workoutID uuid.UUID, loc *time.Location) (*models.WorkoutRoute, error) {
	creation, err := parseDateOpt(attrStr(attrs, "creationDate"), loc)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(attrStr(attrs, "startDate"), loc)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(attrStr(attrs, "endDate"), loc)
	if err != nil {
		return nil, err
	}
	return &models.WorkoutRoute{
		ID:            uuid.New(),
		SourceName:    attrStr(attrs, "sourceName"),
		SourceVersion: attrStrPtr(attrs, "sourceVersion"),
		Device:        attrStrPtr(attrs, "device"),
		CreationDate:  creation,
		StartDate:     start,
		EndDate:       end,
		FilePath:      attrStr(attrs, "filePath"),
		WorkoutID:     workoutID,
	}, nil
}

func decodeSensitivityPoint(attrs map[string]string, audiogramID uuid.UUID) (*models.SensitivityPoint, error) {
	freq, err := attrFloat(attrs, "frequencyValue")
	if err != nil {
		return nil, err
	}
	if freq == nil {
		return nil, fmt.Errorf("attribute frequencyValue: missing")
	}
	p := &models.SensitivityPoint{
		ID:             uuid.New(),
		FrequencyValue: *freq,
		FrequencyUnit:  attrStr(attrs, "frequencyUnit"),
		LeftEarMasked:  attrBool(attrs, "leftEarMasked"),
		RightEarMasked: attrBool(attrs, "rightEarMasked"),
		AudiogramID:    audiogramID,
	}
	p.LeftEarUnit = unescapeUnit(attrStrPtr(attrs, "leftEarUnit"))
	p.RightEarUnit = unescapeUnit(attrStrPtr(attrs, "rightEarUnit"))
	if p.LeftEarValue, err = attrFloat(attrs, "leftEarValue"); err != nil {
		return nil, err
	}
	if p.LeftEarClampLow, err = attrFloat(attrs, "leftEarClampingRangeLowerBound"); err != nil {
		return nil, err
	}
	if p.LeftEarClampHigh, err = attrFloat(attrs, "leftEarClampingRangeUpperBound"); err != nil {
		return nil, err
	}
	if p.RightEarValue, err = attrFloat(attrs, "rightEarValue"); err != nil {
		return nil, err
	}
	if p.RightEarClampLow, err = attrFloat(attrs, "rightEarClampingRangeLowerBound"); err != nil {
		return nil, err
	}
	if p.RightEarClampHigh, err = attrFloat(attrs, "rightEarClampingRangeUpperBound"); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeEyePrescription(attrs map[string]string, prescriptionID uuid.UUID) (*models.EyePrescription, error) {
	side := models.EyeRight
	if attrStr(attrs, "eye") == "left" {
		side = models.EyeLeft
	}
	e := &models.EyePrescription{
		ID:             uuid.New(),
		EyeSide:        side,
		PrescriptionID: prescriptionID,
	}

	// (value attribute, unit attribute, destinations) for each optical field.
	fields := []struct {
		name, unitName string
		value          **float64
		unit           **string
	}{
		{"sphere", "sphereUnit", &e.Sphere, &e.SphereUnit},
		{"cylinder", "cylinderUnit", &e.Cylinder, &e.CylinderUnit},
		{"axis", "axisUnit", &e.Axis, &e.AxisUnit},
		{"add", "addUnit", &e.Add, &e.AddUnit},
		{"vertex", "vertexUnit", &e.Vertex, &e.VertexUnit},
		{"prismAmount", "prismAmountUnit", &e.PrismAmount, &e.PrismAmountUnit},
		{"prismAngle", "prismAngleUnit", &e.PrismAngle, &e.PrismAngleUnit},
		{"farPD", "farPDUnit", &e.FarPD, &e.FarPDUnit},
		{"nearPD", "nearPDUnit", &e.NearPD, &e.NearPDUnit},
		{"baseCurve", "baseCurveUnit", &e.BaseCurve, &e.BaseCurveUnit},
		{"diameter", "diameterUnit", &e.Diameter, &e.DiameterUnit},
	}
	for _, f := range fields {
		v, err := attrFloat(attrs, f.name)
		if err != nil {
			return nil, err
		}
		*f.value = v
		*f.unit = unescapeUnit(attrStrPtr(attrs, f.unitName))
	}
	return e, nil
}

func decodeVisionAttachment(attrs map[string]string, prescriptionID uuid.UUID) *models.VisionAttachment {
	return &models.VisionAttachment{
		ID:             uuid.New(),
		Identifier:     attrStr(attrs, "identifier"),
		PrescriptionID: prescriptionID,
	}
}

func decodeMetadataEntry(attrs map[string]string, parentKind models.Kind, parentID uuid.UUID) *models.MetadataEntry {
	return &models.MetadataEntry{
		ID:         uuid.New(),
		Key:        attrStr(attrs, "key"),
		Value:      attrStr(attrs, "value"),
		ParentKind: parentKind,
		ParentID:   parentID,
	}
}

func decodeInstantaneousBPM(attrs map[string]string, hrvListID uuid.UUID, loc *time.Location) (*models.InstantaneousBPM, error) {
	bpm, err := attrInt(attrs, "bpm")
	if err != nil {
		return nil, err
	}
	if bpm == nil {
		return nil, fmt.Errorf("attribute bpm: missing")
	}
	t, err := parseDate(attrStr(attrs, "time"), loc)
	if err != nil {
		return nil, err
	}
	return &models.InstantaneousBPM{
		ID:        uuid.New(),
		BPM:       *bpm,
		Time:      t,
		HRVListID: hrvListID,
	}, nil
}

func decodePersonalInfo(attrs map[string]string) models.PersonalInfo {
	return models.PersonalInfo{
		DateOfBirth:    attrStr(attrs, "HKCharacteristicTypeIdentifierDateOfBirth"),
		BiologicalSex:  attrStr(attrs, "HKCharacteristicTypeIdentifierBiologicalSex"),
		BloodType:      attrStr(attrs, "HKCharacteristicTypeIdentifierBloodType"),
		SkinType:       attrStr(attrs, "HKCharacteristicTypeIdentifierFitzpatrickSkinType"),
		MedicationsUse: attrStr(attrs, "HKCharacteristicTypeIdentifierCardioFitnessMedicationsUse"),
	}
}
