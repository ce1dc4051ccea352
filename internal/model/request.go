package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxMileage is the largest accepted odometer value
const maxMileage = math.MaxInt32

// PriceEstimationRequest is the raw request body. Pointer fields tell an
// absent key apart from an empty value.
type PriceEstimationRequest struct {
	VIN            *string       `json:"vin"`
	LotID          *string       `json:"lotId"`
	Year           *json.Number  `json:"year"`
	Make           *string       `json:"make"`
	Model          *string       `json:"model"`
	Trim           *string       `json:"trim,omitempty"`
	Mileage        *json.Number  `json:"mileage"`
	CylinderCounts []json.Number `json:"cylinder_counts,omitempty"`
	Transmission   *string       `json:"transmission,omitempty"`
	Drivetrain     *string       `json:"drivetrain,omitempty"`
}

// VehicleQuery is a validated request
type VehicleQuery struct {
	VIN            string
	LotID          string
	Year           int
	Make           string
	Model          string
	Trim           *string
	Mileage        int
	CylinderCounts []string
	Transmission   *string
	Drivetrain     *string
}

// TrimValue returns the user trim or "" when none was sent
func (q VehicleQuery) TrimValue() string {
	if q.Trim == nil {
		return ""
	}
	return *q.Trim
}

// MissingFieldError lists required keys absent from the request
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "required keys are missing from the request data: " + strings.Join(e.Fields, ", ")
}

// InvalidFieldError reports a required key whose value cannot be used
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

// Validate checks required keys and converts the request to a VehicleQuery
func (r PriceEstimationRequest) Validate() (VehicleQuery, error) {
	var missing []string
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"vin", present(r.VIN)},
		{"lotId", present(r.LotID)},
		{"year", r.Year != nil && *r.Year != ""},
		{"make", present(r.Make)},
		{"model", present(r.Model)},
		{"mileage", r.Mileage != nil && *r.Mileage != ""},
	} {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return VehicleQuery{}, &MissingFieldError{Fields: missing}
	}

	year, err := strconv.Atoi(r.Year.String())
	if err != nil {
		return VehicleQuery{}, &InvalidFieldError{Field: "year", Reason: "must be an integer"}
	}

	mileage, err := parseMileage(*r.Mileage)
	if err != nil {
		return VehicleQuery{}, err
	}

	q := VehicleQuery{
		VIN:          strings.TrimSpace(*r.VIN),
		LotID:        strings.TrimSpace(*r.LotID),
		Year:         year,
		Make:         strings.TrimSpace(*r.Make),
		Model:        strings.TrimSpace(*r.Model),
		Mileage:      mileage,
		Trim:         trimmed(r.Trim),
		Transmission: trimmed(r.Transmission),
		Drivetrain:   trimmed(r.Drivetrain),
	}
	for _, c := range r.CylinderCounts {
		if c != "" {
			q.CylinderCounts = append(q.CylinderCounts, c.String())
		}
	}

	return q, nil
}

// parseMileage accepts integral values such as 47000 or "47000.0" up to
// maxMileage.
func parseMileage(n json.Number) (int, error) {
	f, err := n.Float64()
	if err != nil {
		return 0, &InvalidFieldError{Field: "mileage", Reason: "must be a number"}
	}
	if f < 0 {
		return 0, &InvalidFieldError{Field: "mileage", Reason: "must not be negative"}
	}
	if f != math.Trunc(f) {
		return 0, &InvalidFieldError{Field: "mileage", Reason: "must be a whole number"}
	}
	if f > maxMileage {
		return 0, &InvalidFieldError{Field: "mileage", Reason: fmt.Sprintf("must not exceed %d", maxMileage)}
	}
	return int(f), nil
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// trimmed returns nil for absent or blank optional values
func trimmed(s *string) *string {
	if !present(s) {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
