package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func decode(t *testing.T, body string) PriceEstimationRequest {
	t.Helper()
	var req PriceEstimationRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return req
}

func TestValidate(t *testing.T) {
	req := decode(t, `{
		"vin": "1FM5K8F84KGA00001", "lotId": "45123456", "year": 2019,
		"make": "Ford", "model": "Explorer", "trim": " XLT ", "mileage": "62000",
		"cylinder_counts": [6, "4"], "transmission": "automatic"
	}`)

	q, err := req.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if q.Year != 2019 || q.Mileage != 62000 || q.Make != "Ford" || q.LotID != "45123456" {
		t.Errorf("unexpected query %+v", q)
	}
	if q.TrimValue() != "XLT" {
		t.Errorf("TrimValue() = %q, want XLT", q.TrimValue())
	}
	if !reflect.DeepEqual(q.CylinderCounts, []string{"6", "4"}) {
		t.Errorf("CylinderCounts = %v", q.CylinderCounts)
	}
	if q.Transmission == nil || *q.Transmission != "automatic" {
		t.Errorf("Transmission = %v", q.Transmission)
	}
	if q.Drivetrain != nil {
		t.Errorf("Drivetrain = %v, want nil", *q.Drivetrain)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	req := decode(t, `{"vin": "X", "make": "", "model": "Civic", "mileage": 0}`)

	_, err := req.Validate()
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("Validate() error = %v, want MissingFieldError", err)
	}
	if want := []string{"lotId", "year", "make"}; !reflect.DeepEqual(missing.Fields, want) {
		t.Errorf("Fields = %v, want %v", missing.Fields, want)
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"Fractional year", `{"vin":"V","lotId":"L","year":2019.5,"make":"Ford","model":"Edge","mileage":1}`, "year"},
		{"Negative mileage", `{"vin":"V","lotId":"L","year":2019,"make":"Ford","model":"Edge","mileage":-1}`, "mileage"},
		{"Fractional mileage", `{"vin":"V","lotId":"L","year":2019,"make":"Ford","model":"Edge","mileage":50000.5}`, "mileage"},
		{"Huge mileage", `{"vin":"V","lotId":"L","year":2019,"make":"Ford","model":"Edge","mileage":1e30}`, "mileage"},
		{"Mileage beyond int range", `{"vin":"V","lotId":"L","year":2019,"make":"Ford","model":"Edge","mileage":9223372036854775807}`, "mileage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.body).Validate()
			var invalid *InvalidFieldError
			if !errors.As(err, &invalid) || invalid.Field != tt.field {
				t.Errorf("Validate() error = %v, want InvalidFieldError on %s", err, tt.field)
			}
		})
	}
}

func TestValidate_ZeroMileageAndBlankTrim(t *testing.T) {
	req := decode(t, `{"vin":"V","lotId":"L","year":"2021","make":"Honda","model":"Civic","mileage":0,"trim":"  "}`)
	q, err := req.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if q.Mileage != 0 || q.Trim != nil {
		t.Errorf("unexpected query %+v", q)
	}
}

func TestValidate_WholeFloatMileage(t *testing.T) {
	req := decode(t, `{"vin":"V","lotId":"L","year":2019,"make":"Ford","model":"Edge","mileage":"47000.0"}`)
	q, err := req.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if q.Mileage != 47000 {
		t.Errorf("Mileage = %d, want 47000", q.Mileage)
	}
}
