package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/geofield/internal/domain"
)

func TestParsePoint_Valid(t *testing.T) {
	p, err := ParsePoint("45.0", " -122.5 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat != 45 || p.Lon != -122.5 {
		t.Errorf("got %+v", p)
	}
}

func TestParsePoint_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon string
	}{
		{"lat not a number", "north", "10"},
		{"lon not a number", "10", "east"},
		{"lat too big", "90.0001", "0"},
		{"lon too small", "0", "-180.5"},
		{"nan", "NaN", "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePoint(tc.lat, tc.lon)
			if !errors.Is(err, domain.ErrInvalidCoordinates) {
				t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{0, 180.1, false},
		{math.NaN(), 0, false},
	}
	for _, tc := range tests {
		if got := ValidateCoordinates(tc.lat, tc.lon); got != tc.want {
			t.Errorf("ValidateCoordinates(%v, %v) = %v, want %v", tc.lat, tc.lon, got, tc.want)
		}
	}
}
