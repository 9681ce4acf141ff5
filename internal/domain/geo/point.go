package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/geofield/internal/domain"
)

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// ParsePoint parses decimal-degree text and checks the ranges.
func ParsePoint(lat, lon string) (Point, error) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Point{}, fmt.Errorf("latitude %q: %w", lat, domain.ErrInvalidCoordinates)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Point{}, fmt.Errorf("longitude %q: %w", lon, domain.ErrInvalidCoordinates)
	}
	if !ValidateCoordinates(la, lo) {
		return Point{}, fmt.Errorf("lat=%s lon=%s out of range: %w", lat, lon, domain.ErrInvalidCoordinates)
	}
	return Point{Lat: la, Lon: lo}, nil
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
// NaN fails both comparisons and is rejected.
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
