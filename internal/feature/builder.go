// Package feature turns location rows into GeoJSON features and writes
// feature collections.
package feature

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/roach88/case2geojson/internal/location"
	"github.com/roach88/case2geojson/internal/term"
)

// Property keys written to feature properties.
const (
	PropStreet      = "street"
	PropLocality    = "locality"
	PropRegion      = "region"
	PropPostalCode  = "postalCode"
	PropCountry     = "country"
	PropAddressType = "addressType"
)

// CoordinatePolicy says what to do with a coordinate that does not decode.
type CoordinatePolicy string

const (
	// DropGeometry leaves the feature without geometry and reports a defect.
	DropGeometry CoordinatePolicy = "drop-geometry"

	// FailRun makes Build return a *DecodeError.
	FailRun CoordinatePolicy = "fail"
)

// ParseCoordinatePolicy validates a policy name.
func ParseCoordinatePolicy(s string) (CoordinatePolicy, error) {
	switch p := CoordinatePolicy(s); p {
	case DropGeometry, FailRun:
		return p, nil
	default:
		return "", fmt.Errorf("unknown coordinate policy %q (want %q or %q)", s, DropGeometry, FailRun)
	}
}

// decimalPattern accepts xsd:decimal and finite xsd:double lexical forms.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

type property struct {
	key string
	lit *term.Literal
}

// Builder maps location rows to features.
type Builder struct {
	policy          CoordinatePolicy
	emitAddressType bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithCoordinatePolicy sets the decode failure policy. Default DropGeometry.
func WithCoordinatePolicy(p CoordinatePolicy) BuilderOption {
	return func(b *Builder) {
		b.policy = p
	}
}

// WithAddressType controls whether a bound addressType is written as a
// property. Default true.
func WithAddressType(emit bool) BuilderOption {
	return func(b *Builder) {
		b.emitAddressType = emit
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		policy:          DropGeometry,
		emitAddressType: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns exactly one feature for the row.
//
// Geometry is a Point [longitude, latitude], present only when both
// coordinates are bound and decode. Properties hold one key per bound
// address field; unbound fields have no key.
//
// Under DropGeometry a bad coordinate is returned as a Defect and the
// feature is still built. Under FailRun it is returned as a *DecodeError
// and the feature is nil.
func (b *Builder) Build(row location.Row) (*geojson.Feature, []Defect, error) {
	var defects []Defect
	var geometry orb.Geometry

	if row.Latitude != nil && row.Longitude != nil {
		lat, latErr := DecodeCoordinate(*row.Latitude)
		lon, lonErr := DecodeCoordinate(*row.Longitude)

		var failures []*DecodeError
		if latErr != nil {
			failures = append(failures, &DecodeError{Row: row.Index, Location: row.LocationID(), Field: location.VarLatitude, Lexical: row.Latitude.Lexical, Err: latErr})
		}
		if lonErr != nil {
			failures = append(failures, &DecodeError{Row: row.Index, Location: row.LocationID(), Field: location.VarLongitude, Lexical: row.Longitude.Lexical, Err: lonErr})
		}

		if len(failures) > 0 {
			if b.policy == FailRun {
				return nil, nil, failures[0]
			}
			for _, f := range failures {
				defects = append(defects, f.Defect())
			}
		} else {
			geometry = orb.Point{lon, lat}
		}
	}

	f := geojson.NewFeature(geometry)
	if f.Properties == nil {
		f.Properties = geojson.Properties{}
	}

	props := []property{
		{PropStreet, row.Street},
		{PropLocality, row.Locality},
		{PropRegion, row.Region},
		{PropPostalCode, row.PostalCode},
		{PropCountry, row.Country},
	}
	if b.emitAddressType {
		props = append(props, property{PropAddressType, row.AddressType})
	}
	for _, p := range props {
		if p.lit != nil {
			f.Properties[p.key] = p.lit.Lexical
		}
	}

	return f, defects, nil
}

// DecodeCoordinate parses a literal's lexical form as a finite float64.
// Surrounding whitespace is ignored (xsd numeric types collapse it);
// NaN, infinities, and hexadecimal forms are rejected.
func DecodeCoordinate(lit term.Literal) (float64, error) {
	s := strings.TrimSpace(lit.Lexical)
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("%q is not a decimal number", lit.Lexical)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", lit.Lexical, err)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%q is not finite", lit.Lexical)
	}
	return v, nil
}
