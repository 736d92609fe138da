// Package location holds the fixed graph pattern that finds UCO locations
// and the typed rows it produces.
package location

import (
	"context"
	"fmt"

	"github.com/roach88/case2geojson/internal/graphpattern"
	"github.com/roach88/case2geojson/internal/patternsql"
	"github.com/roach88/case2geojson/internal/store"
	"github.com/roach88/case2geojson/internal/term"
	"github.com/roach88/case2geojson/internal/vocab"
)

// Projected variable names.
const (
	VarLocation    = "nLocation"
	VarLatitude    = "lLatitude"
	VarLongitude   = "lLongitude"
	VarAddressType = "lAddressType"
	VarCountry     = "lCountry"
	VarLocality    = "lLocality"
	VarPostalCode  = "lPostalCode"
	VarRegion      = "lRegion"
	VarStreet      = "lStreet"
)

// Query returns the location pattern:
//
//	?nLocation a uco-location:Location .
//	OPTIONAL { lat/long facet, each coordinate OPTIONAL }
//	OPTIONAL { simple address facet, each field OPTIONAL }
//
// A location with several facets of one kind yields one solution per
// combination.
func Query() graphpattern.Select {
	v := func(name string) graphpattern.Var { return graphpattern.Var(name) }
	iri := func(s string) graphpattern.IRI { return graphpattern.IRI(s) }
	opt := func(subject, predicate, object string) graphpattern.Group {
		return graphpattern.Optional([]graphpattern.Triple{
			graphpattern.T(v(subject), iri(predicate), v(object)),
		})
	}

	const latLong = "nLatLongFacet"
	const address = "nSimpleAddressFacet"

	return graphpattern.Select{
		Prefixes: []graphpattern.Prefix{
			{Name: vocab.PrefixCore, IRI: vocab.CoreNamespace},
			{Name: vocab.PrefixLocation, IRI: vocab.LocationNamespace},
		},
		Vars: []graphpattern.Var{
			v(VarLocation),
			v(VarLatitude),
			v(VarLongitude),
			v(VarAddressType),
			v(VarCountry),
			v(VarLocality),
			v(VarPostalCode),
			v(VarRegion),
			v(VarStreet),
		},
		Where: graphpattern.Group{
			Triples: []graphpattern.Triple{
				graphpattern.T(v(VarLocation), iri(vocab.RDFType), iri(vocab.ClassLocation)),
			},
			Optionals: []graphpattern.Group{
				graphpattern.Optional(
					[]graphpattern.Triple{
						graphpattern.T(v(VarLocation), iri(vocab.HasFacet), v(latLong)),
						graphpattern.T(v(latLong), iri(vocab.RDFType), iri(vocab.ClassLatLongCoordinatesFacet)),
					},
					opt(latLong, vocab.Latitude, VarLatitude),
					opt(latLong, vocab.Longitude, VarLongitude),
				),
				graphpattern.Optional(
					[]graphpattern.Triple{
						graphpattern.T(v(VarLocation), iri(vocab.HasFacet), v(address)),
						graphpattern.T(v(address), iri(vocab.RDFType), iri(vocab.ClassSimpleAddressFacet)),
					},
					opt(address, vocab.AddressType, VarAddressType),
					opt(address, vocab.Country, VarCountry),
					opt(address, vocab.Locality, VarLocality),
					opt(address, vocab.PostalCode, VarPostalCode),
					opt(address, vocab.Region, VarRegion),
					opt(address, vocab.Street, VarStreet),
				),
			},
		},
	}
}

// Rows evaluates Query against the store and converts each solution.
// Returns the rows in solution order plus any row-level defects. An error
// means the query itself could not run.
func Rows(ctx context.Context, q store.Querier) ([]Row, []Defect, error) {
	solutions, err := patternsql.Evaluate(ctx, q, Query())
	if err != nil {
		return nil, nil, fmt.Errorf("evaluate location query: %w", err)
	}

	rows := make([]Row, 0, len(solutions))
	var defects []Defect
	for i, sol := range solutions {
		row, rowDefects := FromSolution(i, sol)
		rows = append(rows, row)
		defects = append(defects, rowDefects...)
	}
	return rows, defects, nil
}

// FromSolution builds a Row. A variable bound to an IRI or blank node where
// a literal is expected is reported as a defect and left unset.
func FromSolution(index int, sol graphpattern.Solution) (Row, []Defect) {
	row := Row{Index: index}
	row.Location, _ = sol.Get(VarLocation)

	var defects []Defect
	fields := []struct {
		name string
		dst  **term.Literal
	}{
		{VarLatitude, &row.Latitude},
		{VarLongitude, &row.Longitude},
		{VarAddressType, &row.AddressType},
		{VarCountry, &row.Country},
		{VarLocality, &row.Locality},
		{VarPostalCode, &row.PostalCode},
		{VarRegion, &row.Region},
		{VarStreet, &row.Street},
	}
	for _, f := range fields {
		t, ok := sol.Get(f.name)
		if !ok {
			continue
		}
		lit, ok := t.(term.Literal)
		if !ok {
			defects = append(defects, Defect{
				Row:      index,
				Location: row.Location,
				Variable: f.name,
				Message:  fmt.Sprintf("expected a literal, got %s %s", t.Kind(), t),
			})
			continue
		}
		*f.dst = &lit
	}
	return row, defects
}
