// Package vocab holds the UCO and RDF IRIs the location query depends on.
package vocab

// Namespaces used by the location query.
const (
	// RDFNamespace is the RDF syntax namespace.
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// XSDNamespace is the XML Schema datatypes namespace.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

	// CoreNamespace is the UCO core ontology namespace.
	CoreNamespace = "https://ontology.unifiedcyberontology.org/uco/core/"

	// LocationNamespace is the UCO location ontology namespace.
	LocationNamespace = "https://ontology.unifiedcyberontology.org/uco/location/"
)

// Prefixes used when rendering the location query.
const (
	PrefixCore     = "uco-core"
	PrefixLocation = "uco-location"
)

// RDFType is rdf:type, written "a" in graph patterns.
const RDFType = RDFNamespace + "type"

// XSDDecimal is the datatype coordinates are usually written with.
const XSDDecimal = XSDNamespace + "decimal"

// Class IRIs.
const (
	// ClassLocation is a place; every Location yields at least one feature.
	ClassLocation = LocationNamespace + "Location"

	// ClassLatLongCoordinatesFacet carries a latitude/longitude pair.
	ClassLatLongCoordinatesFacet = LocationNamespace + "LatLongCoordinatesFacet"

	// ClassSimpleAddressFacet carries postal address fields.
	ClassSimpleAddressFacet = LocationNamespace + "SimpleAddressFacet"
)

// Property IRIs.
const (
	// HasFacet links an object to one of its facets.
	HasFacet = CoreNamespace + "hasFacet"

	Latitude  = LocationNamespace + "latitude"
	Longitude = LocationNamespace + "longitude"

	AddressType = LocationNamespace + "addressType"
	Country     = LocationNamespace + "country"
	Locality    = LocationNamespace + "locality"
	PostalCode  = LocationNamespace + "postalCode"
	Region      = LocationNamespace + "region"
	Street      = LocationNamespace + "street"
)
