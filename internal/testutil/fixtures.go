// Package testutil provides CASE documents and helpers shared by tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Context is the @context shared by the fixture documents.
const Context = `{
        "@vocab": "http://example.org/local#",
        "kb": "http://example.org/kb/",
        "acme": "http://custompb.acme.org/core#",
        "uco-core": "https://ontology.unifiedcyberontology.org/uco/core/",
        "uco-location": "https://ontology.unifiedcyberontology.org/uco/location/",
        "xsd": "http://www.w3.org/2001/XMLSchema#"
    }`

// Location IRIs used by the fixtures.
const (
	SeattleLocation = "http://example.org/kb/location-4511219e-a924-4ba5-aee7-dfad5a2c9c05"
	ParisLocation   = "http://example.org/kb/location-b579264d-6e30-4055-bf9b-72390364f224"
	EmptyLocation   = "http://example.org/kb/location-c0ffee00-0000-4000-8000-000000000000"
)

// seattle is a location with an address facet and an unrelated custom facet.
const seattle = `{
            "@id": "kb:location-4511219e-a924-4ba5-aee7-dfad5a2c9c05",
            "@type": "uco-location:Location",
            "uco-core:hasFacet": [
                {
                    "@id": "kb:simple-address-facet-59334948-00b9-4370-85b0-4dc8e07f5384",
                    "@type": "uco-location:SimpleAddressFacet",
                    "uco-location:locality": "Seattle",
                    "uco-location:region": "WA",
                    "uco-location:postalCode": "98052",
                    "uco-location:street": "20341 Whitworth Institute 405 N. Whitworth"
                },
                {
                    "@id": "kb:acme-internal-location-facet-41fb3158-bbab-404d-97e4-ac61debb71f3",
                    "@type": [
                        "acme:InternalLocationFacet",
                        "uco-core:Facet"
                    ],
                    "acme:floor": 3,
                    "acme:roomNumber": 345
                }
            ]
        }`

// paris is a location with both an address and a coordinate facet.
const paris = `{
            "@id": "kb:location-b579264d-6e30-4055-bf9b-72390364f224",
            "@type": "uco-location:Location",
            "uco-core:hasFacet": [
                {
                    "@id": "kb:simple-address-facet-258f169e-1e9c-4936-ba65-eed0f0c60788",
                    "@type": "uco-location:SimpleAddressFacet",
                    "uco-location:locality": "Paris",
                    "uco-location:country": "France",
                    "uco-location:postalCode": "F-75002",
                    "uco-location:street": "38 Bad Guy Headquarters st."
                },
                {
                    "@id": "kb:lat-long-coordinates-facet-36126f9c-0273-48fe-ad4d-6a4e2848458f",
                    "@type": "uco-location:LatLongCoordinatesFacet",
                    "uco-location:latitude": {
                        "@type": "xsd:decimal",
                        "@value": "48.860346"
                    },
                    "uco-location:longitude": {
                        "@type": "xsd:decimal",
                        "@value": "2.331199"
                    }
                }
            ]
        }`

// empty is a location with no facets.
const empty = `{
            "@id": "kb:location-c0ffee00-0000-4000-8000-000000000000",
            "@type": "uco-location:Location"
        }`

// Graph wraps nodes in a document with the shared context.
func Graph(nodes ...string) string {
	out := "{\n    \"@context\": " + Context + ",\n    \"@graph\": ["
	for i, n := range nodes {
		if i > 0 {
			out += ","
		}
		out += "\n        " + n
	}
	return out + "\n    ]\n}\n"
}

var (
	// ScenarioA has one location with an address and no coordinates.
	ScenarioA = Graph(seattle)

	// ScenarioB has one location with an address and coordinates.
	ScenarioB = Graph(paris)

	// ScenarioC has one location with no facets.
	ScenarioC = Graph(empty)

	// ScenarioD has no locations at all.
	ScenarioD = Graph(`{
            "@id": "kb:person-1",
            "@type": "uco-core:UcoObject",
            "uco-core:name": "Not a place"
        }`)

	// Combined holds the Seattle and Paris locations together.
	Combined = Graph(seattle, paris)

	// BlankLocation is a location without an @id, so its subject is a blank node.
	BlankLocation = Graph(`{
            "@type": "uco-location:Location",
            "uco-core:hasFacet": {
                "@type": "uco-location:SimpleAddressFacet",
                "uco-location:locality": "Anywhere"
            }
        }`)

	// BadCoordinate has a latitude that is not a number.
	BadCoordinate = Graph(`{
            "@id": "kb:location-bad",
            "@type": "uco-location:Location",
            "uco-core:hasFacet": {
                "@id": "kb:lat-long-bad",
                "@type": "uco-location:LatLongCoordinatesFacet",
                "uco-location:latitude": "forty-eight",
                "uco-location:longitude": {"@type": "xsd:decimal", "@value": "2.331199"}
            }
        }`, paris)

	// TwoAddresses has one location with two address facets.
	TwoAddresses = Graph(`{
            "@id": "kb:location-two",
            "@type": "uco-location:Location",
            "uco-core:hasFacet": [
                {
                    "@id": "kb:address-two-a",
                    "@type": "uco-location:SimpleAddressFacet",
                    "uco-location:locality": "First"
                },
                {
                    "@id": "kb:address-two-b",
                    "@type": "uco-location:SimpleAddressFacet",
                    "uco-location:locality": "Second"
                }
            ]
        }`)

	// NamedGraph puts a location in a named graph only.
	NamedGraph = `{
    "@context": ` + Context + `,
    "@id": "kb:graph-1",
    "@graph": [` + paris + `]
}
`

	// RemoteContext references a context that must be fetched.
	RemoteContext = `{
    "@context": "https://example.org/remote-context.jsonld",
    "@id": "kb:x",
    "@type": "uco-location:Location"
}
`

	// NotJSON is not a JSON document.
	NotJSON = `{"@context": {`
)

// WriteFile writes content to name inside a fresh temp directory and
// returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
