package feature

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb/geojson"
)

// NewCollection returns a FeatureCollection holding features in order.
// No bbox and no foreign members are set.
func NewCollection(features []*geojson.Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f)
	}
	return fc
}

// collectionDoc and featureDoc fix the output shape: absent geometry is
// written as null and empty properties as {}.
type collectionDoc struct {
	Type     string        `json:"type"`
	Features []*featureDoc `json:"features"`
}

type featureDoc struct {
	Type       string             `json:"type"`
	Geometry   *geojson.Geometry  `json:"geometry"`
	Properties geojson.Properties `json:"properties"`
}

// WriteOptions controls Write.
type WriteOptions struct {
	// Indent pretty-prints with two-space indentation when true.
	Indent bool
}

// Write encodes the collection as UTF-8 JSON followed by a newline.
// Property keys are sorted, so equal collections produce identical bytes.
func Write(w io.Writer, fc *geojson.FeatureCollection, opts WriteOptions) error {
	doc := collectionDoc{
		Type:     "FeatureCollection",
		Features: make([]*featureDoc, 0, len(fc.Features)),
	}
	for _, f := range fc.Features {
		fd := &featureDoc{
			Type:       "Feature",
			Properties: f.Properties,
		}
		if fd.Properties == nil {
			fd.Properties = geojson.Properties{}
		}
		if f.Geometry != nil {
			fd.Geometry = geojson.NewGeometry(f.Geometry)
		}
		doc.Features = append(doc.Features, fd)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write feature collection: %w", err)
	}
	return nil
}
