package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/roach88/case2geojson/internal/config"
	"github.com/roach88/case2geojson/internal/expand"
	"github.com/roach88/case2geojson/internal/extract"
	"github.com/roach88/case2geojson/internal/feature"
	"github.com/roach88/case2geojson/internal/location"
	"github.com/roach88/case2geojson/internal/metrics"
	"github.com/roach88/case2geojson/internal/store"
)

// Engine converts CASE documents with a fixed configuration.
//
// Thread-safety: Convert may be called from several goroutines; every call
// opens its own store.
type Engine struct {
	cfg config.Config

	statementPolicy  extract.Policy
	coordinatePolicy feature.CoordinatePolicy
	firstRowOnly     bool

	logger  *slog.Logger
	ids     RunIDGenerator
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRunIDGenerator replaces the UUIDv7 run ID generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithMetrics records every run in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an Engine. Returns an error if a policy name is unknown.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	if cfg.BaseIRI == "" {
		cfg.BaseIRI = config.DefaultBaseIRI
	}

	stmt, err := extract.ParsePolicy(orDefault(cfg.Policy.InvalidStatement, config.StatementFail))
	if err != nil {
		return nil, fmt.Errorf("policy.invalid_statement: %w", err)
	}
	coord, err := feature.ParseCoordinatePolicy(orDefault(cfg.Policy.InvalidCoordinate, config.CoordinateDropGeometry))
	if err != nil {
		return nil, fmt.Errorf("policy.invalid_coordinate: %w", err)
	}

	var first bool
	switch rows := orDefault(cfg.Policy.FacetRows, config.FacetRowsAll); rows {
	case config.FacetRowsAll:
	case config.FacetRowsFirst:
		first = true
	default:
		return nil, fmt.Errorf("policy.facet_rows: unknown value %q (want %q or %q)", rows, config.FacetRowsAll, config.FacetRowsFirst)
	}

	e := &Engine{
		cfg:              cfg,
		statementPolicy:  stmt,
		coordinatePolicy: coord,
		firstRowOnly:     first,
		logger:           slog.New(slog.DiscardHandler),
		ids:              UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Config returns the engine's configuration.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Result is the outcome of a successful run.
type Result struct {
	RunID      string
	Collection *geojson.FeatureCollection
	Defects    []Defect
	Stats      Stats
}

// Stats summarises one run.
type Stats struct {
	Extract    extract.Stats `json:"extract"`
	Quads      int           `json:"quads"`
	Rows       int           `json:"rows"`
	Features   int           `json:"features"`
	Geometries int           `json:"geometries"`
}

// ConvertFile opens path and converts it.
func (e *Engine) ConvertFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, stageError(StageInput, err)
	}
	defer f.Close()
	return e.Convert(ctx, f)
}

// Convert runs the full pipeline over one document.
func (e *Engine) Convert(ctx context.Context, r io.Reader) (res *Result, err error) {
	start := time.Now()
	runID := e.ids.Generate()
	log := e.logger.With("run_id", runID)

	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
			log.Debug("conversion failed", "stage", StageOf(err), "error", err)
		}
		e.metrics.RunFinished(outcome, time.Since(start))
	}()

	doc, err := expand.Parse(r)
	if err != nil {
		return nil, stageError(StageInput, err)
	}

	stmts, err := expand.Expand(ctx, doc, expand.Options{BaseIRI: e.cfg.BaseIRI})
	if err != nil {
		return nil, stageError(StageExpansion, err)
	}
	e.metrics.AddStatements(len(stmts))
	log.Debug("expanded document", "stage", StageExpansion, "statements", len(stmts))

	s, err := store.OpenMemory()
	if err != nil {
		return nil, stageError(StageGraph, err)
	}
	defer s.Close()

	ex := extract.New(s,
		extract.WithPolicy(e.statementPolicy),
		extract.WithSkolemBase(e.cfg.BaseIRI),
		extract.WithLogger(log),
	)
	exStats, err := ex.Extract(ctx, stmts)
	if err != nil {
		return nil, stageError(StageGraph, err)
	}
	e.metrics.AddQuads(exStats.Inserted)

	quads, err := s.Count(ctx)
	if err != nil {
		return nil, stageError(StageGraph, err)
	}
	log.Debug("built graph", "stage", StageGraph, "quads", quads, "skipped", exStats.Skipped)

	rows, rowDefects, err := location.Rows(ctx, s)
	if err != nil {
		return nil, stageError(StageQuery, err)
	}

	res = &Result{
		RunID: runID,
		Stats: Stats{Extract: exStats, Quads: quads, Rows: len(rows)},
	}
	for _, d := range rowDefects {
		res.addDefect(e, fromRowDefect(d))
	}

	if e.firstRowOnly {
		var dropped []Defect
		rows, dropped = firstRowPerLocation(rows)
		for _, d := range dropped {
			res.addDefect(e, d)
		}
	}

	b := feature.NewBuilder(
		feature.WithCoordinatePolicy(e.coordinatePolicy),
		feature.WithAddressType(true),
	)
	features := make([]*geojson.Feature, 0, len(rows))
	for _, row := range rows {
		f, defects, err := b.Build(row)
		if err != nil {
			return nil, stageError(StageDecode, err)
		}
		for _, d := range defects {
			res.addDefect(e, fromFeatureDefect(d))
		}
		if f.Geometry != nil {
			res.Stats.Geometries++
		}
		features = append(features, f)
	}

	res.Collection = feature.NewCollection(features)
	res.Stats.Features = len(features)
	e.metrics.AddFeatures(res.Stats.Features, res.Stats.Geometries)

	for _, d := range res.Defects {
		log.Warn("defect", "kind", d.Kind, "row", d.Row, "location", d.Location, "message", d.Message)
	}
	log.Info("conversion finished",
		"quads", quads,
		"features", res.Stats.Features,
		"defects", len(res.Defects),
	)
	return res, nil
}

func (r *Result) addDefect(e *Engine, d Defect) {
	r.Defects = append(r.Defects, d)
	e.metrics.AddDefect(string(d.Kind))
}

// Write encodes the result's collection to w using the output config.
func (e *Engine) Write(w io.Writer, res *Result) error {
	return feature.Write(w, res.Collection, feature.WriteOptions{Indent: e.cfg.Output.Indent})
}

// firstRowPerLocation keeps the first row of every location in solution
// order and reports the rest.
func firstRowPerLocation(rows []location.Row) ([]location.Row, []Defect) {
	seen := make(map[string]bool, len(rows))
	kept := rows[:0:0]
	var dropped []Defect
	for _, row := range rows {
		id := row.LocationID()
		if seen[id] {
			dropped = append(dropped, Defect{
				Kind:     DefectDuplicateLocation,
				Row:      row.Index,
				Location: id,
				Message:  "additional facet combination dropped by facet_rows=first",
			})
			continue
		}
		seen[id] = true
		kept = append(kept, row)
	}
	return kept, dropped
}
