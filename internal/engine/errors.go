package engine

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step that failed.
type Stage string

const (
	// StageInput: the document could not be read or is not JSON.
	StageInput Stage = "input"

	// StageExpansion: JSON-LD processing failed.
	StageExpansion Stage = "expansion"

	// StageGraph: a statement could not be stored.
	StageGraph Stage = "graph"

	// StageQuery: the location pattern could not be evaluated.
	StageQuery Stage = "query"

	// StageDecode: a coordinate failed to decode under the fail policy.
	StageDecode Stage = "decode"
)

// Error is a fatal conversion error.
type Error struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, err error) error {
	return &Error{Stage: stage, Err: err}
}

// IsStage reports whether err is an *Error from the given stage.
// Uses errors.As to handle wrapped errors.
func IsStage(err error, stage Stage) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage == stage
	}
	return false
}

// StageOf returns the failed stage, or "" if err is not an *Error.
func StageOf(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}
