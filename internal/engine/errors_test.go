package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Wrapping(t *testing.T) {
	inner := errors.New("boom")
	err := fmt.Errorf("convert: %w", stageError(StageQuery, inner))

	assert.True(t, IsStage(err, StageQuery))
	assert.False(t, IsStage(err, StageGraph))
	assert.Equal(t, StageQuery, StageOf(err))
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "convert: query error: boom", err.Error())

	assert.Equal(t, Stage(""), StageOf(inner))
	assert.False(t, IsStage(nil, StageInput))
}

func TestDefect_String(t *testing.T) {
	d := Defect{Kind: DefectInvalidCoordinate, Row: 2, Location: "http://x/l", Field: "lLatitude", Value: "abc", Message: "not a number"}
	assert.Equal(t, `invalid-coordinate: row 2 (http://x/l): ?lLatitude="abc": not a number`, d.String())
}
