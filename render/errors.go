package render

import (
	"errors"
	"fmt"
)

// ErrEmptyManifest is returned when a render reaches assembly with no usable
// video inputs.
var ErrEmptyManifest = errors.New("empty assembly manifest")

// Stage identifies which pipeline stage an error came from.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageAssemble Stage = "assemble"
	StageEncode   Stage = "encode"
	StagePublish  Stage = "publish"
	StageNotify   Stage = "notify"
)

// StageError classifies a pipeline failure by stage so the job record can
// surface where a render died.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
