package resolver

import "fmt"

// Stage names the pipeline stage a ResolutionError occurred in.
type Stage string

const (
	StageDNS  Stage = "dns"
	StageHTTP Stage = "http"
	StageXML  Stage = "xml"
)

// ResolutionError carries the pipeline stage a terminal failure occurred
// in, distinct from Result.Error, which is the short string surfaced to
// callers that never see this type.
type ResolutionError struct {
	Stage Stage
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
