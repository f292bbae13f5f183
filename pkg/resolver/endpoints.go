package resolver

// AllEndpoints returns every endpoint published by the process that
// provided result's selected Endpoint, in document order. The
// orchestrator's default Endpoint selection always picks the first
// entry; this helper is the layered-on-top full list for callers who
// need the rest, e.g. to pick a different transport profile or validity
// window. It never changes result's own classification or selection.
func AllEndpoints(result *Result) []Endpoint {
	return result.allEndpoints
}
