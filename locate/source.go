package locate

import "context"

// Source is a single location provider consulted by the searcher.
//
// ShouldSearch is a pure decision over the query and the candidates
// gathered from higher-priority sources; it performs no I/O. Search does
// the actual lookup and returns zero or more candidates. A source absorbs
// its own failures (storage errors, network errors) and reports them as
// an empty candidate list; it never fails the request.
type Source interface {
	Type() SourceType
	ShouldSearch(query *Query, gathered ResultList) bool
	Search(ctx context.Context, query *Query) ResultList
}
