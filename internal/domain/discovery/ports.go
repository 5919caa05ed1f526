package discovery

import "context"

// ProjectStream is a lazy, single-pass iteration over the server's project
// listing. Implementations fetch pages transparently as the stream is
// consumed; a terminal failure surfaces through Err after Next returns false.
type ProjectStream interface {
	// Next advances to the next project, fetching a new page when the current
	// one is exhausted. It returns false at end of sequence or on error.
	Next(ctx context.Context) bool

	// Project returns the project Next advanced to. Only valid after a Next
	// call that returned true.
	Project() RemoteProject

	// Err returns the terminal error of the stream, or nil on normal
	// exhaustion. Projects yielded before the failure are not retracted.
	Err() error
}

// ProjectLister opens streams over a server's projects. Each call starts a
// fresh traversal from the first page; nothing is cached between streams.
type ProjectLister interface {
	Projects() ProjectStream
}

// CandidateFactory builds the CandidateSource for the project currently being
// submitted. Observers that reject a project can skip the construction cost
// by never invoking it.
type CandidateFactory func() *CandidateSource

// Observer is the caller-supplied collaborator that owns acceptance policy.
// It receives every discovered project in server order, exactly once, and
// reports whether the scan should stop early.
type Observer interface {
	Observe(ctx context.Context, projectName string, build CandidateFactory) (stop bool, err error)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, projectName string, build CandidateFactory) (bool, error)

// Observe implements Observer.
func (f ObserverFunc) Observe(ctx context.Context, projectName string, build CandidateFactory) (bool, error) {
	return f(ctx, projectName, build)
}
