package discovery

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/gerrit-scout/internal/domain/discovery"
)

type fakeStream struct {
	projects    []discovery.RemoteProject
	terminalErr error

	idx       int
	current   discovery.RemoteProject
	nextCalls int
}

func (s *fakeStream) Next(ctx context.Context) bool {
	s.nextCalls++
	if s.idx >= len(s.projects) {
		return false
	}
	s.current = s.projects[s.idx]
	s.idx++
	return true
}

func (s *fakeStream) Project() discovery.RemoteProject { return s.current }

func (s *fakeStream) Err() error { return s.terminalErr }

type fakeLister struct {
	stream *fakeStream
	closed int
}

func (l *fakeLister) Projects() discovery.ProjectStream { return l.stream }

func (l *fakeLister) Close() { l.closed++ }

func streamOf(names ...string) *fakeStream {
	s := &fakeStream{}
	for _, name := range names {
		s.projects = append(s.projects, discovery.RemoteProject{Name: name})
	}
	return s
}

func testSettings(t *testing.T) discovery.ConnectionSettings {
	t.Helper()
	endpoint, err := discovery.ResolveEndpoint("https://example.org/gerrit")
	require.NoError(t, err)
	return discovery.NewConnectionSettings(endpoint, false, nil, "bot", nil)
}

func orchestratorFor(lister *fakeLister) *Orchestrator {
	return NewOrchestrator(func(discovery.ConnectionSettings) (discovery.ProjectLister, error) {
		return lister, nil
	}, nil)
}

// collectingObserver records submissions in order and can request a stop
// after a fixed number of projects.
type collectingObserver struct {
	observed  []string
	stopAfter int
	onObserve func(k int)
}

func (o *collectingObserver) Observe(ctx context.Context, projectName string, build discovery.CandidateFactory) (bool, error) {
	o.observed = append(o.observed, projectName)
	if o.onObserve != nil {
		o.onObserve(len(o.observed))
	}
	return o.stopAfter > 0 && len(o.observed) >= o.stopAfter, nil
}

func TestOrchestrator_SubmitsAllProjectsInOrder(t *testing.T) {
	lister := &fakeLister{stream: streamOf("a", "b", "c")}
	observer := &collectingObserver{}

	err := orchestratorFor(lister).Discover(context.Background(), testSettings(t), nil, observer)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, observer.observed)
	assert.Equal(t, 1, lister.closed)
}

func TestOrchestrator_ObserverStopEndsScanEarly(t *testing.T) {
	lister := &fakeLister{stream: streamOf("a", "b", "c", "d")}
	observer := &collectingObserver{stopAfter: 2}

	err := orchestratorFor(lister).Discover(context.Background(), testSettings(t), nil, observer)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, observer.observed)
	// Nothing past the stopping project was pulled from the stream.
	assert.Equal(t, 2, lister.stream.nextCalls)
	assert.Equal(t, 1, lister.closed)
}

func TestOrchestrator_CancellationBetweenSubmissions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lister := &fakeLister{stream: streamOf("a", "b", "c")}
	observer := &collectingObserver{onObserve: func(k int) {
		if k == 1 {
			cancel()
		}
	}}

	err := orchestratorFor(lister).Discover(ctx, testSettings(t), nil, observer)
	require.ErrorIs(t, err, discovery.ErrCancelled)
	assert.True(t, IsCancelled(err))

	// Cancellation was signaled right after the first submission, so exactly
	// one candidate was observed.
	assert.Equal(t, []string{"a"}, observer.observed)
	assert.Equal(t, 1, lister.closed)
}

func TestOrchestrator_StreamFailurePropagates(t *testing.T) {
	stream := streamOf("a", "b")
	stream.terminalErr = fmt.Errorf("%w: page 2: boom", discovery.ErrPageFetch)
	lister := &fakeLister{stream: stream}
	observer := &collectingObserver{}

	err := orchestratorFor(lister).Discover(context.Background(), testSettings(t), nil, observer)
	require.ErrorIs(t, err, discovery.ErrPageFetch)

	// Projects submitted before the failure stay observed.
	assert.Equal(t, []string{"a", "b"}, observer.observed)
	assert.Equal(t, 1, lister.closed)
}

func TestOrchestrator_ListerFactoryFailureIsConnectionError(t *testing.T) {
	orch := NewOrchestrator(func(discovery.ConnectionSettings) (discovery.ProjectLister, error) {
		return nil, errors.New("no route to host")
	}, nil)

	err := orch.Discover(context.Background(), testSettings(t), nil, &collectingObserver{})
	require.ErrorIs(t, err, discovery.ErrConnection)
}

func TestOrchestrator_ObserverErrorPropagates(t *testing.T) {
	lister := &fakeLister{stream: streamOf("a")}
	boom := errors.New("observer exploded")

	observer := discovery.ObserverFunc(func(context.Context, string, discovery.CandidateFactory) (bool, error) {
		return false, boom
	})

	err := orchestratorFor(lister).Discover(context.Background(), testSettings(t), nil, observer)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, lister.closed)
}

func TestOrchestrator_CandidatesCarryScanContext(t *testing.T) {
	lister := &fakeLister{stream: streamOf("tools/build")}
	traits := []discovery.TraitConfig{{Name: "branch-filter"}}

	var candidate *discovery.CandidateSource
	observer := discovery.ObserverFunc(func(ctx context.Context, name string, build discovery.CandidateFactory) (bool, error) {
		candidate = build()
		return false, nil
	})

	settings := testSettings(t)
	err := orchestratorFor(lister).Discover(context.Background(), settings, traits, observer)
	require.NoError(t, err)

	require.NotNil(t, candidate)
	assert.Equal(t, settings.ScanIdentity()+"::tools/build", candidate.SourceID())
	assert.Equal(t, settings.Endpoint(), candidate.Endpoint())
	assert.Equal(t, "bot", candidate.CredentialsRef())
	assert.Equal(t, traits, candidate.Traits())
}
