// Package discovery implements the scan orchestration service. It owns the
// end-to-end traversal: build the API client, open a scoped session, stream
// remote projects, convert each into a candidate source, submit it to the
// observer, and poll for cancellation between submissions.
package discovery

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ahrav/gerrit-scout/internal/domain/discovery"
)

// ListerFactory builds the project lister for one scan from that scan's
// connection settings. Listers that also implement Close are closed with the
// session.
type ListerFactory func(settings discovery.ConnectionSettings) (discovery.ProjectLister, error)

// Orchestrator runs scans. It is stateless across scans; concurrent scans
// share nothing but the factory and the tracer.
type Orchestrator struct {
	newLister ListerFactory
	tracer    trace.Tracer
}

// NewOrchestrator creates an Orchestrator using the given lister factory. A
// nil tracer disables tracing.
func NewOrchestrator(newLister ListerFactory, tracer trace.Tracer) *Orchestrator {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Orchestrator{newLister: newLister, tracer: tracer}
}

// Discover scans the server described by settings and submits every hosted
// project to the observer, in server order, exactly once. Traits are passed
// through to candidates unmodified.
//
// It returns nil on normal exhaustion or observer-requested stop,
// discovery.ErrCancelled when ctx is cancelled between submissions,
// discovery.ErrConnection when the client cannot be built or first contact
// fails, and the stream's terminal error otherwise. The scan's session is
// closed on every one of those paths before Discover returns.
func (o *Orchestrator) Discover(
	ctx context.Context,
	settings discovery.ConnectionSettings,
	traits []discovery.TraitConfig,
	observer discovery.Observer,
) error {
	log := settings.Logger()

	ctx, span := o.tracer.Start(ctx, "discovery.scan",
		trace.WithAttributes(attribute.String("server_url", settings.Endpoint().Raw())))
	defer span.End()

	lister, err := o.newLister(settings)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: building client: %w", discovery.ErrConnection, err)
	}

	session := discovery.NewSession(settings.ScanIdentity(), closerFor(lister))
	defer session.Close()

	log.Info(ctx, "starting project discovery",
		"session_id", session.ID(),
		"server_url", settings.Endpoint().String(),
	)

	endpoint := settings.Endpoint()
	submitted := 0

	stream := lister.Projects()
	for stream.Next(ctx) {
		project := stream.Project()

		build := func() *discovery.CandidateSource {
			return discovery.NewCandidateSource(
				session.ScanID(),
				project.Name,
				endpoint,
				settings.InsecureHTTPS(),
				settings.CredentialsRef(),
				traits,
			)
		}

		stop, err := observer.Observe(ctx, project.Name, build)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("submitting candidate %q: %w", project.Name, err)
		}
		submitted++

		if stop {
			log.Info(ctx, "observer requested early stop",
				"session_id", session.ID(),
				"projects_submitted", submitted,
			)
			return nil
		}

		// Cancellation is cooperative: polled once per submission, so an
		// in-flight page fetch always completes first.
		if err := ctx.Err(); err != nil {
			log.Info(ctx, "discovery cancelled",
				"session_id", session.ID(),
				"projects_submitted", submitted,
			)
			return fmt.Errorf("%w: %w", discovery.ErrCancelled, err)
		}
	}

	if err := stream.Err(); err != nil {
		span.RecordError(err)
		log.Error(ctx, "discovery failed",
			"session_id", session.ID(),
			"projects_submitted", submitted,
			"error", err,
		)
		return err
	}

	log.Info(ctx, "project discovery complete",
		"session_id", session.ID(),
		"projects_submitted", submitted,
	)
	return nil
}

// IsCancelled reports whether err represents a cooperative abort rather than
// a failure.
func IsCancelled(err error) bool {
	return errors.Is(err, discovery.ErrCancelled)
}

func closerFor(lister discovery.ProjectLister) func() {
	type closer interface{ Close() }
	if c, ok := lister.(closer); ok {
		return c.Close
	}
	return nil
}
