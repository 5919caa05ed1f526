// Package gerrit implements the REST client and project pager for a Gerrit
// code-review server. It is the network-facing collaborator of the discovery
// core: TLS handling, authentication, retries and rate limiting all live
// here, while pagination policy stays observable through the ProjectStream
// port.
package gerrit

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ahrav/gerrit-scout/internal/domain/discovery"
	"github.com/ahrav/gerrit-scout/pkg/common"
)

// Gerrit prefixes every JSON response with this line to defeat XSSI. It must
// be stripped before decoding.
const xssiPrefix = ")]}'"

// projectsPath is the project-listing endpoint under the REST base.
const projectsPath = "/projects/"

var _ discovery.ProjectLister = (*Client)(nil)

// Client is a REST client bound to one Gerrit server. It is built once per
// scan from that scan's ConnectionSettings and never shared.
type Client struct {
	httpClient *http.Client
	apiBase    url.URL
	credential *discovery.Credential
	limiter    *common.RateLimiter
	tracer     trace.Tracer
	pageSize   int
}

// Option configures a Client.
type Option func(*Client)

// WithPageSize overrides the listing page size. Values below 1 are ignored.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithTracer sets the tracer used for per-request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) { c.tracer = tracer }
}

const (
	defaultPageSize = 100
	defaultRPS      = 10
	defaultBurst    = 5
)

// NewClient builds a client from the scan's connection settings. When the
// settings carry a credential, requests target the authenticated REST base
// and send basic auth; otherwise the anonymous base is used.
func NewClient(settings discovery.ConnectionSettings, opts ...Option) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if settings.InsecureHTTPS() {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	apiBase := settings.Endpoint().APIURI()
	if settings.Credential() != nil {
		apiBase = settings.Endpoint().AuthenticatedAPIURI()
	}

	c := Client{
		httpClient: &http.Client{Transport: newRetryTransport(transport)},
		apiBase:    apiBase,
		credential: settings.Credential(),
		limiter:    common.NewRateLimiter(defaultRPS, defaultBurst),
		tracer:     noop.NewTracerProvider().Tracer(""),
		pageSize:   defaultPageSize,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Projects opens a fresh stream over the server's projects, starting from the
// first page. Each call re-fetches everything; nothing is cached.
func (c *Client) Projects() discovery.ProjectStream {
	return newProjectPager(c, c.pageSize)
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// ProjectPage is one page of the project listing in server order.
type ProjectPage struct {
	Projects []discovery.RemoteProject

	// MoreProjects reports whether the server indicated further pages. It is
	// the sole continuation authority; a short page means nothing by itself.
	MoreProjects bool
}

// projectInfo mirrors the per-project metadata of Gerrit's ListProjects
// response. The _more_projects flag rides on the last entry of a page.
type projectInfo struct {
	ID           string `json:"id"`
	State        string `json:"state"`
	Description  string `json:"description"`
	MoreProjects bool   `json:"_more_projects"`
}

// ListProjects fetches one page of the listing, skipping the first skip
// entries and requesting at most limit results.
func (c *Client) ListProjects(ctx context.Context, skip, limit int) (*ProjectPage, error) {
	ctx, span := c.tracer.Start(ctx, "gerrit.list_projects",
		trace.WithAttributes(
			attribute.Int("skip", skip),
			attribute.Int("limit", limit),
		))
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	listURL := c.apiBase
	listURL.Path += projectsPath

	q := url.Values{}
	q.Set("n", strconv.Itoa(limit))
	q.Set("S", strconv.Itoa(skip))
	q.Set("type", "CODE")
	q.Set("d", "")
	listURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL.String(), nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("creating list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.credential != nil {
		req.SetBasicAuth(c.credential.Username(), c.credential.Secret())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("project listing request: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		err := fmt.Errorf("non-200 response from %s: %d %s", listURL.Redacted(), resp.StatusCode, string(data))
		span.RecordError(err)
		return nil, err
	}

	page, err := decodeProjectPage(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("decoding project listing: %w", err)
	}

	span.SetAttributes(
		attribute.Int("projects", len(page.Projects)),
		attribute.Bool("more_projects", page.MoreProjects),
	)
	return page, nil
}

// decodeProjectPage strips the XSSI guard and decodes the name-to-metadata
// object token by token. Streaming the tokens keeps the server's listing
// order, which a plain map unmarshal would destroy.
func decodeProjectPage(r io.Reader) (*ProjectPage, error) {
	br := bufio.NewReader(r)

	guard, err := br.Peek(len(xssiPrefix))
	if err == nil && string(guard) == xssiPrefix {
		if _, err := br.ReadString('\n'); err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading xssi guard line: %w", err)
		}
	}

	dec := json.NewDecoder(br)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading object start: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var page ProjectPage
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading project name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected project name string, got %v", keyTok)
		}

		var info projectInfo
		if err := dec.Decode(&info); err != nil {
			return nil, fmt.Errorf("decoding project %q: %w", name, err)
		}

		page.Projects = append(page.Projects, discovery.RemoteProject{
			Name:        name,
			ID:          info.ID,
			State:       info.State,
			Description: info.Description,
		})
		if info.MoreProjects {
			page.MoreProjects = true
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading object end: %w", err)
	}
	return &page, nil
}
