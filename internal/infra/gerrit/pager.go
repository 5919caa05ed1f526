package gerrit

import (
	"context"
	"fmt"

	"github.com/ahrav/gerrit-scout/internal/domain/discovery"
)

// maxPages is the defensive cap on page fetches per traversal. A healthy
// server terminates the listing via the more-projects flag long before this;
// hitting the cap is an error, never a silent truncation.
const maxPages = 1000

// ProjectAPI is the slice of the client the pager needs.
type ProjectAPI interface {
	ListProjects(ctx context.Context, skip, limit int) (*ProjectPage, error)
}

var _ discovery.ProjectStream = (*projectPager)(nil)

// projectPager walks the project listing one element at a time, fetching a
// new page whenever the current one is exhausted. The skip count of each
// fetch is the number of entries already received, and the server's
// more-projects flag is the sole continuation authority.
type projectPager struct {
	api      ProjectAPI
	pageSize int

	page    []discovery.RemoteProject
	pageIdx int
	fetched int
	pages   int
	more    bool

	current discovery.RemoteProject
	err     error
	done    bool
}

func newProjectPager(api ProjectAPI, pageSize int) *projectPager {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	// more starts true so the first page is always fetched.
	return &projectPager{api: api, pageSize: pageSize, more: true}
}

// Next advances the stream. A false return means exhaustion or failure;
// callers distinguish the two through Err.
func (p *projectPager) Next(ctx context.Context) bool {
	if p.done || p.err != nil {
		return false
	}

	// A page may legitimately be shorter than requested, or even empty,
	// while the server still reports more results. Keep fetching until an
	// element shows up or the continuation flag clears.
	for p.pageIdx >= len(p.page) {
		if !p.more {
			p.done = true
			return false
		}
		if p.pages >= maxPages {
			p.err = fmt.Errorf("%w: %d pages fetched without the server signaling completion", discovery.ErrPaginationLimit, p.pages)
			return false
		}

		page, err := p.api.ListProjects(ctx, p.fetched, p.pageSize)
		if err != nil {
			kind := discovery.ErrPageFetch
			if p.pages == 0 {
				// First contact with the server failed.
				kind = discovery.ErrConnection
			}
			p.err = fmt.Errorf("%w: page %d: %w", kind, p.pages+1, err)
			return false
		}

		p.pages++
		p.fetched += len(page.Projects)
		p.page = page.Projects
		p.pageIdx = 0
		p.more = page.MoreProjects
	}

	p.current = p.page[p.pageIdx]
	p.pageIdx++
	return true
}

// Project returns the element the last successful Next advanced to.
func (p *projectPager) Project() discovery.RemoteProject { return p.current }

// Err returns the stream's terminal error, nil on normal exhaustion.
func (p *projectPager) Err() error { return p.err }
