// Package listing holds the page-accumulation flow behind an infinite-scroll
// catalog view. It is a library component for front-end consumers; the HTTP
// surface exposes the per-page proxy endpoint instead of this accumulator.
package listing

import (
	"context"
	"sync"

	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/logger"
	"github.com/o-complex/storefront-backend/pkg/pagination"
	"github.com/o-complex/storefront-backend/pkg/shop"
)

// PageFetcher loads one catalog page; satisfied by internal/catalog.Service.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (shop.ProductsPage, error)
	PageSize() int
}

// Feed accumulates catalog pages for an infinite-scroll style consumer.
// Page 1 replaces the accumulated products, later pages append. A failed
// first page is a terminal state cleared only by Retry; failed later pages
// are logged and the feed stays ready for the next trigger.
type Feed struct {
	fetcher PageFetcher
	logg    *logger.Logger

	mu          sync.Mutex
	products    []shop.Product
	currentPage int
	totalPages  int
	total       int
	loading     bool
	failed      bool
}

// State is a point-in-time view of the feed.
type State struct {
	Products    []shop.Product
	CurrentPage int
	TotalPages  int
	Total       int
	Loading     bool
	Failed      bool
}

// NewFeed builds an empty feed over the given fetcher.
func NewFeed(fetcher PageFetcher, logg *logger.Logger) (*Feed, error) {
	if fetcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "page fetcher required")
	}
	return &Feed{fetcher: fetcher, logg: logg}, nil
}

// LoadInitial fetches page 1, replacing anything accumulated so far. On
// failure the feed enters the terminal failed state and the error is
// returned; Retry is the only way out. When a load is already in flight the
// call returns nil immediately without fetching; the in-flight load's
// outcome lands in the feed state, not in this return value.
func (f *Feed) LoadInitial(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	f.mu.Unlock()

	page, err := f.fetcher.FetchPage(ctx, 1)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		f.failed = true
		f.products = nil
		f.currentPage = 0
		f.totalPages = 0
		f.total = 0
		return err
	}
	f.failed = false
	f.products = append([]shop.Product{}, page.Items...)
	f.currentPage = 1
	f.total = page.Total
	f.totalPages = pagination.TotalPages(page.Total, f.fetcher.PageSize())
	return nil
}

// SentinelVisible is the scroll trigger: it fetches the next page only when
// the feed is idle, healthy, and more pages remain. A failed fetch is logged
// and dropped; the next trigger will try the same page again.
func (f *Feed) SentinelVisible(ctx context.Context) {
	f.mu.Lock()
	if f.loading || f.failed || f.currentPage == 0 || f.currentPage >= f.totalPages {
		f.mu.Unlock()
		return
	}
	next := f.currentPage + 1
	f.loading = true
	f.mu.Unlock()

	page, err := f.fetcher.FetchPage(ctx, next)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		if f.logg != nil {
			f.logg.Error(f.logg.WithPage(ctx, next), "loading next catalog page failed", err)
		}
		return
	}
	f.products = append(f.products, page.Items...)
	f.currentPage = next
}

// Retry re-runs the initial load after a terminal first-page failure. It is
// a no-op unless the feed is in the failed state.
func (f *Feed) Retry(ctx context.Context) error {
	f.mu.Lock()
	failed := f.failed
	f.mu.Unlock()
	if !failed {
		return nil
	}
	return f.LoadInitial(ctx)
}

// Snapshot returns the current accumulated state.
func (f *Feed) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Products:    append([]shop.Product{}, f.products...),
		CurrentPage: f.currentPage,
		TotalPages:  f.totalPages,
		Total:       f.total,
		Loading:     f.loading,
		Failed:      f.failed,
	}
}
