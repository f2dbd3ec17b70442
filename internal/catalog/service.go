package catalog

import (
	"context"
	"time"

	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/format"
	"github.com/o-complex/storefront-backend/pkg/logger"
	"github.com/o-complex/storefront-backend/pkg/metrics"
	"github.com/o-complex/storefront-backend/pkg/pagination"
	"github.com/o-complex/storefront-backend/pkg/shop"
)

// GenericOrderError is the user-facing message synthesized when the order
// call fails in transport before the upstream can answer.
const GenericOrderError = "Не удалось отправить заказ. Пожалуйста, попробуйте позже."

const (
	opProducts = "products"
	opReviews  = "reviews"
	opOrder    = "order"
)

// ShopAPI is the upstream surface the catalog consumes; satisfied by
// pkg/shop.Client.
type ShopAPI interface {
	Products(ctx context.Context, page, pageSize int) (*shop.ProductsPage, error)
	Reviews(ctx context.Context) ([]shop.Review, error)
	SubmitOrder(ctx context.Context, order shop.OrderRequest) (*shop.OrderResponse, error)
}

// Service fronts the remote commerce API and normalizes its failures: callers
// always receive a usable value. The error is still returned alongside so the
// listing flow can tell a failed fetch from an empty catalog; callers that do
// not care may ignore it.
type Service struct {
	api      ShopAPI
	pageSize int
	logg     *logger.Logger
	metrics  *metrics.UpstreamMetrics
}

// NewService builds a catalog service over the given upstream client.
func NewService(api ShopAPI, pageSize int, logg *logger.Logger, m *metrics.UpstreamMetrics) (*Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shop api required")
	}
	return &Service{
		api:      api,
		pageSize: pagination.NormalizePageSize(pageSize),
		logg:     logg,
		metrics:  m,
	}, nil
}

// PageSize returns the catalog page size the service requests upstream.
func (s *Service) PageSize() int {
	return s.pageSize
}

// FetchPage fetches one catalog page at the configured page size. On failure
// the returned page is zero-filled with the requested page number echoed.
func (s *Service) FetchPage(ctx context.Context, page int) (shop.ProductsPage, error) {
	return s.FetchPageSized(ctx, page, s.pageSize)
}

// FetchPageSized is FetchPage with an explicit page size, for callers that
// pass the size through from a query parameter.
func (s *Service) FetchPageSized(ctx context.Context, page, pageSize int) (shop.ProductsPage, error) {
	page = pagination.NormalizePage(page)
	pageSize = pagination.NormalizePageSize(pageSize)

	start := time.Now()
	result, err := s.api.Products(ctx, page, pageSize)
	s.observe(opProducts, start, err)

	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithPage(ctx, page), "fetching products failed", err)
		}
		return shop.ProductsPage{Page: page, Items: []shop.Product{}}, err
	}
	if result.Items == nil {
		result.Items = []shop.Product{}
	}
	return *result, nil
}

// FetchReviews fetches all reviews with their bodies sanitized. On failure it
// returns an empty slice.
func (s *Service) FetchReviews(ctx context.Context) ([]shop.Review, error) {
	start := time.Now()
	reviews, err := s.api.Reviews(ctx)
	s.observe(opReviews, start, err)

	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "fetching reviews failed", err)
		}
		return []shop.Review{}, err
	}

	sanitized := make([]shop.Review, 0, len(reviews))
	for _, review := range reviews {
		review.Text = format.SanitizeHTML(review.Text)
		sanitized = append(sanitized, review)
	}
	return sanitized, nil
}

// PlaceOrder submits an order. Transport failures never propagate; they are
// logged and collapsed into an explicit-failure response with a generic
// message, so the caller always gets an upstream-shaped verdict.
func (s *Service) PlaceOrder(ctx context.Context, order shop.OrderRequest) shop.OrderResponse {
	resp, _ := s.ProxyOrder(ctx, order)
	return resp
}

// ProxyOrder is PlaceOrder with the transport failure surfaced alongside the
// synthesized verdict, for the wire-compatible proxy endpoint that maps
// transport failures to a 500.
func (s *Service) ProxyOrder(ctx context.Context, order shop.OrderRequest) (shop.OrderResponse, error) {
	start := time.Now()
	resp, err := s.api.SubmitOrder(ctx, order)
	s.observe(opOrder, start, err)

	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "submitting order failed", err)
		}
		return shop.OrderResponse{Success: 0, Error: GenericOrderError}, err
	}
	return *resp, nil
}

func (s *Service) observe(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(operation, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(operation)
		return
	}
	s.metrics.IncSuccess(operation)
}
