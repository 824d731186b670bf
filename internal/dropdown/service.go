package dropdown

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog"

	"github.com/vasamilk/admin-console/internal/milkapi"
	"github.com/vasamilk/admin-console/models"
)

const DefaultTTL = 60 * time.Second

// Fetcher is the part of the backend client the service needs.
type Fetcher interface {
	Dropdown(ctx context.Context, token, path string, form *milkapi.Form) ([]map[string]any, error)
}

// Source describes one backend drop-down and how its items become options.
type Source struct {
	Name     string
	Path     string
	LabelKey string
	ValueKey string
}

var (
	Slots        = Source{Name: "slots", Path: milkapi.PathSlotDropDown, LabelKey: "name", ValueKey: "id"}
	Lines        = Source{Name: "lines", Path: milkapi.PathLinesDropDown, LabelKey: "line_name", ValueKey: "id"}
	PriceTags    = Source{Name: "price-tags", Path: milkapi.PathPriceTagDropDown, LabelKey: "price_tag_name", ValueKey: "price_tag_value"}
	Customers    = Source{Name: "customers", Path: milkapi.PathCustomerDropDown, LabelKey: "name", ValueKey: "user_id"}
	Distributors = Source{Name: "distributors", Path: milkapi.PathDistributorDropDown, LabelKey: "name", ValueKey: "id"}
	Vendors      = Source{Name: "vendors", Path: milkapi.PathVendorDropDown, LabelKey: "name", ValueKey: "id"}
	AssignRoutes = Source{Name: "assign-routes", Path: milkapi.PathAssignRouteDropDown, LabelKey: "name", ValueKey: "id"}
)

var sources = map[string]Source{}

func init() {
	for _, s := range []Source{Slots, Lines, PriceTags, Customers, Distributors, Vendors, AssignRoutes} {
		sources[s.Name] = s
	}
}

// Lookup finds a backend source by name.
func Lookup(name string) (Source, bool) {
	s, ok := sources[name]
	return s, ok
}

var ErrUnknownDropdown = errors.New("unknown dropdown")

// Service loads drop-down data, caching each answer per endpoint, parameters and
// token for the configured TTL. Failed loads are never cached.
type Service struct {
	api   Fetcher
	cache *ttlcache.Cache[string, []map[string]any]
}

func NewService(api Fetcher, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []map[string]any](ttl),
		ttlcache.WithDisableTouchOnHit[string, []map[string]any](),
	)
	go cache.Start()

	return &Service{api: api, cache: cache}
}

// Close stops the cache cleanup goroutine.
func (s *Service) Close() {
	s.cache.Stop()
}

func cacheKey(path string, params map[string]string, token string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(path)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%s", k, params[k])
	}
	b.WriteString("|token=")
	b.WriteString(token)
	return b.String()
}

// Items returns the raw items of src.
func (s *Service) Items(ctx context.Context, token string, src Source, params map[string]string) ([]map[string]any, error) {
	key := cacheKey(src.Path, params, token)
	if item := s.cache.Get(key); item != nil {
		return item.Value(), nil
	}

	form := milkapi.NewForm()
	for k, v := range params {
		form.Set(k, v)
	}
	items, err := s.api.Dropdown(ctx, token, src.Path, form)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("dropdown", src.Name).Msg("failed to load dropdown")
		return nil, fmt.Errorf("load %s: %w", src.Name, err)
	}

	s.cache.Set(key, items, ttlcache.DefaultTTL)
	return items, nil
}

// Options returns src mapped to select options.
func (s *Service) Options(ctx context.Context, token string, src Source, params map[string]string) ([]Option, error) {
	items, err := s.Items(ctx, token, src, params)
	if err != nil {
		return nil, err
	}
	return Options(items, src.LabelKey, src.ValueKey), nil
}

// LineType is the lines drop-down type parameter: distributors get their own
// lines (2), everyone else all lines (1).
func LineType(role models.Role) string {
	if role == models.RoleDistributor {
		return "2"
	}
	return "1"
}

func (s *Service) SlotOptions(ctx context.Context, token string) ([]Option, error) {
	return s.Options(ctx, token, Slots, nil)
}

func (s *Service) LineOptions(ctx context.Context, token string, role models.Role) ([]Option, error) {
	return s.Options(ctx, token, Lines, map[string]string{"type": LineType(role)})
}

// CustomerItems returns the customer drop-down with its full records, which
// carry unit_price.
func (s *Service) CustomerItems(ctx context.Context, token string, customerType int) ([]map[string]any, error) {
	return s.Items(ctx, token, Customers, map[string]string{"type": fmt.Sprint(customerType)})
}

// Named resolves a drop-down by name: static lists first, then backend sources.
// The lines source picks its type from role; other query values pass through.
func (s *Service) Named(ctx context.Context, token string, role models.Role, name string, params map[string]string) ([]Option, error) {
	if opts, ok := Static(name); ok {
		return opts, nil
	}
	src, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDropdown, name)
	}
	if src.Name == Lines.Name {
		if params == nil {
			params = map[string]string{}
		}
		params["type"] = LineType(role)
	}
	return s.Options(ctx, token, src, params)
}
