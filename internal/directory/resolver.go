// Package directory resolves staff, branch and product ids to display names
// for list enrichment. Lookups are batched per entity kind and run in
// parallel; any failure degrades to the Unknown placeholder.
package directory

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	branchModels "stocktrail/internal/branch/models"
	productModels "stocktrail/internal/product/models"
	staffModels "stocktrail/internal/staff/models"
	id "stocktrail/pkg/domain"
	pstrings "stocktrail/pkg/platform/strings"
	"stocktrail/pkg/requestcontext"
)

// Unknown is shown for any id that could not be resolved.
const Unknown = "Unknown"

type StaffSource interface {
	FindByIDs(ctx context.Context, ids []id.StaffID) (map[id.StaffID]*staffModels.Staff, error)
}

type BranchSource interface {
	FindByIDs(ctx context.Context, ids []id.BranchID) (map[id.BranchID]*branchModels.Branch, error)
}

type ProductSource interface {
	FindByIDs(ctx context.Context, ids []id.ProductID) (map[id.ProductID]*productModels.Product, error)
}

// Cache is an optional shared id-to-name cache in front of the sources.
type Cache interface {
	Get(ctx context.Context, kind Kind, keys []string) (map[string]string, error)
	Set(ctx context.Context, kind Kind, names map[string]string) error
}

type Kind string

const (
	KindStaff   Kind = "staff"
	KindBranch  Kind = "branch"
	KindProduct Kind = "product"
)

// Request collects the ids one list response needs. Duplicates are fine.
type Request struct {
	Staff    []id.StaffID
	Branches []id.BranchID
	Products []id.ProductID
}

// Names is the per-request id-to-name table.
type Names struct {
	staff    map[id.StaffID]string
	branches map[id.BranchID]string
	products map[id.ProductID]string
}

func (n *Names) Staff(staffID id.StaffID) string {
	return lookup(n.staff, staffID)
}

// StaffPtr resolves an optional reference; nil yields "".
func (n *Names) StaffPtr(staffID *id.StaffID) string {
	if staffID == nil {
		return ""
	}
	return n.Staff(*staffID)
}

func (n *Names) Branch(branchID id.BranchID) string {
	return lookup(n.branches, branchID)
}

func (n *Names) BranchPtr(branchID *id.BranchID) string {
	if branchID == nil {
		return ""
	}
	return n.Branch(*branchID)
}

func (n *Names) Product(productID id.ProductID) string {
	return lookup(n.products, productID)
}

func lookup[K comparable](m map[K]string, key K) string {
	if name, ok := m[key]; ok && name != "" {
		return name
	}
	return Unknown
}

// Resolver batches name lookups.
type Resolver struct {
	staff    StaffSource
	branches BranchSource
	products ProductSource
	cache    Cache
	logger   *slog.Logger
	timeout  time.Duration
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithCache(cache Cache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithTimeout bounds one Resolve call. Lookups still running at the deadline
// are reported as Unknown.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = d
	}
}

const defaultResolveTimeout = 2 * time.Second

func NewResolver(staff StaffSource, branches BranchSource, products ProductSource, opts ...Option) *Resolver {
	r := &Resolver{
		staff:    staff,
		branches: branches,
		products: products,
		timeout:  defaultResolveTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails. Each entity kind is fetched in its own goroutine and a
// failing kind does not cancel the others.
func (r *Resolver) Resolve(ctx context.Context, req Request) *Names {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names := &Names{}
	var g errgroup.Group

	if staffIDs := pstrings.Unique(req.Staff); len(staffIDs) > 0 {
		g.Go(func() error {
			names.staff = resolveKind(ctx, r, KindStaff, staffIDs, func(ctx context.Context, ids []id.StaffID) (map[id.StaffID]string, error) {
				found, err := r.staff.FindByIDs(ctx, ids)
				if err != nil {
					return nil, err
				}
				out := make(map[id.StaffID]string, len(found))
				for k, v := range found {
					out[k] = v.Name
				}
				return out, nil
			})
			return nil
		})
	}
	if branchIDs := pstrings.Unique(req.Branches); len(branchIDs) > 0 {
		g.Go(func() error {
			names.branches = resolveKind(ctx, r, KindBranch, branchIDs, func(ctx context.Context, ids []id.BranchID) (map[id.BranchID]string, error) {
				found, err := r.branches.FindByIDs(ctx, ids)
				if err != nil {
					return nil, err
				}
				out := make(map[id.BranchID]string, len(found))
				for k, v := range found {
					out[k] = v.Name
				}
				return out, nil
			})
			return nil
		})
	}
	if productIDs := pstrings.Unique(req.Products); len(productIDs) > 0 && r.products != nil {
		g.Go(func() error {
			names.products = resolveKind(ctx, r, KindProduct, productIDs, func(ctx context.Context, ids []id.ProductID) (map[id.ProductID]string, error) {
				found, err := r.products.FindByIDs(ctx, ids)
				if err != nil {
					return nil, err
				}
				out := make(map[id.ProductID]string, len(found))
				for k, v := range found {
					out[k] = v.Name
				}
				return out, nil
			})
			return nil
		})
	}

	_ = g.Wait()
	return names
}

type textID interface {
	comparable
	String() string
}

// resolveKind consults the cache, fetches misses from the source and writes
// them back. Errors are logged and leave the affected ids unresolved.
func resolveKind[K textID](
	ctx context.Context,
	r *Resolver,
	kind Kind,
	ids []K,
	fetch func(context.Context, []K) (map[K]string, error),
) map[K]string {
	out := make(map[K]string, len(ids))
	missing := ids

	if r.cache != nil {
		keys := make([]string, len(ids))
		for i, k := range ids {
			keys[i] = k.String()
		}
		cached, err := r.cache.Get(ctx, kind, keys)
		if err != nil {
			r.logLookupFailure(ctx, kind, "cache_get", err)
		}
		if len(cached) > 0 {
			missing = missing[:0:0]
			for _, k := range ids {
				if name, ok := cached[k.String()]; ok {
					out[k] = name
					continue
				}
				missing = append(missing, k)
			}
		}
	}
	if len(missing) == 0 {
		return out
	}

	fetched, err := fetch(ctx, missing)
	if err != nil {
		r.logLookupFailure(ctx, kind, "source", err)
		return out
	}
	for k, name := range fetched {
		out[k] = name
	}
	if r.cache != nil && len(fetched) > 0 {
		toCache := make(map[string]string, len(fetched))
		for k, name := range fetched {
			toCache[k.String()] = name
		}
		if err := r.cache.Set(ctx, kind, toCache); err != nil {
			r.logLookupFailure(ctx, kind, "cache_set", err)
		}
	}
	return out
}

func (r *Resolver) logLookupFailure(ctx context.Context, kind Kind, stage string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.WarnContext(ctx, "name resolution degraded",
		"request_id", requestcontext.RequestID(ctx),
		"kind", string(kind),
		"stage", stage,
		"error", err,
	)
}
