package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/provider"
)

// ErrNotInitialized is returned by every public method called before
// Initialize has completed. Guards against handler races during startup.
var ErrNotInitialized = errors.New("blueprint service is not initialized")

// ErrUnknownProvider is returned when a provider id does not match any
// registered adapter.
var ErrUnknownProvider = errors.New("provider is not registered")

// SearchCache caches merged search results. Implementations must treat
// failures as misses; the cache is a hint, never a source of truth.
type SearchCache interface {
	Get(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, bool)
	Set(ctx context.Context, params domain.SearchParams, res domain.SearchResult)
}

// ProviderInfo is the read-only identity and rate-limit view of one
// registered adapter, as exposed to the API.
type ProviderInfo struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	APIEndpoint string              `json:"api_endpoint"`
	APIVersion  string              `json:"api_version"`
	RateLimits  provider.RateLimits `json:"rate_limits"`
}

// BlueprintService owns the registry of live provider adapters and presents
// a provider-agnostic catalog query surface. The adapter map is populated
// once during Initialize and read-only afterwards.
type BlueprintService struct {
	registry *provider.Registry
	configs  map[string]provider.Config
	cache    SearchCache
	logger   *slog.Logger

	mu          sync.RWMutex
	providers   map[string]provider.Provider
	order       []string
	initialized bool
}

// NewBlueprintService creates the service. configs maps provider id to the
// config of each enabled provider; ids absent from the map stay offline.
// cache may be nil to disable search caching.
func NewBlueprintService(registry *provider.Registry, configs map[string]provider.Config, cache SearchCache, logger *slog.Logger) *BlueprintService {
	return &BlueprintService{
		registry:  registry,
		configs:   configs,
		cache:     cache,
		logger:    logger,
		providers: make(map[string]provider.Provider),
	}
}

// Initialize constructs an adapter for every enabled provider and probes its
// availability. A provider that fails construction or its initial probe is
// logged and skipped; the service stays usable with whatever subset is
// online. Safe to call more than once.
func (s *BlueprintService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	for _, id := range s.registry.IDs() {
		cfg, enabled := s.configs[id]
		if !enabled {
			continue
		}

		p, err := s.registry.New(id, cfg)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping provider: construction failed",
				slog.String("provider_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}

		if !p.CheckAvailability(ctx) {
			s.logger.WarnContext(ctx, "skipping provider: availability probe failed",
				slog.String("provider_id", id),
			)
			continue
		}

		s.providers[id] = p
		s.order = append(s.order, id)
		s.logger.InfoContext(ctx, "provider registered",
			slog.String("provider_id", id),
			slog.String("api_version", p.APIVersion()),
		)
	}

	s.initialized = true
	s.logger.InfoContext(ctx, "blueprint service initialized",
		slog.Int("providers", len(s.order)),
	)
	return nil
}

// GetProvider returns the live adapter for id. Unknown ids are a caller
// error, not a provider failure.
func (s *BlueprintService) GetProvider(id string) (provider.Provider, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.providers[id]
	if !ok {
		return nil, fmt.Errorf("provider %q: %w", id, ErrUnknownProvider)
	}
	return p, nil
}

// Providers returns identity and rate-limit info for every registered
// adapter, in registration order.
func (s *BlueprintService) Providers() ([]ProviderInfo, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]ProviderInfo, 0, len(s.order))
	for _, id := range s.order {
		p := s.providers[id]
		infos = append(infos, ProviderInfo{
			ID:          p.ID(),
			Name:        p.Name(),
			APIEndpoint: p.APIEndpoint(),
			APIVersion:  p.APIVersion(),
			RateLimits:  p.RateLimits(),
		})
	}
	return infos, nil
}

// SearchBlueprints queries one provider when params.ProviderID is set,
// otherwise fans out to every registered provider concurrently. Fan-out uses
// all-settled semantics: each provider completes or fails independently,
// failures are logged and dropped from the merge, and only the absence of
// any success is an error.
func (s *BlueprintService) SearchBlueprints(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	if err := s.guard(); err != nil {
		return domain.SearchResult{}, err
	}
	params.Normalize()

	if params.ProviderID != "" {
		p, err := s.GetProvider(params.ProviderID)
		if err != nil {
			return domain.SearchResult{}, err
		}
		return p.FetchBlueprints(ctx, params)
	}

	if s.cache != nil {
		if res, ok := s.cache.Get(ctx, params); ok {
			return *res, nil
		}
	}

	s.mu.RLock()
	order := make([]string, len(s.order))
	copy(order, s.order)
	providers := make([]provider.Provider, len(order))
	for i, id := range order {
		providers[i] = s.providers[id]
	}
	s.mu.RUnlock()

	if len(providers) == 0 {
		return domain.SearchResult{}, errors.New("no providers registered")
	}

	type outcome struct {
		res domain.SearchResult
		err error
	}
	outcomes := make([]outcome, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			res, err := p.FetchBlueprints(ctx, params)
			outcomes[i] = outcome{res: res, err: err}
		}(i, p)
	}
	wg.Wait()

	results := make([]domain.SearchResult, 0, len(outcomes))
	var failures []error
	for i, o := range outcomes {
		if o.err != nil {
			s.logger.WarnContext(ctx, "provider search failed",
				slog.String("provider_id", order[i]),
				slog.String("error", o.err.Error()),
			)
			failures = append(failures, fmt.Errorf("%s: %w", order[i], o.err))
			continue
		}
		results = append(results, o.res)
	}

	if len(results) == 0 {
		return domain.SearchResult{}, fmt.Errorf("all providers failed: %w", errors.Join(failures...))
	}

	merged := domain.MergeResults(results)
	if s.cache != nil {
		s.cache.Set(ctx, params, merged)
	}
	return merged, nil
}

// GetBlueprintDetails re-checks the provider's availability before
// delegating; a stale provider fails fast instead of timing out mid-call.
func (s *BlueprintService) GetBlueprintDetails(ctx context.Context, providerID, blueprintID string) (*domain.Blueprint, error) {
	p, err := s.GetProvider(providerID)
	if err != nil {
		return nil, err
	}

	if !p.CheckAvailability(ctx) {
		return nil, &domain.ProviderUnavailableError{ProviderID: providerID}
	}

	return p.FetchBlueprintDetails(ctx, blueprintID)
}

// ValidateBlueprint delegates to the adapter's local validator.
func (s *BlueprintService) ValidateBlueprint(ctx context.Context, providerID string, bp *domain.Blueprint) (*provider.ValidationResult, error) {
	p, err := s.GetProvider(providerID)
	if err != nil {
		return nil, err
	}
	return p.ValidateBlueprint(ctx, bp)
}

// CheckAvailability probes one provider when providerID is set, otherwise
// all of them concurrently. A failed probe is recorded as false, never
// propagated.
func (s *BlueprintService) CheckAvailability(ctx context.Context, providerID string) (map[string]bool, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	if providerID != "" {
		p, err := s.GetProvider(providerID)
		if err != nil {
			return nil, err
		}
		return map[string]bool{providerID: p.CheckAvailability(ctx)}, nil
	}

	s.mu.RLock()
	order := make([]string, len(s.order))
	copy(order, s.order)
	providers := make([]provider.Provider, len(order))
	for i, id := range order {
		providers[i] = s.providers[id]
	}
	s.mu.RUnlock()

	availability := make([]bool, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			availability[i] = p.CheckAvailability(ctx)
		}(i, p)
	}
	wg.Wait()

	out := make(map[string]bool, len(order))
	for i, id := range order {
		out[id] = availability[i]
	}
	return out, nil
}

func (s *BlueprintService) guard() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	return nil
}
