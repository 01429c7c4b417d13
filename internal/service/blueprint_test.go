package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/provider"
)

// --- Mock Provider ---

type mockProvider struct {
	mock.Mock
	id string
}

func (m *mockProvider) ID() string          { return m.id }
func (m *mockProvider) Name() string        { return m.id }
func (m *mockProvider) APIEndpoint() string { return "https://" + m.id + ".example" }
func (m *mockProvider) APIVersion() string  { return "v1" }

func (m *mockProvider) FetchBlueprints(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(domain.SearchResult), args.Error(1)
}

func (m *mockProvider) FetchBlueprintDetails(ctx context.Context, id string) (*domain.Blueprint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Blueprint), args.Error(1)
}

func (m *mockProvider) CheckAvailability(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *mockProvider) RateLimits() provider.RateLimits {
	args := m.Called()
	return args.Get(0).(provider.RateLimits)
}

func (m *mockProvider) ValidateBlueprint(ctx context.Context, bp *domain.Blueprint) (*provider.ValidationResult, error) {
	args := m.Called(ctx, bp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.ValidationResult), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestService registers the given mocks under their ids and initializes
// the service. Every mock must expect the initial availability probe.
func newTestService(t *testing.T, mocks ...*mockProvider) *BlueprintService {
	t.Helper()

	registry := provider.NewRegistry()
	configs := make(map[string]provider.Config)
	for _, m := range mocks {
		m := m
		require.NoError(t, registry.Register(m.id, func(provider.Config) (provider.Provider, error) {
			return m, nil
		}))
		configs[m.id] = provider.Config{APIKey: "key-" + m.id}
	}

	svc := NewBlueprintService(registry, configs, nil, newTestLogger())
	require.NoError(t, svc.Initialize(context.Background()))
	return svc
}

func blueprintPage(providerID string, n, total, page, limit int) domain.SearchResult {
	items := make([]domain.Blueprint, n)
	for i := range items {
		items[i] = domain.Blueprint{ID: providerID + "-bp", ProviderID: providerID}
	}
	return domain.SearchResult{
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: page*limit < total,
	}
}

func TestNotInitializedGuard(t *testing.T) {
	svc := NewBlueprintService(provider.NewRegistry(), nil, nil, newTestLogger())

	_, err := svc.SearchBlueprints(context.Background(), domain.SearchParams{})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = svc.GetBlueprintDetails(context.Background(), "printify", "1")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = svc.CheckAvailability(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = svc.Providers()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitialize_SkipsUnreachableProvider(t *testing.T) {
	up := &mockProvider{id: "printify"}
	up.On("CheckAvailability", mock.Anything).Return(true).Once()

	down := &mockProvider{id: "printful"}
	down.On("CheckAvailability", mock.Anything).Return(false).Once()

	svc := newTestService(t, up, down)

	_, err := svc.GetProvider("printify")
	assert.NoError(t, err)
	_, err = svc.GetProvider("printful")
	assert.ErrorContains(t, err, "not registered")
}

func TestInitialize_Idempotent(t *testing.T) {
	p := &mockProvider{id: "printify"}
	p.On("CheckAvailability", mock.Anything).Return(true).Once()

	svc := newTestService(t, p)
	require.NoError(t, svc.Initialize(context.Background()))

	// A second Initialize must not probe again.
	p.AssertNumberOfCalls(t, "CheckAvailability", 1)
}

func TestSearchBlueprints_SingleProvider(t *testing.T) {
	p := &mockProvider{id: "printify"}
	p.On("CheckAvailability", mock.Anything).Return(true).Once()
	p.On("FetchBlueprints", mock.Anything, mock.Anything).
		Return(blueprintPage("printify", 2, 2, 1, 20), nil).Once()

	other := &mockProvider{id: "printful"}
	other.On("CheckAvailability", mock.Anything).Return(true).Once()

	svc := newTestService(t, p, other)

	res, err := svc.SearchBlueprints(context.Background(), domain.SearchParams{ProviderID: "printify"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	other.AssertNotCalled(t, "FetchBlueprints", mock.Anything, mock.Anything)
}

func TestSearchBlueprints_FanOutMergesInRegistrationOrder(t *testing.T) {
	first := &mockProvider{id: "printify"}
	first.On("CheckAvailability", mock.Anything).Return(true).Once()
	first.On("FetchBlueprints", mock.Anything, mock.Anything).
		Return(blueprintPage("printify", 5, 5, 1, 20), nil).Once()

	second := &mockProvider{id: "printful"}
	second.On("CheckAvailability", mock.Anything).Return(true).Once()
	second.On("FetchBlueprints", mock.Anything, mock.Anything).
		Return(blueprintPage("printful", 3, 43, 1, 20), nil).Once()

	svc := newTestService(t, first, second)

	res, err := svc.SearchBlueprints(context.Background(), domain.SearchParams{})
	require.NoError(t, err)

	assert.Len(t, res.Items, 8)
	assert.Equal(t, 48, res.Total)
	assert.Equal(t, "printify", res.Items[0].ProviderID)
	assert.Equal(t, "printful", res.Items[5].ProviderID)
	assert.True(t, res.HasMore, "one provider reports more")
}

func TestSearchBlueprints_DropsFailedProviders(t *testing.T) {
	ok := &mockProvider{id: "printify"}
	ok.On("CheckAvailability", mock.Anything).Return(true).Once()
	ok.On("FetchBlueprints", mock.Anything, mock.Anything).
		Return(blueprintPage("printify", 2, 2, 1, 20), nil).Once()

	failing := &mockProvider{id: "printful"}
	failing.On("CheckAvailability", mock.Anything).Return(true).Once()
	failing.On("FetchBlueprints", mock.Anything, mock.Anything).
		Return(domain.SearchResult{}, &domain.AuthenticationError{ProviderID: "printful"}).Once()

	svc := newTestService(t, ok, failing)

	res, err := svc.SearchBlueprints(context.Background(), domain.SearchParams{})
	require.NoError(t, err, "one failure must not sink the merge")
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.Total)
}

func TestSearchBlueprints_AllFailed(t *testing.T) {
	a := &mockProvider{id: "printify"}
	a.On("CheckAvailability", mock.Anything).Return(true).Once()
	a.On("FetchBlueprints", mock.Anything, mock.Anything).
		Return(domain.SearchResult{}, &domain.AuthenticationError{ProviderID: "printify"}).Once()

	b := &mockProvider{id: "printful"}
	b.On("CheckAvailability", mock.Anything).Return(true).Once()
	b.On("FetchBlueprints", mock.Anything, mock.Anything).
		Return(domain.SearchResult{}, &domain.ProviderUnavailableError{ProviderID: "printful"}).Once()

	svc := newTestService(t, a, b)

	_, err := svc.SearchBlueprints(context.Background(), domain.SearchParams{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "all providers failed")
}

func TestGetBlueprintDetails_RechecksAvailability(t *testing.T) {
	p := &mockProvider{id: "printify"}
	p.On("CheckAvailability", mock.Anything).Return(true).Times(2)
	p.On("FetchBlueprintDetails", mock.Anything, "384").
		Return(&domain.Blueprint{ID: "384", ProviderID: "printify"}, nil).Once()

	svc := newTestService(t, p)

	bp, err := svc.GetBlueprintDetails(context.Background(), "printify", "384")
	require.NoError(t, err)
	assert.Equal(t, "384", bp.ID)
}

func TestGetBlueprintDetails_UnavailableProvider(t *testing.T) {
	p := &mockProvider{id: "printify"}
	p.On("CheckAvailability", mock.Anything).Return(true).Once()

	svc := newTestService(t, p)

	// Provider went dark after registration.
	p.On("CheckAvailability", mock.Anything).Return(false).Once()

	_, err := svc.GetBlueprintDetails(context.Background(), "printify", "384")
	var unavailErr *domain.ProviderUnavailableError
	require.ErrorAs(t, err, &unavailErr)
	assert.Equal(t, "printify", unavailErr.ProviderID)

	p.AssertNotCalled(t, "FetchBlueprintDetails", mock.Anything, mock.Anything)
}

func TestCheckAvailability_AllProviders(t *testing.T) {
	up := &mockProvider{id: "printify"}
	up.On("CheckAvailability", mock.Anything).Return(true)

	flaky := &mockProvider{id: "printful"}
	flaky.On("CheckAvailability", mock.Anything).Return(true).Once()
	flaky.On("CheckAvailability", mock.Anything).Return(false)

	svc := newTestService(t, up, flaky)

	got, err := svc.CheckAvailability(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"printify": true, "printful": false}, got)
}

func TestProviders(t *testing.T) {
	p := &mockProvider{id: "printify"}
	p.On("CheckAvailability", mock.Anything).Return(true).Once()
	p.On("RateLimits").Return(provider.RateLimits{RequestLimit: 600, Remaining: 599})

	svc := newTestService(t, p)

	infos, err := svc.Providers()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "printify", infos[0].ID)
	assert.Equal(t, 600, infos[0].RateLimits.RequestLimit)
}
