package service_test

import (
	"context"
	"time"

	"github.com/rafisgodoy/unibus-core-go/internal/domain"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/observability"
	"github.com/rafisgodoy/unibus-core-go/internal/port"
	"github.com/rafisgodoy/unibus-core-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type memStore struct {
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: make(map[string]string)} }

func (m *memStore) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memStore) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	delete(m.data, key)
	return nil
}

type mockProfileClient struct {
	profile *domain.UserProfile
	err     error
	calls   int
}

func (m *mockProfileClient) GetClient(_ context.Context, _ string) (*domain.UserProfile, error) {
	m.calls++
	return m.profile, m.err
}

type mockContractClient struct {
	company *domain.ContractCompany
	err     error
}

func (m *mockContractClient) GetContract(_ context.Context, _ string) (*domain.ContractCompany, error) {
	return m.company, m.err
}

type mockAddressLookup struct {
	addr  *domain.Address
	err   error
	calls int
}

func (m *mockAddressLookup) Lookup(_ context.Context, _ string) (*domain.Address, error) {
	m.calls++
	return m.addr, m.err
}

type mockUploader struct {
	url    string
	err    error
	calls  int
	gotURI string
}

func (m *mockUploader) UploadProfileImage(_ context.Context, _ string, fileURI string) (string, error) {
	m.calls++
	m.gotURI = fileURI
	return m.url, m.err
}

type mockGate struct {
	granted bool
}

func (m *mockGate) RequestMediaLibrary(_ context.Context) (bool, error) {
	return m.granted, nil
}

type mockPicker struct {
	result *port.PickResult
	err    error
	calls  int
}

func (m *mockPicker) Pick(_ context.Context, _ port.PickOptions) (*port.PickResult, error) {
	m.calls++
	return m.result, m.err
}

type recordAlerter struct {
	messages []string
}

func (r *recordAlerter) Alert(message string) {
	r.messages = append(r.messages, message)
}

// --- Helpers ---

func testProfile() *domain.UserProfile {
	return &domain.UserProfile{
		Name:         "Rafael",
		CPF:          "123.456.789-00",
		Email:        "rafael@example.com",
		Phone:        "11987654321",
		BirthDate:    "2001-03-07T00:00:00.000Z",
		CEP:          "13480-970",
		City:         "Limeira",
		Neighborhood: "Centro",
		Street:       "Rua XV",
		HouseNumber:  "",
	}
}

func newAvatar(store port.KeyValueStore, gate port.PermissionGate, picker port.ImagePicker, uploader port.ImageUploader, alerter port.Alerter, notifier *service.Notifier) *service.Avatar {
	return service.NewAvatar(store, gate, picker, uploader, alerter, notifier, observability.NewMetrics(), zap.NewNop())
}

func longLivedNotifier() *service.Notifier {
	// Long enough that nothing auto-dismisses mid-assertion.
	return service.NewNotifierWithDuration(time.Minute, observability.NewMetrics(), zap.NewNop())
}
