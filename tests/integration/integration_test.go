package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rafisgodoy/unibus-core-go/internal/domain"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/cache"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/client"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/observability"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/picker"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/resilience"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/store"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/viacep"
	"github.com/rafisgodoy/unibus-core-go/internal/service"

	"go.uber.org/zap"
)

// TestIntegration_FullFlow spins up mock external services and walks the
// three screens end to end: contracts, settings and the avatar upload.
func TestIntegration_FullFlow(t *testing.T) {
	// --- Mock UniBus API ---
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-integration" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		switch r.URL.Path {
		case "/client":
			profile := domain.UserProfile{
				Name:         "Rafael Godoy",
				CPF:          "123.456.789-00",
				Email:        "rafael@unibus.com.br",
				Phone:        "11987654321",
				BirthDate:    "2000-03-07T00:00:00.000Z",
				CEP:          "17580000",
				City:         "Pompeia",
				Neighborhood: "Centro",
				Street:       "Rua das Flores",
				HouseNumber:  "",
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(profile)
		case "/contrato":
			company := domain.ContractCompany{
				Name:  "Viação Universitária",
				Email: "contato@viacao.com.br",
				Phone: "14999998888",
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(company)
		case "/client/upload/image":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("failed to parse multipart form: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"path": "https://cdn.unibus.com.br/u/1.jpg"})
		default:
			t.Errorf("unexpected API path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer apiServer.Close()

	// --- Mock ViaCEP ---
	cepServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/17580000/json/" {
			t.Errorf("unexpected ViaCEP path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.Address{CEP: "17580-000", UF: "SP", City: "Pompeia"})
	}))
	defer cepServer.Close()

	// --- Build services ---
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	httpClient := &http.Client{Timeout: 5 * time.Second}

	dir := t.TempDir()
	kv, err := store.Open(filepath.Join(dir, "unibus.store"), "integration-pass")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := kv.Set(domain.StoreKeyToken, "tok-integration"); err != nil {
		t.Fatalf("failed to store token: %v", err)
	}

	imagePath := filepath.Join(dir, "me.jpg")
	if err := os.WriteFile(imagePath, []byte("jpeg-bytes"), 0o600); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}

	apiClient := client.NewClient(httpClient, apiServer.URL, resilience.NewBulkhead(10), logger)

	addrCache := cache.New[*domain.Address](5 * time.Minute)
	defer addrCache.Close()
	addressClient := viacep.NewClient(httpClient, cepServer.URL, resilience.NewCircuitBreaker("test"), addrCache, metrics, logger)

	notifier := service.NewNotifierWithDuration(time.Minute, metrics, logger)
	filePicker := &picker.FileSystem{
		Source: func(context.Context) (string, bool) { return imagePath, true },
		Logger: logger,
	}
	avatar := service.NewAvatar(
		kv,
		picker.NewGate(true),
		filePicker,
		apiClient,
		picker.AlertFunc(func(string) {}),
		notifier,
		metrics,
		logger,
	)
	settings := service.NewSettings(kv, apiClient, addressClient, avatar, notifier, metrics, logger)
	contracts := service.NewContracts(kv, apiClient, apiClient, notifier, metrics, logger)

	ctx := context.Background()

	// --- Contracts screen ---
	contracts.Refresh(ctx)
	cState := contracts.Snapshot()

	if cState.UserName != "Rafael Godoy" {
		t.Errorf("expected user name 'Rafael Godoy', got %q", cState.UserName)
	}
	if cState.UserPhone != "(11) 98765-4321" {
		t.Errorf("expected formatted phone, got %q", cState.UserPhone)
	}
	if cState.Company == nil {
		t.Fatal("expected an active contract company")
	}
	if cState.Company.Name != "Viação Universitária" {
		t.Errorf("expected company name 'Viação Universitária', got %q", cState.Company.Name)
	}
	if cState.Message != "" {
		t.Errorf("expected no informational message, got %q", cState.Message)
	}

	// --- Settings screen ---
	settings.Refresh(ctx)
	sState := settings.Snapshot()

	if sState.Phone != "(11) 98765-4321" {
		t.Errorf("expected formatted phone, got %q", sState.Phone)
	}
	if sState.BirthDate != "07/03/2000" {
		t.Errorf("expected birth date '07/03/2000', got %q", sState.BirthDate)
	}
	if sState.State != "SP" {
		t.Errorf("expected UF 'SP' from the postal lookup, got %q", sState.State)
	}
	if sState.HouseNumber != domain.HouseNumberNotInformed {
		t.Errorf("expected house number sentinel, got %q", sState.HouseNumber)
	}
	if sState.ImageURI != domain.DefaultProfileImageURI {
		t.Errorf("expected placeholder image before upload, got %q", sState.ImageURI)
	}

	// --- Avatar upload ---
	uri := settings.ChangeImage(ctx)
	if uri != "https://cdn.unibus.com.br/u/1.jpg" {
		t.Errorf("expected uploaded image URL, got %q", uri)
	}
	if persisted, ok := kv.Get(domain.StoreKeyProfileImage); !ok || persisted != uri {
		t.Errorf("expected uploaded URL persisted in the store, got %q (ok=%v)", persisted, ok)
	}

	if note, visible := notifier.Current(); visible {
		t.Errorf("expected no toast on the happy path, got %q", note.Message)
	}
}

// TestIntegration_ContractServerError tests the 500 mapping on the contracts
// screen: the user is invited to hire a service instead of seeing an error.
func TestIntegration_ContractServerError(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/client":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(domain.UserProfile{Name: "Rafael Godoy"})
		case "/contrato":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer apiServer.Close()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	httpClient := &http.Client{Timeout: 5 * time.Second}

	kv, err := store.Open(filepath.Join(t.TempDir(), "unibus.store"), "integration-pass")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := kv.Set(domain.StoreKeyToken, "tok-integration"); err != nil {
		t.Fatalf("failed to store token: %v", err)
	}

	apiClient := client.NewClient(httpClient, apiServer.URL, resilience.NewBulkhead(10), logger)
	notifier := service.NewNotifierWithDuration(time.Minute, metrics, logger)
	contracts := service.NewContracts(kv, apiClient, apiClient, notifier, metrics, logger)

	contracts.Refresh(context.Background())

	state := contracts.Snapshot()
	if state.UserName != "Rafael Godoy" {
		t.Errorf("expected profile fetch to land independently, got name %q", state.UserName)
	}

	note, visible := notifier.Current()
	if !visible {
		t.Fatal("expected a toast after the contract fetch failed")
	}
	if note.Message != domain.MsgHireService {
		t.Errorf("expected %q, got %q", domain.MsgHireService, note.Message)
	}
	if note.Severity != domain.SeverityError {
		t.Errorf("expected error severity, got %v", note.Severity)
	}
}
