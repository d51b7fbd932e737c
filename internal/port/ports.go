// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the screen services
// from the concrete API client, the device store, and the platform picker,
// so the same workflow runs under a mobile shell, the CLI, or tests.
package port

import (
	"context"

	"github.com/rafisgodoy/unibus-core-go/internal/domain"
)

// KeyValueStore is the process-wide durable store (the AsyncStorage analog).
// It holds the auth token and the uploaded profile image URL.
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// ProfileFetcher retrieves the authenticated user's profile.
type ProfileFetcher interface {
	GetClient(ctx context.Context, token string) (*domain.UserProfile, error)
}

// ContractFetcher retrieves the user's active contract company.
// A nil company with a nil error means "no active contract".
type ContractFetcher interface {
	GetContract(ctx context.Context, token string) (*domain.ContractCompany, error)
}

// AddressLookup resolves a postal code into address data (the derived fetch).
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (*domain.Address, error)
}

// ImageUploader submits a local image file to the API and returns the
// remote URL of the stored copy.
type ImageUploader interface {
	UploadProfileImage(ctx context.Context, token, fileURI string) (string, error)
}

// PickOptions mirrors the platform picker configuration the app uses.
type PickOptions struct {
	MediaType     string
	AllowsEditing bool
	Aspect        [2]int
	Quality       float64
}

// PickResult is the outcome of a picker invocation. A cancelled selection
// is a normal outcome, not an error.
type PickResult struct {
	URI       string
	Cancelled bool
}

// ImagePicker launches the platform media selector.
type ImagePicker interface {
	Pick(ctx context.Context, opts PickOptions) (*PickResult, error)
}

// PermissionGate asks the platform for media-library access. The app asks
// before every pick attempt; grants are not cached here.
type PermissionGate interface {
	RequestMediaLibrary(ctx context.Context) (bool, error)
}

// Alerter shows a blocking platform alert (used only for permission denials).
type Alerter interface {
	Alert(message string)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// Navigator switches screens by name. Owned by the hosting shell; the core
// only ever asks for a transition.
type Navigator interface {
	Navigate(screen string)
}
