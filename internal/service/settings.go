package service

import (
	"context"
	"sync"
	"time"

	"github.com/rafisgodoy/unibus-core-go/internal/domain"
	"github.com/rafisgodoy/unibus-core-go/internal/format"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/observability"
	"github.com/rafisgodoy/unibus-core-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var settingsTracer = otel.Tracer("service/settings")

// SettingsState is the settings screen's view state: the profile fields,
// display-formatted and ready to render.
type SettingsState struct {
	Name         string
	CPF          string
	Phone        string
	Email        string
	BirthDate    string
	CEP          string
	State        string
	City         string
	Neighborhood string
	Street       string
	HouseNumber  string
	ImageURI     string
}

// Settings drives the settings/profile screen: one authenticated profile
// fetch per focus, field normalization, and the derived address lookup.
type Settings struct {
	mu    sync.Mutex
	state SettingsState

	store    port.KeyValueStore
	profiles port.ProfileFetcher
	address  port.AddressLookup
	avatar   *Avatar
	notifier *Notifier
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewSettings creates the settings screen service.
func NewSettings(
	store port.KeyValueStore,
	profiles port.ProfileFetcher,
	address port.AddressLookup,
	avatar *Avatar,
	notifier *Notifier,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Settings {
	return &Settings{
		store:    store,
		profiles: profiles,
		address:  address,
		avatar:   avatar,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Refresh reloads the screen. It runs on every focus, so it overwrites the
// whole state each time. Without a stored token it is a silent no-op: "not
// logged in yet" is not a failure.
func (s *Settings) Refresh(ctx context.Context) {
	ctx, span := settingsTracer.Start(ctx, "Settings.Refresh")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("settings_refresh", time.Since(start))
	}()

	token, ok := s.store.Get(domain.StoreKeyToken)
	if !ok || token == "" {
		s.logger.Debug("settings: no stored token, skipping fetch")
		return
	}

	profile, err := s.profiles.GetClient(ctx, token)
	if err != nil {
		s.logger.Error("settings: profile fetch failed", zap.Error(err))
		s.metrics.IncrExternalError("unibus-api")
		s.notifier.Notify(domain.MsgProfileError, domain.SeverityError)
		return
	}

	s.mu.Lock()
	s.state = SettingsState{
		Name:         profile.Name,
		CPF:          profile.CPF,
		Phone:        format.Phone(profile.Phone),
		Email:        profile.Email,
		BirthDate:    format.BirthDate(profile.BirthDate),
		CEP:          profile.CEP,
		State:        s.state.State, // keep last known UF until the lookup lands
		City:         profile.City,
		Neighborhood: profile.Neighborhood,
		Street:       profile.Street,
		HouseNumber:  format.HouseNumber(profile.HouseNumber, domain.HouseNumberNotInformed),
		ImageURI:     s.avatar.Current(),
	}
	s.mu.Unlock()

	// Derived fetch: postal code to state. Its failures are logged and
	// swallowed; the screen just shows a blank UF field.
	addr, err := s.address.Lookup(ctx, profile.CEP)
	if err != nil {
		s.logger.Warn("settings: address lookup failed",
			zap.String("cep", profile.CEP),
			zap.Error(err),
		)
		return
	}

	s.mu.Lock()
	s.state.State = addr.UF
	s.mu.Unlock()
}

// ChangeImage runs the avatar pipeline and folds the result back into the
// screen state.
func (s *Settings) ChangeImage(ctx context.Context) string {
	uri := s.avatar.ChangeImage(ctx)

	s.mu.Lock()
	s.state.ImageURI = uri
	s.mu.Unlock()

	return uri
}

// Snapshot returns a copy of the current view state.
func (s *Settings) Snapshot() SettingsState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	if state.ImageURI == "" {
		state.ImageURI = s.avatar.Current()
	}
	return state
}
