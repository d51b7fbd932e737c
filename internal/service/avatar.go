package service

import (
	"context"
	"sync"

	"github.com/rafisgodoy/unibus-core-go/internal/domain"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/observability"
	"github.com/rafisgodoy/unibus-core-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var avatarTracer = otel.Tracer("service/avatar")

// pickOptions mirrors the mobile app's picker configuration: images only,
// editing with a 4:3 crop, maximum quality.
var pickOptions = port.PickOptions{
	MediaType:     "images",
	AllowsEditing: true,
	Aspect:        [2]int{4, 3},
	Quality:       1,
}

// Avatar runs the profile picture pipeline: permission, pick, multipart
// upload, persist. The in-memory reference only moves forward on a fully
// successful upload; every abort or failure leaves it unchanged.
type Avatar struct {
	mu      sync.Mutex
	current string

	store    port.KeyValueStore
	gate     port.PermissionGate
	picker   port.ImagePicker
	uploader port.ImageUploader
	alerter  port.Alerter
	notifier *Notifier
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewAvatar creates the avatar pipeline with all dependencies injected.
func NewAvatar(
	store port.KeyValueStore,
	gate port.PermissionGate,
	picker port.ImagePicker,
	uploader port.ImageUploader,
	alerter port.Alerter,
	notifier *Notifier,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Avatar {
	return &Avatar{
		store:    store,
		gate:     gate,
		picker:   picker,
		uploader: uploader,
		alerter:  alerter,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Current resolves the profile image reference: the persisted upload URL
// when one exists, the bundled placeholder otherwise.
func (a *Avatar) Current() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != "" {
		return a.current
	}
	if url, ok := a.store.Get(domain.StoreKeyProfileImage); ok && url != "" {
		a.current = url
		return url
	}
	return domain.DefaultProfileImageURI
}

// ChangeImage walks the full pipeline and returns the image reference in
// effect afterwards. Permission is requested on every call.
func (a *Avatar) ChangeImage(ctx context.Context) string {
	ctx, span := avatarTracer.Start(ctx, "Avatar.ChangeImage")
	defer span.End()

	granted, err := a.gate.RequestMediaLibrary(ctx)
	if err != nil {
		a.logger.Error("avatar: permission request failed", zap.Error(err))
		return a.Current()
	}
	if !granted {
		a.logger.Warn("avatar: media library permission denied")
		a.alerter.Alert(domain.MsgPermissionDenied)
		return a.Current()
	}

	picked, err := a.picker.Pick(ctx, pickOptions)
	if err != nil {
		a.logger.Error("avatar: picker failed", zap.Error(err))
		a.notifier.Notify(domain.MsgUploadError, domain.SeverityError)
		return a.Current()
	}
	if picked.Cancelled {
		a.logger.Debug("avatar: selection cancelled")
		return a.Current()
	}

	// The original app reads the token right before posting; an absent or
	// stale token simply fails the upload and takes the error path.
	token, _ := a.store.Get(domain.StoreKeyToken)

	url, err := a.uploader.UploadProfileImage(ctx, token, picked.URI)
	if err != nil {
		a.logger.Error("avatar: upload failed", zap.Error(err))
		a.metrics.IncrUpload("failed")
		a.notifier.Notify(domain.MsgUploadError, domain.SeverityError)
		return a.Current()
	}

	if err := a.store.Set(domain.StoreKeyProfileImage, url); err != nil {
		// The upload itself succeeded; keep the in-memory reference and
		// accept that it won't survive a restart.
		a.logger.Error("avatar: persist image url failed", zap.Error(err))
	}

	a.mu.Lock()
	a.current = url
	a.mu.Unlock()

	a.metrics.IncrUpload("ok")
	a.logger.Info("avatar: profile image updated", zap.String("url", url))
	return url
}
