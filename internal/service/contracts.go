package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rafisgodoy/unibus-core-go/internal/domain"
	"github.com/rafisgodoy/unibus-core-go/internal/format"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/observability"
	"github.com/rafisgodoy/unibus-core-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var contractsTracer = otel.Tracer("service/contracts")

// ContractsState is the contracts screen's view state: the user summary
// header plus the contracted company, or an informational message when no
// contract is active.
type ContractsState struct {
	UserName  string
	UserCPF   string
	UserPhone string
	UserEmail string
	Company   *domain.ContractCompany
	Message   string
}

// Contracts drives the contracts screen. Profile and contract are fetched
// concurrently and complete independently; neither blocks the other's state
// update.
type Contracts struct {
	mu    sync.Mutex
	state ContractsState

	store     port.KeyValueStore
	profiles  port.ProfileFetcher
	contracts port.ContractFetcher
	notifier  *Notifier
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewContracts creates the contracts screen service.
func NewContracts(
	store port.KeyValueStore,
	profiles port.ProfileFetcher,
	contracts port.ContractFetcher,
	notifier *Notifier,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Contracts {
	return &Contracts{
		store:     store,
		profiles:  profiles,
		contracts: contracts,
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger,
		state:     ContractsState{Message: domain.MsgNoActiveContract},
	}
}

// Refresh reloads the screen. Re-invocation overwrites state wholesale;
// without a stored token it is a silent no-op.
func (c *Contracts) Refresh(ctx context.Context) {
	ctx, span := contractsTracer.Start(ctx, "Contracts.Refresh")
	defer span.End()

	start := time.Now()
	defer func() {
		c.metrics.RecordRequestDuration("contracts_refresh", time.Since(start))
	}()

	token, ok := c.store.Get(domain.StoreKeyToken)
	if !ok || token == "" {
		c.logger.Debug("contracts: no stored token, skipping fetch")
		return
	}

	// No shared cancellation: a profile failure must not abort the contract
	// fetch, and vice versa.
	var g errgroup.Group

	g.Go(func() error {
		profile, err := c.profiles.GetClient(ctx, token)
		if err != nil {
			c.logger.Error("contracts: profile fetch failed", zap.Error(err))
			c.metrics.IncrExternalError("unibus-api")
			c.notifier.Notify(domain.MsgContractError, domain.SeverityError)
			return err
		}

		c.mu.Lock()
		c.state.UserName = profile.Name
		c.state.UserCPF = profile.CPF
		c.state.UserPhone = format.Phone(profile.Phone)
		c.state.UserEmail = profile.Email
		c.mu.Unlock()
		return nil
	})

	g.Go(func() error {
		company, err := c.contracts.GetContract(ctx, token)
		if err != nil {
			c.logger.Error("contracts: contract fetch failed", zap.Error(err))
			c.metrics.IncrExternalError("unibus-api")
			c.notifier.Notify(contractFailureMessage(err), domain.SeverityError)
			return err
		}

		c.mu.Lock()
		if company == nil {
			c.state.Company = nil
			c.state.Message = domain.MsgNoContractFound
		} else {
			c.state.Company = company
			c.state.Message = ""
		}
		c.mu.Unlock()
		return nil
	})

	// Failures were already mapped to notifications above; Wait only
	// ensures both fetches finished before the refresh returns.
	_ = g.Wait()
}

// Snapshot returns a copy of the current view state.
func (c *Contracts) Snapshot() ContractsState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.state
	if c.state.Company != nil {
		company := *c.state.Company
		state.Company = &company
	}
	return state
}

// contractFailureMessage maps a contract fetch error to the user-facing
// toast text. A 500 means the backend has no contract provisioned for the
// user, which gets the actionable "hire a service" message.
func contractFailureMessage(err error) string {
	var upstream *domain.ErrUpstreamStatus
	if errors.As(err, &upstream) && upstream.Status == http.StatusInternalServerError {
		return domain.MsgHireService
	}
	return domain.MsgContractError
}
