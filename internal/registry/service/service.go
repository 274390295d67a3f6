// Package service implements the agreement registry: the admission
// protocol for creation, sponsor-only updates, authority configuration,
// and read queries.
//
// All mutating operations are serialized on one mutex so each executes as
// an indivisible unit, matching the single-threaded reference execution
// model. Queries read the store directly and always observe a state where
// the primary records and the name index agree.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	registrymetrics "sponsorreg/internal/registry/metrics"
	"sponsorreg/internal/registry/models"
	dErrors "sponsorreg/pkg/domain-errors"
	audit "sponsorreg/pkg/platform/audit"
	"sponsorreg/pkg/platform/sentinel"
)

// Defaults for the registry-wide singletons. Both are mutable at runtime
// once an authority contract is configured.
const (
	DefaultCreationFee   uint64 = 1000
	DefaultMaxAgreements uint64 = 1000
)

// authorityLatch is the one-way Unset -> Set transition for the authority
// contract. Once set it can never change through registry operations.
type authorityLatch struct {
	set   bool
	value models.Principal
}

// Registry owns all agreement state and the registry-wide singletons.
// Construct one per logical registry; instances are independent.
type Registry struct {
	store    Store
	verifier AuthorityVerifier
	transfer TransferFacility
	clock    HeightSource

	logger  *slog.Logger
	metrics *registrymetrics.Metrics
	auditor audit.Publisher
	tracer  trace.Tracer

	// serializes all mutating operations; guards the singletons below
	mu            sync.Mutex
	authority     authorityLatch
	creationFee   uint64
	maxAgreements uint64
}

// Option configures the Registry.
type Option func(*Registry)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithAuditPublisher sets the audit sink. Emission is best effort.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(r *Registry) { r.auditor = p }
}

// WithCreationFee overrides the default creation fee.
func WithCreationFee(fee uint64) Option {
	return func(r *Registry) { r.creationFee = fee }
}

// WithMaxAgreements overrides the default capacity ceiling.
func WithMaxAgreements(limit uint64) Option {
	return func(r *Registry) { r.maxAgreements = limit }
}

func New(store Store, verifier AuthorityVerifier, transfer TransferFacility, clock HeightSource, opts ...Option) *Registry {
	r := &Registry{
		store:         store,
		verifier:      verifier,
		transfer:      transfer,
		clock:         clock,
		creationFee:   DefaultCreationFee,
		maxAgreements: DefaultMaxAgreements,
		tracer:        otel.Tracer("sponsorreg/registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// SetAuthorityContract latches the fee recipient. It succeeds exactly once:
// a second call always fails, and the burn identity is never accepted.
func (r *Registry) SetAuthorityContract(ctx context.Context, authority models.Principal) error {
	if authority.IsBurn() {
		return dErrors.New(dErrors.CodeBadRequest, "authority contract cannot be the burn address")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.authority.set {
		return dErrors.New(dErrors.CodeConflict, "authority contract is already set")
	}
	r.authority = authorityLatch{set: true, value: authority}

	r.logger.InfoContext(ctx, "authority contract set", "authority", authority.String())
	r.emitAudit(ctx, audit.Event{
		Action: audit.ActionAuthoritySet,
		Actor:  authority.String(),
	})
	return nil
}

// AuthorityContract returns the configured authority, if any.
func (r *Registry) AuthorityContract() (models.Principal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.authority.value, r.authority.set
}

// SetCreationFee changes the fee charged per creation. Requires the
// authority contract to be configured first; the caller identity itself is
// not checked beyond that, matching the reference behavior.
func (r *Registry) SetCreationFee(ctx context.Context, caller models.Principal, fee uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.authority.set {
		return dErrors.New(dErrors.CodeAuthorityNotVerified, "authority contract is not set")
	}
	r.creationFee = fee

	r.logger.InfoContext(ctx, "creation fee changed", "caller", caller.String(), "fee", fee)
	r.emitAudit(ctx, audit.Event{
		Action: audit.ActionCreationFeeChanged,
		Actor:  caller.String(),
		Detail: fmt.Sprintf("fee=%d", fee),
	})
	return nil
}

// SetMaxAgreements changes the capacity ceiling. Same precondition as
// SetCreationFee.
func (r *Registry) SetMaxAgreements(ctx context.Context, caller models.Principal, limit uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.authority.set {
		return dErrors.New(dErrors.CodeAuthorityNotVerified, "authority contract is not set")
	}
	r.maxAgreements = limit

	r.logger.InfoContext(ctx, "max agreements changed", "caller", caller.String(), "limit", limit)
	r.emitAudit(ctx, audit.Event{
		Action: audit.ActionMaxAgreementsChanged,
		Actor:  caller.String(),
		Detail: fmt.Sprintf("limit=%d", limit),
	})
	return nil
}

// CreationFee returns the current per-creation fee.
func (r *Registry) CreationFee() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creationFee
}

// MaxAgreements returns the current capacity ceiling.
func (r *Registry) MaxAgreements() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxAgreements
}

// CreateAgreement runs the admission protocol as one all-or-nothing
// operation: capacity, field validation, caller authorization, name
// uniqueness, authority precondition, fee transfer, then commit. The first
// failing check is reported and nothing is committed; the fee transfer is
// the last step before commit, so a transfer failure leaves the registry
// untouched.
func (r *Registry) CreateAgreement(ctx context.Context, caller models.Principal, in models.CreateInput) (uint64, error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "registry.create_agreement",
		trace.WithAttributes(attribute.String("registry.caller", caller.String())))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.createLocked(ctx, caller, in)
	r.metrics.ObserveCreate(start)
	if err != nil {
		span.RecordError(err)
		r.metrics.IncrementRejected(string(dErrors.GetCode(err)))
		return 0, err
	}

	span.SetAttributes(attribute.Int64("registry.agreement_id", int64(id)))
	r.metrics.IncrementCreated()
	r.logger.InfoContext(ctx, "agreement created",
		"agreement_id", id,
		"sponsor", caller.String(),
		"name", in.Name,
	)
	r.emitAudit(ctx, audit.Event{
		Action:      audit.ActionAgreementCreated,
		Actor:       caller.String(),
		AgreementID: id,
	})
	return id, nil
}

func (r *Registry) createLocked(ctx context.Context, caller models.Principal, in models.CreateInput) (uint64, error) {
	count, err := r.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read agreement count")
	}
	if count >= r.maxAgreements {
		return 0, dErrors.New(dErrors.CodeMaxAgreementsExceeded, "agreement capacity reached")
	}

	if err := in.Validate(); err != nil {
		return 0, err
	}

	authorized, err := r.verifier.IsVerifiedAuthority(ctx, caller)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "authority verification failed")
	}
	if !authorized {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "caller is not authorized to create agreements")
	}

	taken, err := r.store.NameExists(ctx, in.Name)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check agreement name")
	}
	if taken {
		return 0, dErrors.New(dErrors.CodeConflict, "agreement already exists")
	}

	// Checked after uniqueness so a duplicate name is reported even when
	// no authority is configured yet.
	if !r.authority.set {
		return 0, dErrors.New(dErrors.CodeAuthorityNotVerified, "authority contract is not set")
	}

	if err := r.transfer.Transfer(ctx, r.creationFee, caller, r.authority.value); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeTransferFailed, "creation fee transfer failed")
	}
	r.metrics.IncrementFeeTransfers()

	agreement := models.Agreement{
		Name:            in.Name,
		AgreementType:   in.AgreementType,
		Location:        in.Location,
		Currency:        in.Currency,
		SupportAmount:   in.SupportAmount,
		MinSupport:      in.MinSupport,
		MaxObligation:   in.MaxObligation,
		InterestRate:    in.InterestRate,
		PenaltyRate:     in.PenaltyRate,
		MaxDependents:   in.MaxDependents,
		Frequency:       in.Frequency,
		GracePeriod:     in.GracePeriod,
		VotingThreshold: in.VotingThreshold,
		Sponsor:         caller,
		Immigrant:       in.Immigrant,
		Timestamp:       r.clock.CurrentHeight(),
		Status:          true,
	}
	id, err := r.store.Create(ctx, agreement)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return 0, dErrors.New(dErrors.CodeConflict, "agreement already exists")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store agreement")
	}
	return id, nil
}

// UpdateAgreement lets the sponsor change the name, max dependents, and
// support amount of an existing agreement. Lookup and authorship failures
// collapse into one "not permitted" signal; callers cannot distinguish a
// missing agreement from someone else's.
func (r *Registry) UpdateAgreement(ctx context.Context, caller models.Principal, id uint64, name string, maxDependents, supportAmount uint64) error {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "registry.update_agreement",
		trace.WithAttributes(
			attribute.String("registry.caller", caller.String()),
			attribute.Int64("registry.agreement_id", int64(id)),
		))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.updateLocked(ctx, caller, id, name, maxDependents, supportAmount)
	r.metrics.ObserveUpdate(start)
	if err != nil {
		span.RecordError(err)
		return err
	}

	r.metrics.IncrementUpdated()
	r.logger.InfoContext(ctx, "agreement updated",
		"agreement_id", id,
		"updater", caller.String(),
		"name", name,
	)
	r.emitAudit(ctx, audit.Event{
		Action:      audit.ActionAgreementUpdated,
		Actor:       caller.String(),
		AgreementID: id,
	})
	return nil
}

func (r *Registry) updateLocked(ctx context.Context, caller models.Principal, id uint64, name string, maxDependents, supportAmount uint64) error {
	current, err := r.store.Find(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeForbidden, "not permitted")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load agreement")
	}
	if current.Sponsor != caller {
		return dErrors.New(dErrors.CodeForbidden, "not permitted")
	}

	if err := models.ValidateUpdate(name, maxDependents, supportAmount); err != nil {
		return err
	}

	height := r.clock.CurrentHeight()
	replacement := current.ApplyUpdate(name, maxDependents, supportAmount, height)
	slot := models.AgreementUpdate{
		AgreementID:   id,
		Name:          name,
		MaxDependents: maxDependents,
		SupportAmount: supportAmount,
		Timestamp:     height,
		Updater:       caller,
	}
	if err := r.store.Replace(ctx, id, replacement, slot); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return dErrors.New(dErrors.CodeConflict, "agreement already exists")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to replace agreement")
	}
	return nil
}

// GetAgreement returns the agreement with the given id.
func (r *Registry) GetAgreement(ctx context.Context, id uint64) (*models.Agreement, error) {
	agreement, err := r.store.Find(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "agreement not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load agreement")
	}
	return agreement, nil
}

// GetAgreementUpdates returns the latest update slot for an agreement.
func (r *Registry) GetAgreementUpdates(ctx context.Context, id uint64) (*models.AgreementUpdate, error) {
	update, err := r.store.FindUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "agreement updates not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load agreement updates")
	}
	return update, nil
}

// GetAgreementCount returns the id allocator value, which equals the number
// of agreements ever admitted.
func (r *Registry) GetAgreementCount(ctx context.Context) (uint64, error) {
	count, err := r.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read agreement count")
	}
	return count, nil
}

// CheckAgreementExistence reports whether any agreement holds the name.
func (r *Registry) CheckAgreementExistence(ctx context.Context, name string) (bool, error) {
	exists, err := r.store.NameExists(ctx, name)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check agreement name")
	}
	return exists, nil
}

// IsAgreementRegistered is an alias of CheckAgreementExistence kept for
// callers that phrase the question as registration.
func (r *Registry) IsAgreementRegistered(ctx context.Context, name string) (bool, error) {
	return r.CheckAgreementExistence(ctx, name)
}

func (r *Registry) emitAudit(ctx context.Context, event audit.Event) {
	if r.auditor == nil {
		return
	}
	stamped := audit.NewEvent(event.Action, event.Actor)
	stamped.AgreementID = event.AgreementID
	stamped.Height = r.clock.CurrentHeight()
	stamped.Detail = event.Detail
	if err := r.auditor.Emit(ctx, stamped); err != nil {
		r.logger.WarnContext(ctx, "audit emission failed", "action", event.Action, "error", err)
	}
}
