package service

import (
	"context"

	"sponsorreg/internal/registry/models"
)

//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks

// Store is the dual agreement store: primary records, name index, and
// per-agreement update slots behind whole-record operations.
type Store interface {
	Create(ctx context.Context, agreement models.Agreement) (uint64, error)
	Replace(ctx context.Context, id uint64, agreement models.Agreement, update models.AgreementUpdate) error
	Find(ctx context.Context, id uint64) (*models.Agreement, error)
	FindUpdate(ctx context.Context, id uint64) (*models.AgreementUpdate, error)
	Count(ctx context.Context) (uint64, error)
	NameExists(ctx context.Context, name string) (bool, error)
}

// AuthorityVerifier answers whether a principal is authorized to create
// agreements. The registry holds no allow-list of its own.
type AuthorityVerifier interface {
	IsVerifiedAuthority(ctx context.Context, principal models.Principal) (bool, error)
}

// TransferFacility moves the creation fee from the caller to the authority
// contract. A failed transfer must leave both parties untouched.
type TransferFacility interface {
	Transfer(ctx context.Context, amount uint64, from, to models.Principal) error
}

// HeightSource reports the current block height, monotonically
// non-decreasing. Heights are recorded verbatim as timestamps.
type HeightSource interface {
	CurrentHeight() uint64
}
