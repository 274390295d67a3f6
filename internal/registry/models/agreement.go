package models

// Principal identifies a party on the chain (sponsor, immigrant, authority
// contract, fee payer). It is an opaque address string; the registry never
// parses it beyond the burn-address check.
type Principal string

// BurnPrincipal is the null/burn identity. It can never be configured as the
// authority contract and never receives fees.
const BurnPrincipal Principal = "SP000000000000000000002Q6VF78"

func (p Principal) String() string {
	return string(p)
}

// IsBurn reports whether the principal is the reserved burn identity.
func (p Principal) IsBurn() bool {
	return p == BurnPrincipal
}

// AgreementType is a domain value classifying the sponsorship relationship.
//
// Usage: construct via ParseAgreementType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type AgreementType string

const (
	AgreementTypeFamily     AgreementType = "family"
	AgreementTypeEmployment AgreementType = "employment"
	AgreementTypeCommunity  AgreementType = "community"
)

// validAgreementTypes is the single source of truth for valid types.
var validAgreementTypes = map[AgreementType]bool{
	AgreementTypeFamily:     true,
	AgreementTypeEmployment: true,
	AgreementTypeCommunity:  true,
}

// IsValid checks if the type is one of the supported enum values.
func (t AgreementType) IsValid() bool {
	return validAgreementTypes[t]
}

func (t AgreementType) String() string {
	return string(t)
}

// Currency is the denomination of the agreement's financial terms.
type Currency string

const (
	CurrencySTX Currency = "STX"
	CurrencyUSD Currency = "USD"
	CurrencyBTC Currency = "BTC"
)

var validCurrencies = map[Currency]bool{
	CurrencySTX: true,
	CurrencyUSD: true,
	CurrencyBTC: true,
}

// IsValid checks if the currency is one of the supported enum values.
func (c Currency) IsValid() bool {
	return validCurrencies[c]
}

func (c Currency) String() string {
	return string(c)
}

// Agreement is the aggregate root for one admitted sponsorship.
//
// Invariants:
//   - ID is allocator-assigned, immutable, and unique
//   - Name is 1-100 characters and unique across all current agreements
//   - Sponsor and Immigrant are immutable after creation
//   - only Name, MaxDependents, SupportAmount, and Timestamp may change via
//     the update operation; every other field is fixed at admission
//
// Records are replaced wholesale on update, never mutated field-by-field, so
// the store's name-index bijection can be checked against complete records.
type Agreement struct {
	ID              uint64        `json:"id"`
	Name            string        `json:"name"`
	AgreementType   AgreementType `json:"agreement_type"`
	Location        string        `json:"location"`
	Currency        Currency      `json:"currency"`
	SupportAmount   uint64        `json:"support_amount"`
	MinSupport      uint64        `json:"min_support"`
	MaxObligation   uint64        `json:"max_obligation"`
	InterestRate    uint64        `json:"interest_rate"`
	PenaltyRate     uint64        `json:"penalty_rate"`
	MaxDependents   uint64        `json:"max_dependents"`
	Frequency       uint64        `json:"frequency"`
	GracePeriod     uint64        `json:"grace_period"`
	VotingThreshold uint64        `json:"voting_threshold"`
	Sponsor         Principal     `json:"sponsor"`
	Immigrant       Principal     `json:"immigrant"`
	Timestamp       uint64        `json:"timestamp"`
	Status          bool          `json:"status"`
}

// ApplyUpdate returns a copy of the agreement with the updatable subset
// replaced and every immutable field carried forward. Timestamp is set to
// the height of the update.
func (a Agreement) ApplyUpdate(name string, maxDependents, supportAmount, height uint64) Agreement {
	updated := a
	updated.Name = name
	updated.MaxDependents = maxDependents
	updated.SupportAmount = supportAmount
	updated.Timestamp = height
	return updated
}

// AgreementUpdate is the single update-audit slot kept per agreement id.
// Each successful update overwrites it; it is not a history list.
type AgreementUpdate struct {
	AgreementID   uint64    `json:"agreement_id"`
	Name          string    `json:"update_name"`
	MaxDependents uint64    `json:"update_max_dependents"`
	SupportAmount uint64    `json:"update_support_amount"`
	Timestamp     uint64    `json:"update_timestamp"`
	Updater       Principal `json:"updater"`
}
