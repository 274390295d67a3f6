package models

import (
	dErrors "sponsorreg/pkg/domain-errors"
)

// Field range bounds for agreement admission. Rates and periods are
// expressed in whole units (percent, blocks) so all bounds are integral.
const (
	NameMaxLen         = 100
	LocationMaxLen     = 100
	MaxDependentsFloor = 1
	MaxDependentsCeil  = 50
	VotingThresholdMin = 1
	VotingThresholdMax = 100
	InterestRateCeil   = 20
	PenaltyRateCeil    = 100
	GracePeriodCeil    = 30
)

// CreateInput carries the caller-supplied fields of a creation request. The
// sponsor is the calling principal and is not part of the input.
type CreateInput struct {
	Name            string        `json:"name"`
	MaxDependents   uint64        `json:"max_dependents"`
	SupportAmount   uint64        `json:"support_amount"`
	Frequency       uint64        `json:"frequency"`
	PenaltyRate     uint64        `json:"penalty_rate"`
	VotingThreshold uint64        `json:"voting_threshold"`
	AgreementType   AgreementType `json:"agreement_type"`
	InterestRate    uint64        `json:"interest_rate"`
	GracePeriod     uint64        `json:"grace_period"`
	Location        string        `json:"location"`
	Currency        Currency      `json:"currency"`
	MinSupport      uint64        `json:"min_support"`
	MaxObligation   uint64        `json:"max_obligation"`
	Immigrant       Principal     `json:"immigrant"`
}

// One predicate per field. Each returns nil or a validation error tagged
// with the field it checked, so the admission protocol can surface exactly
// one failure.

func ValidateName(name string) error {
	if len(name) < 1 || len(name) > NameMaxLen {
		return dErrors.NewField(dErrors.CodeValidation, "name", "name must be between 1 and 100 characters")
	}
	return nil
}

func ValidateMaxDependents(n uint64) error {
	if n < MaxDependentsFloor || n > MaxDependentsCeil {
		return dErrors.NewField(dErrors.CodeValidation, "maxDependents", "maxDependents must be between 1 and 50")
	}
	return nil
}

func ValidateSupportAmount(amount uint64) error {
	if amount == 0 {
		return dErrors.NewField(dErrors.CodeValidation, "supportAmount", "supportAmount must be greater than zero")
	}
	return nil
}

func ValidateFrequency(frequency uint64) error {
	if frequency == 0 {
		return dErrors.NewField(dErrors.CodeValidation, "frequency", "frequency must be greater than zero")
	}
	return nil
}

func ValidatePenaltyRate(rate uint64) error {
	if rate > PenaltyRateCeil {
		return dErrors.NewField(dErrors.CodeValidation, "penaltyRate", "penaltyRate must not exceed 100")
	}
	return nil
}

func ValidateVotingThreshold(threshold uint64) error {
	if threshold < VotingThresholdMin || threshold > VotingThresholdMax {
		return dErrors.NewField(dErrors.CodeValidation, "votingThreshold", "votingThreshold must be between 1 and 100")
	}
	return nil
}

func ValidateAgreementType(t AgreementType) error {
	if !t.IsValid() {
		return dErrors.NewField(dErrors.CodeValidation, "agreementType", "agreementType must be family, employment, or community")
	}
	return nil
}

func ValidateInterestRate(rate uint64) error {
	if rate > InterestRateCeil {
		return dErrors.NewField(dErrors.CodeValidation, "interestRate", "interestRate must not exceed 20")
	}
	return nil
}

func ValidateGracePeriod(period uint64) error {
	if period > GracePeriodCeil {
		return dErrors.NewField(dErrors.CodeValidation, "gracePeriod", "gracePeriod must not exceed 30")
	}
	return nil
}

func ValidateLocation(location string) error {
	if len(location) < 1 || len(location) > LocationMaxLen {
		return dErrors.NewField(dErrors.CodeValidation, "location", "location must be between 1 and 100 characters")
	}
	return nil
}

func ValidateCurrency(c Currency) error {
	if !c.IsValid() {
		return dErrors.NewField(dErrors.CodeValidation, "currency", "currency must be STX, USD, or BTC")
	}
	return nil
}

func ValidateMinSupport(amount uint64) error {
	if amount == 0 {
		return dErrors.NewField(dErrors.CodeValidation, "minSupport", "minSupport must be greater than zero")
	}
	return nil
}

func ValidateMaxObligation(amount uint64) error {
	if amount == 0 {
		return dErrors.NewField(dErrors.CodeValidation, "maxObligation", "maxObligation must be greater than zero")
	}
	return nil
}

// Validate runs every field predicate in admission order and returns the
// first failure. The order decides which single error is reported when
// several fields are invalid.
//
// Fields are checked independently: no cross-field relationship (such as
// MinSupport vs MaxObligation) is enforced.
func (in CreateInput) Validate() error {
	checks := []func() error{
		func() error { return ValidateName(in.Name) },
		func() error { return ValidateMaxDependents(in.MaxDependents) },
		func() error { return ValidateSupportAmount(in.SupportAmount) },
		func() error { return ValidateFrequency(in.Frequency) },
		func() error { return ValidatePenaltyRate(in.PenaltyRate) },
		func() error { return ValidateVotingThreshold(in.VotingThreshold) },
		func() error { return ValidateAgreementType(in.AgreementType) },
		func() error { return ValidateInterestRate(in.InterestRate) },
		func() error { return ValidateGracePeriod(in.GracePeriod) },
		func() error { return ValidateLocation(in.Location) },
		func() error { return ValidateCurrency(in.Currency) },
		func() error { return ValidateMinSupport(in.MinSupport) },
		func() error { return ValidateMaxObligation(in.MaxObligation) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUpdate checks the subset of fields an update may change, using
// the same rules as admission. Other fields are not revisited.
func ValidateUpdate(name string, maxDependents, supportAmount uint64) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateMaxDependents(maxDependents); err != nil {
		return err
	}
	return ValidateSupportAmount(supportAmount)
}
