package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyUpdatePreservesImmutableFields(t *testing.T) {
	original := Agreement{
		ID:              3,
		Name:            "Alpha",
		AgreementType:   AgreementTypeFamily,
		Location:        "VillageX",
		Currency:        CurrencySTX,
		SupportAmount:   100,
		MinSupport:      50,
		MaxObligation:   1000,
		InterestRate:    10,
		PenaltyRate:     5,
		MaxDependents:   10,
		Frequency:       30,
		GracePeriod:     7,
		VotingThreshold: 50,
		Sponsor:         Principal("SP_SPONSOR"),
		Immigrant:       Principal("SP_IMMIGRANT"),
		Timestamp:       12,
		Status:          true,
	}

	updated := original.ApplyUpdate("Beta", 20, 250, 99)

	assert.Equal(t, "Beta", updated.Name)
	assert.Equal(t, uint64(20), updated.MaxDependents)
	assert.Equal(t, uint64(250), updated.SupportAmount)
	assert.Equal(t, uint64(99), updated.Timestamp)

	// Everything else carries forward untouched.
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.AgreementType, updated.AgreementType)
	assert.Equal(t, original.Location, updated.Location)
	assert.Equal(t, original.Currency, updated.Currency)
	assert.Equal(t, original.MinSupport, updated.MinSupport)
	assert.Equal(t, original.MaxObligation, updated.MaxObligation)
	assert.Equal(t, original.InterestRate, updated.InterestRate)
	assert.Equal(t, original.PenaltyRate, updated.PenaltyRate)
	assert.Equal(t, original.Frequency, updated.Frequency)
	assert.Equal(t, original.GracePeriod, updated.GracePeriod)
	assert.Equal(t, original.VotingThreshold, updated.VotingThreshold)
	assert.Equal(t, original.Sponsor, updated.Sponsor)
	assert.Equal(t, original.Immigrant, updated.Immigrant)
	assert.Equal(t, original.Status, updated.Status)

	// The receiver is a value; the original is untouched.
	assert.Equal(t, "Alpha", original.Name)
}

func TestBurnPrincipal(t *testing.T) {
	assert.True(t, BurnPrincipal.IsBurn())
	assert.False(t, Principal("SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7").IsBurn())
}
