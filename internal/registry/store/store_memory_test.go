package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"sponsorreg/internal/registry/models"
	"sponsorreg/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) newAgreement(name string) models.Agreement {
	return models.Agreement{
		Name:            name,
		AgreementType:   models.AgreementTypeFamily,
		Location:        "VillageX",
		Currency:        models.CurrencySTX,
		SupportAmount:   100,
		MinSupport:      50,
		MaxObligation:   1000,
		InterestRate:    10,
		PenaltyRate:     5,
		MaxDependents:   10,
		Frequency:       30,
		GracePeriod:     7,
		VotingThreshold: 50,
		Sponsor:         models.Principal("SP_SPONSOR"),
		Immigrant:       models.Principal("SP_IMMIGRANT"),
		Timestamp:       1,
		Status:          true,
	}
}

func (s *InMemoryStoreSuite) TestCreateAllocatesContiguousIDs() {
	id0, err := s.store.Create(s.ctx, s.newAgreement("Alpha"))
	s.Require().NoError(err)
	s.Equal(uint64(0), id0)

	id1, err := s.store.Create(s.ctx, s.newAgreement("Beta"))
	s.Require().NoError(err)
	s.Equal(uint64(1), id1)

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(2), count)
}

func (s *InMemoryStoreSuite) TestNameUniqueness() {
	s.Run("rejects duplicate name", func() {
		_, err := s.store.Create(s.ctx, s.newAgreement("Dup"))
		s.Require().NoError(err)

		_, err = s.store.Create(s.ctx, s.newAgreement("Dup"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("failed create does not advance the allocator", func() {
		before, err := s.store.Count(s.ctx)
		s.Require().NoError(err)

		_, err = s.store.Create(s.ctx, s.newAgreement("Dup"))
		s.Require().Error(err)

		after, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(before, after)
	})

	s.Run("names are case-sensitive", func() {
		_, err := s.store.Create(s.ctx, s.newAgreement("dup"))
		s.Require().NoError(err)
	})
}

func (s *InMemoryStoreSuite) TestLookups() {
	id, err := s.store.Create(s.ctx, s.newAgreement("Alpha"))
	s.Require().NoError(err)

	s.Run("finds stored agreement", func() {
		found, err := s.store.Find(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("Alpha", found.Name)
		s.Equal(id, found.ID)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.Find(s.ctx, 42)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("reports name presence", func() {
		exists, err := s.store.NameExists(s.ctx, "Alpha")
		s.Require().NoError(err)
		s.True(exists)

		exists, err = s.store.NameExists(s.ctx, "Missing")
		s.Require().NoError(err)
		s.False(exists)
	})

	s.Run("no update slot before first update", func() {
		_, err := s.store.FindUpdate(s.ctx, id)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestReplace() {
	id, err := s.store.Create(s.ctx, s.newAgreement("Alpha"))
	s.Require().NoError(err)
	_, err = s.store.Create(s.ctx, s.newAgreement("Taken"))
	s.Require().NoError(err)

	s.Run("rename reconciles the name index", func() {
		replacement := s.newAgreement("Beta")
		update := models.AgreementUpdate{
			AgreementID:   id,
			Name:          "Beta",
			MaxDependents: 10,
			SupportAmount: 100,
			Timestamp:     5,
			Updater:       models.Principal("SP_SPONSOR"),
		}
		s.Require().NoError(s.store.Replace(s.ctx, id, replacement, update))

		exists, err := s.store.NameExists(s.ctx, "Alpha")
		s.Require().NoError(err)
		s.False(exists)

		exists, err = s.store.NameExists(s.ctx, "Beta")
		s.Require().NoError(err)
		s.True(exists)

		found, err := s.store.Find(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("Beta", found.Name)

		slot, err := s.store.FindUpdate(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("Beta", slot.Name)
		s.Equal(models.Principal("SP_SPONSOR"), slot.Updater)
	})

	s.Run("no-op rename proceeds", func() {
		replacement := s.newAgreement("Beta")
		err := s.store.Replace(s.ctx, id, replacement, models.AgreementUpdate{AgreementID: id, Name: "Beta"})
		s.Require().NoError(err)
	})

	s.Run("rename onto another agreement's name is rejected", func() {
		replacement := s.newAgreement("Taken")
		err := s.store.Replace(s.ctx, id, replacement, models.AgreementUpdate{AgreementID: id, Name: "Taken"})
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

		// Rejected rename leaves the index untouched.
		found, err := s.store.Find(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("Beta", found.Name)
	})

	s.Run("replace of unknown id is rejected", func() {
		err := s.store.Replace(s.ctx, 42, s.newAgreement("Ghost"), models.AgreementUpdate{})
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("update slot is overwritten, not appended", func() {
		err := s.store.Replace(s.ctx, id, s.newAgreement("Gamma"), models.AgreementUpdate{
			AgreementID: id, Name: "Gamma", Timestamp: 9, Updater: models.Principal("SP_SPONSOR"),
		})
		s.Require().NoError(err)

		slot, err := s.store.FindUpdate(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("Gamma", slot.Name)
		s.Equal(uint64(9), slot.Timestamp)
	})

	s.Run("replace never advances the allocator", func() {
		count, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(2), count)
	})
}
