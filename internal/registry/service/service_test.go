package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"sponsorreg/internal/authority"
	"sponsorreg/internal/chain"
	"sponsorreg/internal/ledger"
	"sponsorreg/internal/registry/models"
	"sponsorreg/internal/registry/service"
	"sponsorreg/internal/registry/store"
	dErrors "sponsorreg/pkg/domain-errors"
)

const (
	sponsor   = models.Principal("SP_SPONSOR")
	immigrant = models.Principal("SP_IMMIGRANT")
	authorityContract = models.Principal("SP_AUTHORITY")
	stranger  = models.Principal("SP_STRANGER")
)

// RegistrySuite exercises the registry against real in-memory
// collaborators so scenario assertions can inspect recorded transfers and
// store state directly.
type RegistrySuite struct {
	suite.Suite
	ctx      context.Context
	store    *store.InMemory
	verifier *authority.Static
	ledger   *ledger.InMemory
	clock    *chain.Manual
	registry *service.Registry
}

func (s *RegistrySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
	s.verifier = authority.NewStatic(sponsor)
	s.ledger = ledger.NewInMemory()
	s.clock = chain.NewManual(12)
	s.registry = service.New(s.store, s.verifier, s.ledger, s.clock)

	s.ledger.Credit(sponsor, 10_000)
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) setAuthority() {
	s.Require().NoError(s.registry.SetAuthorityContract(s.ctx, authorityContract))
}

func (s *RegistrySuite) validInput() models.CreateInput {
	return models.CreateInput{
		Name:            "Alpha",
		MaxDependents:   10,
		SupportAmount:   100,
		Frequency:       30,
		PenaltyRate:     5,
		VotingThreshold: 50,
		AgreementType:   models.AgreementTypeFamily,
		InterestRate:    10,
		GracePeriod:     7,
		Location:        "VillageX",
		Currency:        models.CurrencySTX,
		MinSupport:      50,
		MaxObligation:   1000,
		Immigrant:       immigrant,
	}
}

func (s *RegistrySuite) TestCreateAgreement() {
	s.setAuthority()

	id, err := s.registry.CreateAgreement(s.ctx, sponsor, s.validInput())
	s.Require().NoError(err)
	s.Equal(uint64(0), id)

	s.Run("fee transfer is recorded", func() {
		s.Equal([]ledger.Transfer{
			{Amount: service.DefaultCreationFee, From: sponsor, To: authorityContract},
		}, s.ledger.Transfers())
	})

	s.Run("stored record reflects all fields", func() {
		got, err := s.registry.GetAgreement(s.ctx, 0)
		s.Require().NoError(err)
		s.Equal(models.Agreement{
			ID:              0,
			Name:            "Alpha",
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
			Sponsor:         sponsor,
			Immigrant:       immigrant,
			Timestamp:       12,
			Status:          true,
		}, *got)
	})

	s.Run("count and existence reflect the admission", func() {
		count, err := s.registry.GetAgreementCount(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(1), count)

		exists, err := s.registry.CheckAgreementExistence(s.ctx, "Alpha")
		s.Require().NoError(err)
		s.True(exists)

		registered, err := s.registry.IsAgreementRegistered(s.ctx, "Alpha")
		s.Require().NoError(err)
		s.True(registered)
	})

	s.Run("ids are contiguous across creations", func() {
		in := s.validInput()
		in.Name = "Beta"
		id, err := s.registry.CreateAgreement(s.ctx, sponsor, in)
		s.Require().NoError(err)
		s.Equal(uint64(1), id)
	})
}

func (s *RegistrySuite) TestDuplicateNameRejected() {
	s.setAuthority()

	_, err := s.registry.CreateAgreement(s.ctx, sponsor, s.validInput())
	s.Require().NoError(err)

	_, err = s.registry.CreateAgreement(s.ctx, sponsor, s.validInput())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	s.Run("no second transfer recorded", func() {
		s.Len(s.ledger.Transfers(), 1)
	})

	s.Run("allocator unaffected by the failure", func() {
		count, err := s.registry.GetAgreementCount(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(1), count)
	})
}

func (s *RegistrySuite) TestCreateWithoutAuthorityFails() {
	_, err := s.registry.CreateAgreement(s.ctx, sponsor, s.validInput())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAuthorityNotVerified))

	s.Empty(s.ledger.Transfers())

	count, err := s.registry.GetAgreementCount(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *RegistrySuite) TestDuplicateReportedBeforeMissingAuthority() {
	// Admit one agreement, then clear the authority by using a fresh
	// registry sharing the same store: a duplicate name must be reported
	// even though no authority is configured on the new instance.
	s.setAuthority()
	_, err := s.registry.CreateAgreement(s.ctx, sponsor, s.validInput())
	s.Require().NoError(err)

	fresh := service.New(s.store, s.verifier, s.ledger, s.clock)
	_, err = fresh.CreateAgreement(s.ctx, sponsor, s.validInput())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.False(dErrors.HasCode(err, dErrors.CodeAuthorityNotVerified))
}

func (s *RegistrySuite) TestInvalidFieldRejected() {
	s.setAuthority()

	in := s.validInput()
	in.MaxDependents = 51
	_, err := s.registry.CreateAgreement(s.ctx, sponsor, in)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal("maxDependents", dErrors.FieldName(err))

	s.Empty(s.ledger.Transfers(), "no transfer for a rejected creation")
}

func (s *RegistrySuite) TestUnverifiedCallerRejected() {
	s.setAuthority()

	_, err := s.registry.CreateAgreement(s.ctx, stranger, s.validInput())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Empty(s.ledger.Transfers())
}

func (s *RegistrySuite) TestCapacityCeiling() {
	s.setAuthority()

	limited := service.New(s.store, s.verifier, s.ledger, s.clock, service.WithMaxAgreements(1))
	s.Require().NoError(limited.SetAuthorityContract(s.ctx, authorityContract))

	_, err := limited.CreateAgreement(s.ctx, sponsor, s.validInput())
	s.Require().NoError(err)

	in := s.validInput()
	in.Name = "Beta"
	_, err = limited.CreateAgreement(s.ctx, sponsor, in)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeMaxAgreementsExceeded))
}

func (s *RegistrySuite) TestTransferFailureCommitsNothing() {
	s.setAuthority()

	broke := models.Principal("SP_BROKE")
	s.verifier.Add(broke)

	_, err := s.registry.CreateAgreement(s.ctx, broke, s.validInput())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTransferFailed))

	s.Empty(s.ledger.Transfers())

	count, err := s.registry.GetAgreementCount(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)

	exists, err := s.registry.CheckAgreementExistence(s.ctx, "Alpha")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *RegistrySuite) TestAuthorityLatch() {
	s.Run("burn address is never a valid authority", func() {
		err := s.registry.SetAuthorityContract(s.ctx, models.BurnPrincipal)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("latches exactly once", func() {
		s.Require().NoError(s.registry.SetAuthorityContract(s.ctx, authorityContract))

		got, set := s.registry.AuthorityContract()
		s.True(set)
		s.Equal(authorityContract, got)

		err := s.registry.SetAuthorityContract(s.ctx, models.Principal("SP_OTHER"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		// Re-invoking with the same value also fails: a latch, not an upsert.
		err = s.registry.SetAuthorityContract(s.ctx, authorityContract)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *RegistrySuite) TestSettersRequireAuthority() {
	s.Run("fail while authority unset", func() {
		err := s.registry.SetCreationFee(s.ctx, sponsor, 500)
		s.True(dErrors.HasCode(err, dErrors.CodeAuthorityNotVerified))

		err = s.registry.SetMaxAgreements(s.ctx, sponsor, 10)
		s.True(dErrors.HasCode(err, dErrors.CodeAuthorityNotVerified))
	})

	s.Run("succeed once authority is set, for any caller", func() {
		s.setAuthority()

		s.Require().NoError(s.registry.SetCreationFee(s.ctx, stranger, 500))
		s.Equal(uint64(500), s.registry.CreationFee())

		s.Require().NoError(s.registry.SetMaxAgreements(s.ctx, stranger, 10))
		s.Equal(uint64(10), s.registry.MaxAgreements())
	})

	s.Run("changed fee is the amount charged", func() {
		_, err := s.registry.CreateAgreement(s.ctx, sponsor, s.validInput())
		s.Require().NoError(err)
		s.Equal([]ledger.Transfer{
			{Amount: 500, From: sponsor, To: authorityContract},
		}, s.ledger.Transfers())
	})
}

func (s *RegistrySuite) TestUpdateAgreement() {
	s.setAuthority()
	id, err := s.registry.CreateAgreement(s.ctx, sponsor, s.validInput())
	s.Require().NoError(err)

	s.Run("non-sponsor caller is not permitted", func() {
		err := s.registry.UpdateAgreement(s.ctx, stranger, id, "Hijack", 5, 200)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

		got, err := s.registry.GetAgreement(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("Alpha", got.Name)
	})

	s.Run("unknown id fails with the same coarse signal", func() {
		err := s.registry.UpdateAgreement(s.ctx, sponsor, 42, "Ghost", 5, 200)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("invalid update field is rejected", func() {
		err := s.registry.UpdateAgreement(s.ctx, sponsor, id, "Beta", 0, 200)
		s.Require().Error(err)
		s.Equal("maxDependents", dErrors.FieldName(err))
	})

	s.Run("rename reconciles the name index and fills the update slot", func() {
		s.clock.Advance(3) // height 15

		s.Require().NoError(s.registry.UpdateAgreement(s.ctx, sponsor, id, "Beta", 20, 250))

		exists, err := s.registry.CheckAgreementExistence(s.ctx, "Alpha")
		s.Require().NoError(err)
		s.False(exists)

		exists, err = s.registry.CheckAgreementExistence(s.ctx, "Beta")
		s.Require().NoError(err)
		s.True(exists)

		got, err := s.registry.GetAgreement(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("Beta", got.Name)
		s.Equal(uint64(20), got.MaxDependents)
		s.Equal(uint64(250), got.SupportAmount)
		s.Equal(uint64(15), got.Timestamp)
		s.Equal(sponsor, got.Sponsor)
		s.Equal(immigrant, got.Immigrant)

		slot, err := s.registry.GetAgreementUpdates(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(&models.AgreementUpdate{
			AgreementID:   id,
			Name:          "Beta",
			MaxDependents: 20,
			SupportAmount: 250,
			Timestamp:     15,
			Updater:       sponsor,
		}, slot)
	})

	s.Run("rename onto another agreement's name is a conflict", func() {
		in := s.validInput()
		in.Name = "Gamma"
		_, err := s.registry.CreateAgreement(s.ctx, sponsor, in)
		s.Require().NoError(err)

		err = s.registry.UpdateAgreement(s.ctx, sponsor, id, "Gamma", 20, 250)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("no-op rename proceeds", func() {
		s.Require().NoError(s.registry.UpdateAgreement(s.ctx, sponsor, id, "Beta", 21, 260))
	})

	s.Run("updates never advance the allocator", func() {
		count, err := s.registry.GetAgreementCount(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(2), count)
	})
}

func (s *RegistrySuite) TestQueriesOnMissingRecords() {
	_, err := s.registry.GetAgreement(s.ctx, 0)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.registry.GetAgreementUpdates(s.ctx, 0)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	exists, err := s.registry.CheckAgreementExistence(s.ctx, "Nothing")
	s.Require().NoError(err)
	s.False(exists)
}
