//go:build integration

package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sponsorreg/internal/registry/cache"
	"sponsorreg/internal/registry/models"
	"sponsorreg/internal/registry/store"
	"sponsorreg/pkg/testutil/containers"
)

func testAgreement(name string) models.Agreement {
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
		Sponsor:         "SP_SPONSOR",
		Immigrant:       "SP_IMMIGRANT",
		Timestamp:       12,
		Status:          true,
	}
}

func TestNameCache(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)

	t.Run("create marks the name", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		c := cache.New(store.NewInMemory(), rc.Client)

		_, err := c.Create(ctx, testAgreement("Alpha"))
		require.NoError(t, err)

		exists, err := c.NameExists(ctx, "Alpha")
		require.NoError(t, err)
		assert.True(t, exists)

		keys, err := rc.Client.Keys(ctx, "sponsorreg:name:*").Result()
		require.NoError(t, err)
		assert.Equal(t, []string{"sponsorreg:name:Alpha"}, keys)
	})

	t.Run("miss falls through and caches a positive answer", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		backing := store.NewInMemory()
		_, err := backing.Create(ctx, testAgreement("Alpha"))
		require.NoError(t, err)

		c := cache.New(backing, rc.Client)

		exists, err := c.NameExists(ctx, "Alpha")
		require.NoError(t, err)
		assert.True(t, exists)

		err = rc.Client.Get(ctx, "sponsorreg:name:Alpha").Err()
		assert.NoError(t, err, "positive answer should be cached")
	})

	t.Run("negative answers are never cached", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		c := cache.New(store.NewInMemory(), rc.Client)

		exists, err := c.NameExists(ctx, "Nobody")
		require.NoError(t, err)
		assert.False(t, exists)

		keys, err := rc.Client.Keys(ctx, "sponsorreg:name:*").Result()
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("rename drops the old marker and sets the new one", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		c := cache.New(store.NewInMemory(), rc.Client)

		id, err := c.Create(ctx, testAgreement("Alpha"))
		require.NoError(t, err)

		renamed := testAgreement("Beta")
		renamed.ID = id
		err = c.Replace(ctx, id, renamed, models.AgreementUpdate{
			AgreementID: id,
			Name:        "Beta",
		})
		require.NoError(t, err)

		keys, err := rc.Client.Keys(ctx, "sponsorreg:name:*").Result()
		require.NoError(t, err)
		assert.Equal(t, []string{"sponsorreg:name:Beta"}, keys)

		exists, err := c.NameExists(ctx, "Alpha")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
