package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker(t *testing.T) {
	t.Run("starts closed", func(t *testing.T) {
		b := New("authority-verify")

		assert.Equal(t, "authority-verify", b.Name())
		assert.Equal(t, StateClosed, b.State())
		assert.False(t, b.IsOpen())
	})

	t.Run("opens once failures reach the threshold", func(t *testing.T) {
		b := New("authority-verify", WithFailureThreshold(3))

		for i := 0; i < 2; i++ {
			useFallback, change := b.RecordFailure()
			require.False(t, useFallback)
			require.False(t, change.Opened)
		}

		useFallback, change := b.RecordFailure()
		assert.True(t, useFallback)
		assert.True(t, change.Opened)
		assert.True(t, b.IsOpen())
	})

	t.Run("needs consecutive successes to close again", func(t *testing.T) {
		b := New("authority-verify", WithFailureThreshold(1), WithSuccessThreshold(2))

		b.RecordFailure()
		require.True(t, b.IsOpen())

		usePrimary, change := b.RecordSuccess()
		assert.False(t, usePrimary)
		assert.False(t, change.Closed)
		assert.True(t, b.IsOpen())

		usePrimary, change = b.RecordSuccess()
		assert.True(t, usePrimary)
		assert.True(t, change.Closed)
		assert.False(t, b.IsOpen())
	})

	t.Run("a success wipes the failure streak", func(t *testing.T) {
		b := New("authority-verify", WithFailureThreshold(3))

		b.RecordFailure()
		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		b.RecordFailure()
		assert.False(t, b.IsOpen())

		b.RecordFailure()
		assert.True(t, b.IsOpen())
	})

	t.Run("a failure while open wipes the success streak", func(t *testing.T) {
		b := New("authority-verify", WithFailureThreshold(1), WithSuccessThreshold(3))

		b.RecordFailure()
		require.True(t, b.IsOpen())

		b.RecordSuccess()
		b.RecordSuccess()
		b.RecordFailure()

		b.RecordSuccess()
		b.RecordSuccess()
		assert.True(t, b.IsOpen())
		b.RecordSuccess()
		assert.False(t, b.IsOpen())
	})

	t.Run("failures while open report no further state change", func(t *testing.T) {
		b := New("authority-verify", WithFailureThreshold(1))

		b.RecordFailure()
		useFallback, change := b.RecordFailure()
		assert.True(t, useFallback)
		assert.False(t, change.Opened)
	})

	t.Run("reset forces the breaker closed", func(t *testing.T) {
		b := New("authority-verify", WithFailureThreshold(1))

		b.RecordFailure()
		require.True(t, b.IsOpen())

		b.Reset()
		assert.False(t, b.IsOpen())
		assert.Equal(t, StateClosed, b.State())
	})
}
