package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchBeforeSave(t *testing.T) {
	t.Run("rejects self-match", func(t *testing.T) {
		match := Match{UserAID: 7, UserBID: 7}
		err := match.BeforeSave(nil)
		assert.ErrorIs(t, err, ErrSelfMatch)
	})

	t.Run("normalizes pair order", func(t *testing.T) {
		match := Match{UserAID: 9, UserBID: 3}
		err := match.BeforeSave(nil)
		assert.NoError(t, err)
		assert.Equal(t, uint(3), match.UserAID)
		assert.Equal(t, uint(9), match.UserBID)
	})

	t.Run("keeps already ordered pair", func(t *testing.T) {
		match := Match{UserAID: 3, UserBID: 9}
		err := match.BeforeSave(nil)
		assert.NoError(t, err)
		assert.Equal(t, uint(3), match.UserAID)
		assert.Equal(t, uint(9), match.UserBID)
	})

	t.Run("assigns an id when missing", func(t *testing.T) {
		match := Match{UserAID: 1, UserBID: 2}
		assert.NoError(t, match.BeforeSave(nil))
		assert.NotEmpty(t, match.ID)

		withID := Match{ID: "fixed", UserAID: 1, UserBID: 2}
		assert.NoError(t, withID.BeforeSave(nil))
		assert.Equal(t, "fixed", withID.ID)
	})
}

func TestMatchParticipants(t *testing.T) {
	match := Match{UserAID: 3, UserBID: 9}

	assert.True(t, match.HasParticipant(3))
	assert.True(t, match.HasParticipant(9))
	assert.False(t, match.HasParticipant(4))

	assert.Equal(t, uint(9), match.CounterpartyID(3))
	assert.Equal(t, uint(3), match.CounterpartyID(9))
}
