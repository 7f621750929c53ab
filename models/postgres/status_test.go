package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvitationTransitions(t *testing.T) {
	valid := [][2]string{
		{InvitationPending, InvitationAccepted},
		{InvitationPending, InvitationDeclined},
		{InvitationPending, InvitationCancelled},
	}
	for _, pair := range valid {
		assert.True(t, ValidInvitationTransition(pair[0], pair[1]),
			"%s -> %s should be allowed", pair[0], pair[1])
	}

	invalid := [][2]string{
		{InvitationAccepted, InvitationDeclined},
		{InvitationAccepted, InvitationPending},
		{InvitationDeclined, InvitationAccepted},
		{InvitationCancelled, InvitationPending},
		{InvitationPending, InvitationPending},
		{"garbage", InvitationAccepted},
	}
	for _, pair := range invalid {
		assert.False(t, ValidInvitationTransition(pair[0], pair[1]),
			"%s -> %s should be rejected", pair[0], pair[1])
	}
}

func TestSessionTransitions(t *testing.T) {
	assert.True(t, ValidSessionTransition(SessionScheduled, SessionCompleted))
	assert.True(t, ValidSessionTransition(SessionScheduled, SessionCancelled))

	assert.False(t, ValidSessionTransition(SessionCompleted, SessionCancelled))
	assert.False(t, ValidSessionTransition(SessionCancelled, SessionScheduled))
	assert.False(t, ValidSessionTransition(SessionScheduled, SessionScheduled))
}
