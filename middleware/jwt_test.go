package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJWTRoundtrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("ana@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	email, err := parseJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := parseJWT("not-a-token")
	assert.Error(t, err)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT("ana@example.com")
	assert.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = parseJWT(token)
	assert.Error(t, err)
}

func TestSocketioJWTDecoder(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("bob@example.com")
	assert.NoError(t, err)

	t.Run("with bearer prefix", func(t *testing.T) {
		email, err := Socketio_JWT_decoder(map[string]interface{}{
			"authorization": "Bearer " + token,
		})
		assert.NoError(t, err)
		assert.Equal(t, "bob@example.com", email)
	})

	t.Run("without prefix", func(t *testing.T) {
		email, err := Socketio_JWT_decoder(map[string]interface{}{
			"authorization": token,
		})
		assert.NoError(t, err)
		assert.Equal(t, "bob@example.com", email)
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := Socketio_JWT_decoder(map[string]interface{}{})
		assert.Error(t, err)
	})
}
