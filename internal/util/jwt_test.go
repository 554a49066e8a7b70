package util

import (
	"testing"
	"time"

	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	t.Parallel()

	publicID := 54321
	student := &model.Student{
		BaseModel: model.BaseModel{ID: 7},
		Email:     "amrita@example.com",
		PublicID:  &publicID,
	}

	token, err := GenerateJWT(student, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.StudentID)
	assert.Equal(t, 54321, claims.PublicID)
	assert.Equal(t, "amrita@example.com", claims.Email)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	t.Parallel()

	student := &model.Student{BaseModel: model.BaseModel{ID: 1}, Email: "a@b.c"}
	token, err := GenerateJWT(student, "secret-one", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret-two")
	assert.Error(t, err)
}

func TestParseJWT_Expired(t *testing.T) {
	t.Parallel()

	student := &model.Student{BaseModel: model.BaseModel{ID: 1}, Email: "a@b.c"}
	token, err := GenerateJWT(student, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}
