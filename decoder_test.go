package vortex_test

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vortex "github.com/TeamVortexSoftware/vortex-go"
)

func TestDecodeUser_CurrentShape(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userId": "u1",
		"email":  "a@b.com",
		"scopes": []string{"invitations:read", "invitations:write"},
	})

	user := vortex.DecodeUser(token, nil)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, []string{"invitations:read", "invitations:write"}, user.Scopes)
	assert.Empty(t, user.Role)
	assert.Empty(t, user.Groups)
}

func TestDecodeUser_LegacyShape(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userIds": []string{"crm-11", "billing-42"},
		"role":    "admin",
		"groups": []map[string]any{
			{"id": "g1", "externalId": "team-a", "type": "team", "name": "Team A"},
		},
	})

	user := vortex.DecodeUser(token, nil)
	require.NotNil(t, user)
	assert.Equal(t, []string{"crm-11", "billing-42"}, user.UserIDs)
	assert.Equal(t, "admin", user.Role)
	require.Len(t, user.Groups, 1)
	assert.Equal(t, vortex.Group{ID: "g1", ExternalID: "team-a", Type: "team", Name: "Team A"}, user.Groups[0])
}

func TestDecodeUser_BothShapesInOneToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userId":  "u1",
		"userIds": []string{"legacy-1"},
		"role":    "member",
	})

	user := vortex.DecodeUser(token, nil)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, []string{"legacy-1"}, user.UserIDs)
	assert.Equal(t, "member", user.Role)
}

func TestDecodeUser_SubjectFallback(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "subject-9"})

	user := vortex.DecodeUser(token, nil)
	require.NotNil(t, user)
	assert.Equal(t, "subject-9", user.UserID)
}

func TestDecodeUser_DefaultGroups(t *testing.T) {
	defaults := []vortex.Group{{ID: "dg", Type: "org", Name: "Default Org"}}

	t.Run("applies defaults when token has no groups", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"userId": "u1"})

		user := vortex.DecodeUser(token, defaults)
		require.NotNil(t, user)
		assert.Equal(t, defaults, user.Groups)
	})

	t.Run("token groups win over defaults", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"userId": "u1",
			"groups": []map[string]any{{"id": "g1", "type": "team"}},
		})

		user := vortex.DecodeUser(token, defaults)
		require.NotNil(t, user)
		require.Len(t, user.Groups, 1)
		assert.Equal(t, "g1", user.Groups[0].ID)
	})
}

func TestDecodeUser_MalformedTokensYieldNoIdentity(t *testing.T) {
	badPayload := base64.RawURLEncoding.EncodeToString([]byte(`{"userId":`))
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separators", "garbage"},
		{"two segments", "a.b"},
		{"invalid base64 payload", header + ".!!!." + "sig"},
		{"payload not json", header + "." + badPayload + ".sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, vortex.DecodeUser(tt.token, nil))
		})
	}
}

func TestUser_HasScope(t *testing.T) {
	user := &vortex.User{Scopes: []string{"a", "b"}}

	assert.True(t, user.HasScope("a"))
	assert.False(t, user.HasScope("c"))

	var nilUser *vortex.User
	assert.False(t, nilUser.HasScope("a"))
}

func TestUser_GroupsByType(t *testing.T) {
	user := &vortex.User{Groups: []vortex.Group{
		{ID: "g1", Type: "team"},
		{ID: "g2", Type: "org"},
		{ID: "g3", Type: "team"},
	}}

	teams := user.GroupsByType("team")
	require.Len(t, teams, 2)
	assert.Equal(t, "g1", teams[0].ID)
	assert.Equal(t, "g3", teams[1].ID)

	assert.Empty(t, user.GroupsByType("missing"))
}
