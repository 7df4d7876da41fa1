package vortex

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload Vortex encodes into issued JWTs. Two shapes are in
// circulation while tenants migrate: the current shape carries a flat user id
// with email and scopes, the legacy shape carries a user id array, group
// memberships, and a single role. Both sets of fields may appear in one token.
type Claims struct {
	jwt.RegisteredClaims

	// Current shape.
	UserID string   `json:"userId,omitempty"`
	Email  string   `json:"email,omitempty"`
	Scopes []string `json:"scopes,omitempty"`

	// Legacy shape.
	UserIDs []string `json:"userIds,omitempty"`
	Groups  []Group  `json:"groups,omitempty"`
	Role    string   `json:"role,omitempty"`
}

// Group is a membership a user holds, as encoded in token claims and in
// invitation payloads. ExternalID is the tenant's own identifier for the
// group and is opaque to Vortex.
type Group struct {
	ID         string `json:"id"`
	ExternalID string `json:"externalId,omitempty"`
	Type       string `json:"type"`
	Name       string `json:"name,omitempty"`
}

// User is the identity projected from decoded claims. It is best-effort:
// fields the token omits stay zero, and a token that fails to decode yields
// no User at all while the raw credential remains in use.
type User struct {
	UserID  string   `json:"userId,omitempty"`
	Email   string   `json:"email,omitempty"`
	Scopes  []string `json:"scopes,omitempty"`
	UserIDs []string `json:"userIds,omitempty"`
	Groups  []Group  `json:"groups,omitempty"`
	Role    string   `json:"role,omitempty"`
}

// HasScope checks whether a privilege scope is present on the identity.
func (u *User) HasScope(scope string) bool {
	if u == nil {
		return false
	}
	for _, s := range u.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// GroupsByType returns the user's memberships carrying the given type tag.
func (u *User) GroupsByType(groupType string) []Group {
	if u == nil {
		return nil
	}
	var out []Group
	for _, g := range u.Groups {
		if g.Type == groupType {
			out = append(out, g)
		}
	}
	return out
}

// userFromClaims maps decoded claims onto the identity projection. The flat
// user id wins when both shapes are present; an empty one falls back to the
// registered subject claim.
func userFromClaims(claims *Claims, defaultGroups []Group) *User {
	if claims == nil {
		return nil
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.RegisteredClaims.Subject
	}

	groups := claims.Groups
	if len(groups) == 0 {
		groups = defaultGroups
	}

	return &User{
		UserID:  userID,
		Email:   claims.Email,
		Scopes:  claims.Scopes,
		UserIDs: claims.UserIDs,
		Groups:  groups,
		Role:    claims.Role,
	}
}
