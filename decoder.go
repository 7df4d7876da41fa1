package vortex

import (
	"github.com/golang-jwt/jwt/v5"
)

// DecodeUser extracts an identity from a token without verifying its
// signature. The token is split into its segments and the claims segment is
// base64-decoded and parsed; any failure along the way (malformed structure,
// bad encoding, invalid claims JSON) yields nil rather than an error. A
// credential that cannot be decoded is still a valid credential, it just
// carries no identity.
//
// When the token encodes no group memberships the caller-supplied default set
// is projected instead.
func DecodeUser(token string, defaultGroups []Group) *User {
	if token == "" {
		return nil
	}

	claims := &Claims{}
	if _, _, err := unverifiedParser.ParseUnverified(token, claims); err != nil {
		return nil
	}

	return userFromClaims(claims, defaultGroups)
}

// The parser never validates: expiry and signature are the server's problem.
var unverifiedParser = jwt.NewParser(jwt.WithoutClaimsValidation())
