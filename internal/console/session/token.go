package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for persisted-credential decoding. Both are fatal for the
// stored token: the store clears it and resumes anonymous.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// claims is the subset of bearer-token claims the console reads. The token
// is issued and signed by the platform; the console has no signing secret,
// so claims are decoded without signature verification and treated as
// provisional until the server rejects a request.
type claims struct {
	Subject string
	Name    string
	Roles   []string
}

// decodeClaims extracts claims from a compact JWT. The role claim may be a
// single string or a list of strings; anything else is rejected rather than
// silently coerced. An expired token is reported as ErrTokenExpired.
func decodeClaims(tokenString string, now time.Time) (*claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, mc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if exp != nil && exp.Before(now) {
		return nil, ErrTokenExpired
	}

	sub, err := mc.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	name, _ := mc["name"].(string)

	roles, err := normalizeRoles(mc["role"])
	if err != nil {
		return nil, err
	}

	return &claims{Subject: sub, Name: name, Roles: roles}, nil
}

// normalizeRoles folds the role claim's two accepted shapes (string,
// list of strings) into a []string. A missing claim yields an empty set.
func normalizeRoles(claim any) ([]string, error) {
	switch v := claim.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		roles := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: role list holds %T", ErrInvalidToken, item)
			}
			roles = append(roles, s)
		}
		return roles, nil
	case []string:
		return v, nil
	}
	return nil, fmt.Errorf("%w: unsupported role claim type %T", ErrInvalidToken, claim)
}
