package mockapi

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errRevoked = errors.New("session revoked")

// claims is the payload of the session cookie. ID (jti) names the server-side
// session so sign-out can revoke a token before it expires.
type claims struct {
	jwt.RegisteredClaims
	UID int64 `json:"uid"`
}

func randomSecret() []byte {
	b := make([]byte, 32)
	// crypto/rand.Read never returns an error.
	_, _ = rand.Read(b)
	return b
}

func (s *Server) issue(accountID int64) (string, error) {
	now := s.now()
	id := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
		UID: accountID,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	s.mu.Lock()
	s.sessions[id] = session{accountID: accountID, expires: now.Add(sessionTTL)}
	s.mu.Unlock()
	return signed, nil
}

// verify checks signature, expiry and that the session was not signed out.
func (s *Server) verify(raw string) (claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return claims{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[c.ID]
	if !ok || sess.accountID != c.UID {
		return claims{}, errRevoked
	}
	if s.now().After(sess.expires) {
		delete(s.sessions, c.ID)
		return claims{}, jwt.ErrTokenExpired
	}
	return c, nil
}

func (s *Server) revoke(raw string) {
	var c claims
	// An expired or forged cookie has nothing to revoke.
	if _, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation()); err != nil {
		return
	}
	s.mu.Lock()
	delete(s.sessions, c.ID)
	s.mu.Unlock()
}
