package auth

import "time"

// NewTestTokenService creates a token service with an injectable time
// function for deterministic tests. The secret bypasses the production
// length check so short fixtures stay readable.
func NewTestTokenService(secret string, timeFunc func() time.Time) TokenService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacTokenService{
		signingKey: []byte(secret),
		timeFunc:   timeFunc,
	}
}
