package domain

// TokenClaims represents the JWT payload carried by access and refresh tokens
type TokenClaims struct {
	Subject   string   `json:"sub"`
	Provider  Provider `json:"provider,omitempty"`
	ID        string   `json:"jti,omitempty"`
	IssuedAt  int64    `json:"iat"`
	ExpiresAt int64    `json:"exp"`
}

// TokenVerification is the outcome of verifying a token. Expired, malformed and
// forged tokens are all reported the same way: Valid() is false and Claims is nil.
type TokenVerification struct {
	claims *TokenClaims
}

// ValidToken wraps verified claims
func ValidToken(claims TokenClaims) TokenVerification {
	return TokenVerification{claims: &claims}
}

// InvalidToken is the single failure outcome of token verification
func InvalidToken() TokenVerification {
	return TokenVerification{}
}

// Valid reports whether the token passed verification
func (v TokenVerification) Valid() bool {
	return v.claims != nil
}

// Claims returns the verified claims, or nil when the token was invalid
func (v TokenVerification) Claims() *TokenClaims {
	return v.claims
}
