package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed or invalid.
	ErrInvalidToken = errors.New("invalid token")
)

// Token types carried in the "typ" claim so one kind can never stand in for another.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenTypeInvite  = "invite"
)

// Claims holds the JWT claims for access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	TokenType string `json:"typ"`
}

// InviteClaims binds an invited user to an organization. Subject is the user id.
type InviteClaims struct {
	jwt.RegisteredClaims
	OrgID     string `json:"org_id"`
	TokenType string `json:"typ"`
}

// TokenPair is what sign-in and refresh hand back to the client.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenProvider issues and validates JWTs using RS256 or ES256 (private/public key).
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	keyID      string
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	inviteTTL  time.Duration
	now        func() time.Time
}

// NewTokenProvider returns a TokenProvider that signs with the given private key (RS256 or ES256).
// issuer and audience are set on claims and checked on validation.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, accessTTL, refreshTTL, inviteTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		keyID:      KeyID(publicKey),
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		inviteTTL:  inviteTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// IssuePair issues an access and a refresh token for the user.
func (p *TokenProvider) IssuePair(userID, email string) (*TokenPair, error) {
	access, accessExp, err := p.issue(userID, email, tokenTypeAccess, p.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := p.issue(userID, email, tokenTypeRefresh, p.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (p *TokenProvider) issue(userID, email, typ string, ttl time.Duration) (string, time.Time, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := p.now()
	expiresAt := now.Add(ttl)
	token, err := p.sign(Claims{
		RegisteredClaims: p.registered(jti, userID, now, expiresAt),
		Email:            email,
		TokenType:        typ,
	})
	return token, expiresAt, err
}

// IssueInvite issues the signed reference embedded in an invite link.
func (p *TokenProvider) IssueInvite(userID, orgID string) (token string, expiresAt time.Time, err error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := p.now()
	expiresAt = now.Add(p.inviteTTL)
	token, err = p.sign(InviteClaims{
		RegisteredClaims: p.registered(jti, userID, now, expiresAt),
		OrgID:            orgID,
		TokenType:        tokenTypeInvite,
	})
	return token, expiresAt, err
}

// ValidateAccess parses and validates the access token (signature, exp, iss, aud, typ).
// Returns userID and email.
func (p *TokenProvider) ValidateAccess(tokenString string) (userID, email string, err error) {
	c, err := p.parseUserToken(tokenString, tokenTypeAccess)
	if err != nil {
		return "", "", err
	}
	return c.Subject, c.Email, nil
}

// ValidateRefresh parses and validates the refresh token. Returns userID and email.
func (p *TokenProvider) ValidateRefresh(tokenString string) (userID, email string, err error) {
	c, err := p.parseUserToken(tokenString, tokenTypeRefresh)
	if err != nil {
		return "", "", err
	}
	return c.Subject, c.Email, nil
}

// ValidateInvite parses an invite reference and returns the user and organization it names.
func (p *TokenProvider) ValidateInvite(tokenString string) (userID, orgID string, err error) {
	c := &InviteClaims{}
	if err := p.parse(tokenString, c); err != nil {
		return "", "", err
	}
	if c.TokenType != tokenTypeInvite || c.Subject == "" || c.OrgID == "" {
		return "", "", ErrInvalidToken
	}
	return c.Subject, c.OrgID, nil
}

// PublicKey returns the verification key and its key id.
func (p *TokenProvider) PublicKey() (crypto.PublicKey, string) {
	return p.publicKey, p.keyID
}

func (p *TokenProvider) registered(jti, subject string, now, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        jti,
		Subject:   subject,
		Issuer:    p.issuer,
		Audience:  jwt.ClaimStrings{p.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
}

func (p *TokenProvider) parseUserToken(tokenString, typ string) (*Claims, error) {
	c := &Claims{}
	if err := p.parse(tokenString, c); err != nil {
		return nil, err
	}
	if c.TokenType != typ || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

func (p *TokenProvider) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
			return p.publicKey, nil
		}
		return nil, ErrInvalidToken
	},
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func (p *TokenProvider) sign(claims jwt.Claims) (string, error) {
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", ErrInvalidToken
	}
	t := jwt.NewWithClaims(method, claims)
	if p.keyID != "" {
		t.Header["kid"] = p.keyID
	}
	return t.SignedString(p.privateKey)
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
