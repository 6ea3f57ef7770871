package security

import (
	"crypto"
	"encoding/base64"

	"github.com/go-jose/go-jose/v4"
)

// KeyID derives a stable key id from the RFC 7638 thumbprint of the public key.
// Returns "" for unsupported key types.
func KeyID(pub crypto.PublicKey) string {
	if KeyAlg(pub) == "" {
		return ""
	}
	jwk := jose.JSONWebKey{Key: pub}
	thumb, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(thumb)
}

// JWKS returns the key set resource servers use to verify tokens issued by p.
func (p *TokenProvider) JWKS() jose.JSONWebKeySet {
	pub, kid := p.PublicKey()
	return jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
		Key:       pub,
		KeyID:     kid,
		Algorithm: KeyAlg(pub),
		Use:       "sig",
	}}}
}
