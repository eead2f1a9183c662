package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are JWT claims for admin authentication
type AdminClaims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// AdminLoginRequest is the request body for admin login
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLoginResponse is returned after successful login
type AdminLoginResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"adminId"`
}

// SignedRequest is the envelope every wallet-mutating call carries. The
// signature covers "<namespace>-<action>-<sessionId>-<data>-<timestamp>"
// signed with the wallet's ed25519 key; the wallet id is the base64url
// encoding of the public key.
type SignedRequest struct {
	WalletID  string `json:"wallet"`
	SessionID string `json:"sessionId,omitempty"`
	Data      string `json:"data"`
	Timestamp int64  `json:"ts"`
	Signature string `json:"sig"`
}
