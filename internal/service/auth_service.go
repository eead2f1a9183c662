package service

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"wordstake/internal/config"
	"wordstake/internal/game"
	"wordstake/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles admin authentication and wallet request signatures.
// Wallet ids are the base64url (unpadded) encoding of an ed25519 public
// key, so verification needs no key registry.
type AuthService struct {
	adminUsername string
	adminPassword string
	jwtSecret     []byte
	namespace     string
	maxSkew       time.Duration

	// now is overridable for tests
	now func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		adminUsername: cfg.AdminUsername,
		adminPassword: cfg.AdminPassword,
		jwtSecret:     []byte(cfg.JWTSecret),
		namespace:     cfg.SigningNamespace,
		maxSkew:       cfg.SignatureSkew,
		now:           time.Now,
	}
}

// Login validates admin credentials and returns a token
func (s *AuthService) Login(username, password string) (*model.AdminLoginResponse, error) {
	if username != s.adminUsername || password != s.adminPassword {
		return nil, ErrInvalidCredentials
	}

	adminID := "adm_" + uuid.New().String()[:8]

	claims := &model.AdminClaims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.AdminLoginResponse{
		Token:   tokenString,
		AdminID: adminID,
	}, nil
}

// ValidateAdminToken validates an admin JWT and returns claims
func (s *AuthService) ValidateAdminToken(tokenString string) (*model.AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// SigningMessage is the canonical byte sequence a wallet signs for an
// action. The sessionID and data slots may be empty; their separators stay.
func (s *AuthService) SigningMessage(action, sessionID, data string, timestamp int64) string {
	return fmt.Sprintf("%s-%s-%s-%s-%d", s.namespace, action, sessionID, data, timestamp)
}

// VerifyWalletRequest checks that a signed, timestamped action came from
// the claimed wallet and is fresh. The timestamp is unix milliseconds;
// skew up to maxSkew is tolerated in both directions. There is no replay
// cache: replays inside the window are stopped by session-state checks.
func (s *AuthService) VerifyWalletRequest(walletID, action, sessionID, data string, timestamp int64, signature string) error {
	if walletID == "" || action == "" || timestamp == 0 || signature == "" {
		return game.ErrMissingParams
	}

	skew := s.now().Sub(time.UnixMilli(timestamp))
	if skew < 0 {
		skew = -skew
	}
	if skew > s.maxSkew {
		return game.ErrStaleTimestamp
	}

	pub, err := base64.RawURLEncoding.DecodeString(walletID)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return game.ErrBadSignature
	}
	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return game.ErrBadSignature
	}

	msg := s.SigningMessage(action, sessionID, data, timestamp)
	if !ed25519.Verify(ed25519.PublicKey(pub), []byte(msg), sig) {
		return game.ErrBadSignature
	}
	return nil
}
