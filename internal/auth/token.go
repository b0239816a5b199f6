package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrInvalidToken covers every verification failure: bad signature,
// expiry, malformed input, wrong kind. Callers cannot tell them apart.
var ErrInvalidToken = errors.New("invalid token")

type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims is the token payload: sub, iat, exp, jti and the kind marker.
type Claims struct {
	Type TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is what login and refresh hand out.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type TokenConfig struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Leeway tolerates clock skew when checking exp. Zero means none.
	Leeway   time.Duration
	Now      func() time.Time
	Logger   *logrus.Logger
	Recorder Recorder
}

// TokenService signs and verifies HMAC JWTs with a shared secret.
type TokenService struct {
	cfg    TokenConfig
	secret []byte
	method jwt.SigningMethod
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 30 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	return &TokenService{
		cfg:    cfg,
		secret: []byte(cfg.Secret),
		method: method,
	}, nil
}

// Issue signs a token for subject that expires ttl from now.
func (s *TokenService) Issue(subject string, kind TokenKind, ttl time.Duration) (string, error) {
	signed, _, err := s.issueAt(subject, kind, ttl, s.cfg.Now())
	return signed, err
}

// issueAt signs a token issued at now and returns the exp written into it.
func (s *TokenService) issueAt(subject string, kind TokenKind, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject is required")
	}
	if kind != KindAccess && kind != KindRefresh {
		return "", time.Time{}, fmt.Errorf("unknown token kind %q", kind)
	}

	exp := jwt.NewNumericDate(now.Add(ttl))
	claims := Claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: exp,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp.Time, nil
}

// IssuePair signs an access and a refresh token with the configured TTLs.
// Both share one issue time and the reported expiries match the tokens.
func (s *TokenService) IssuePair(subject string) (TokenPair, error) {
	now := s.cfg.Now()
	access, accessExp, err := s.issueAt(subject, KindAccess, s.cfg.AccessTTL, now)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.issueAt(subject, KindRefresh, s.cfg.RefreshTTL, now)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Verify checks signature, algorithm and expiry and returns the payload.
// Any failure yields ErrInvalidToken.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.cfg.Leeway),
		jwt.WithTimeFunc(s.cfg.Now),
	)
	if err != nil {
		return nil, s.reject(classify(err), err)
	}
	if claims.Subject == "" {
		return nil, s.reject("subject", errors.New("missing subject"))
	}
	if claims.Type != KindAccess && claims.Type != KindRefresh {
		return nil, s.reject("kind", fmt.Errorf("unknown kind %q", claims.Type))
	}

	s.cfg.Recorder.RecordTokenVerification("ok")
	return claims, nil
}

// VerifyKind is Verify plus a check that the token is of the given kind.
func (s *TokenService) VerifyKind(token string, kind TokenKind) (*Claims, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Type != kind {
		s.cfg.Logger.WithField("expected", kind).WithField("got", claims.Type).Debug("token kind mismatch")
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) reject(reason string, err error) error {
	s.cfg.Recorder.RecordTokenVerification(reason)
	s.cfg.Logger.WithField("reason", reason).Debugf("token rejected: %v", err)
	return ErrInvalidToken
}

func classify(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "missing_claim"
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return "not_yet_valid"
	default:
		return "invalid"
	}
}
