package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"budong-api/internal/auth"
	"budong-api/internal/domain"
	"budong-api/internal/repository"
)

// TokenIssuer is satisfied by *auth.TokenService.
type TokenIssuer interface {
	IssuePair(subject string) (auth.TokenPair, error)
	VerifyKind(token string, kind auth.TokenKind) (*auth.Claims, error)
}

// SessionService turns credentials into token pairs and tokens back into users.
type SessionService interface {
	Login(ctx context.Context, email, password string) (auth.TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	// Authenticate resolves an access token to its user. Every failure is
	// auth.ErrInvalidToken except storage errors.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, *auth.Claims, error)
	// Logout revokes the access token and, when given, the caller's refresh
	// token. It is a no-op without a deny-list.
	Logout(ctx context.Context, claims *auth.Claims, refreshToken string) error
}

type sessionService struct {
	users    UserService
	tokens   TokenIssuer
	denylist repository.TokenDenylist
	logger   *logrus.Logger
}

// NewSessionService wires the session flow. denylist may be nil, in which
// case logout is left to the client.
func NewSessionService(users UserService, tokens TokenIssuer, denylist repository.TokenDenylist, logger *logrus.Logger) SessionService {
	return &sessionService{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		logger:   logger,
	}
}

func (s *sessionService) Login(ctx context.Context, email, password string) (auth.TokenPair, *domain.User, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return auth.TokenPair{}, nil, err
	}
	pair, err := s.tokens.IssuePair(strconv.FormatInt(user.ID, 10))
	if err != nil {
		return auth.TokenPair{}, nil, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, user, nil
}

func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	claims, err := s.tokens.VerifyKind(refreshToken, auth.KindRefresh)
	if err != nil {
		return auth.TokenPair{}, auth.ErrInvalidToken
	}
	user, err := s.resolve(ctx, claims)
	if err != nil {
		return auth.TokenPair{}, err
	}
	pair, err := s.tokens.IssuePair(strconv.FormatInt(user.ID, 10))
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}

func (s *sessionService) Authenticate(ctx context.Context, accessToken string) (*domain.User, *auth.Claims, error) {
	claims, err := s.tokens.VerifyKind(accessToken, auth.KindAccess)
	if err != nil {
		return nil, nil, auth.ErrInvalidToken
	}
	user, err := s.resolve(ctx, claims)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// resolve checks the deny-list and loads the token's subject.
func (s *sessionService) resolve(ctx context.Context, claims *auth.Claims) (*domain.User, error) {
	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			s.logger.WithField("jti", claims.ID).Debug("revoked token presented")
			return nil, auth.ErrInvalidToken
		}
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *sessionService) Logout(ctx context.Context, claims *auth.Claims, refreshToken string) error {
	if s.denylist == nil || claims == nil {
		return nil
	}

	var refresh *auth.Claims
	if refreshToken != "" {
		rc, err := s.tokens.VerifyKind(refreshToken, auth.KindRefresh)
		if err != nil || rc.Subject != claims.Subject {
			return auth.ErrInvalidToken
		}
		refresh = rc
	}

	for _, c := range []*auth.Claims{claims, refresh} {
		if c == nil || c.ID == "" || c.ExpiresAt == nil {
			continue
		}
		if err := s.denylist.Revoke(ctx, c.ID, c.ExpiresAt.Time); err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{"sub": c.Subject, "type": c.Type}).Info("token revoked")
	}
	return nil
}
