package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/fitclash/fitclash/internal/domain/apitoken"
	"github.com/fitclash/fitclash/internal/domain/user"
	"github.com/fitclash/fitclash/internal/platform/id"
	"github.com/fitclash/fitclash/internal/platform/logging"
)

const tokenSecretPrefix = "fc_"

type TokenService struct {
	tokenRepo  apitoken.Repository
	userRepo   user.Repository
	idGen      id.Generator
	defaultTTL time.Duration
	logger     *logging.Logger
	now        func() time.Time
}

func NewTokenService(
	tokenRepo apitoken.Repository,
	userRepo user.Repository,
	idGen id.Generator,
	defaultTTL time.Duration,
	logger *logging.Logger,
) *TokenService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if defaultTTL <= 0 {
		defaultTTL = 365 * 24 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &TokenService{
		tokenRepo:  tokenRepo,
		userRepo:   userRepo,
		idGen:      idGen,
		defaultTTL: defaultTTL,
		logger:     logger,
		now:        time.Now,
	}
}

type IssueTokenInput struct {
	UserID string
	Label  string
	TTL    time.Duration
}

type IssuedToken struct {
	Token apitoken.Token
	// Secret is the bearer value handed to the caller exactly once. Only
	// its hash is stored.
	Secret string
}

func (s *TokenService) IssueToken(ctx context.Context, input IssueTokenInput) (IssuedToken, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TokenService.IssueToken")
	defer span.End()

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return IssuedToken{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	tokenID, err := s.idGen.NewID()
	if err != nil {
		return IssuedToken{}, fmt.Errorf("generate token id: %w", err)
	}
	secretPart, err := s.idGen.NewID()
	if err != nil {
		return IssuedToken{}, fmt.Errorf("generate token secret: %w", err)
	}
	secret := tokenSecretPrefix + secretPart

	nowTime := s.now().UTC()
	expiresAt := nowTime.Add(ttl)
	item := apitoken.Token{
		ID:         tokenID,
		UserID:     userID,
		SecretHash: hashTokenSecret(secret),
		Label:      strings.TrimSpace(input.Label),
		IsActive:   true,
		ExpiresAt:  &expiresAt,
		CreatedAt:  nowTime,
	}
	if err := s.tokenRepo.Create(ctx, item); err != nil {
		return IssuedToken{}, fmt.Errorf("create token: %w", err)
	}

	return IssuedToken{Token: item, Secret: secret}, nil
}

// VerifyAccessToken resolves a bearer secret to its owning principal. The
// last-used timestamp is refreshed best effort.
func (s *TokenService) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TokenService.VerifyAccessToken")
	defer span.End()

	secret := strings.TrimSpace(token)
	if secret == "" {
		return user.Principal{}, fmt.Errorf("%w: empty token", ErrUnauthorized)
	}

	item, exists, err := s.tokenRepo.GetBySecretHash(ctx, hashTokenSecret(secret))
	if err != nil {
		return user.Principal{}, fmt.Errorf("lookup token: %w", err)
	}
	if !exists || !item.IsActive {
		return user.Principal{}, fmt.Errorf("%w: unknown token", ErrUnauthorized)
	}

	nowTime := s.now().UTC()
	if item.Expired(nowTime) {
		return user.Principal{}, fmt.Errorf("%w: token expired", ErrUnauthorized)
	}

	if err := s.tokenRepo.TouchLastUsed(ctx, item.ID, nowTime); err != nil {
		s.logger.WarnContext(ctx, "touch token last used failed", "token_id", item.ID, "error", err)
	}

	roles, err := s.userRepo.ListRoles(ctx, item.UserID)
	if err != nil {
		return user.Principal{}, fmt.Errorf("list user roles: %w", err)
	}

	return user.Principal{UserID: item.UserID, TokenID: item.ID, Roles: roles}, nil
}

func (s *TokenService) ListTokens(ctx context.Context, userID string) ([]apitoken.Token, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.tokenRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	return items, nil
}

func (s *TokenService) RevokeToken(ctx context.Context, userID, tokenID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TokenService.RevokeToken")
	defer span.End()

	userID = strings.TrimSpace(userID)
	tokenID = strings.TrimSpace(tokenID)
	if userID == "" || tokenID == "" {
		return fmt.Errorf("%w: user id and token id are required", ErrInvalidInput)
	}

	if err := s.tokenRepo.Revoke(ctx, userID, tokenID); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

func hashTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
