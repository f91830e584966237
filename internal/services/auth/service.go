package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/lettergame/internal/dependencies/clock"
	"github.com/mcoot/lettergame/internal/model"
	"github.com/mcoot/lettergame/internal/storage"
)

// Errors
var (
	ErrEmptyName     = fmt.Errorf("%w: name is required", model.ErrInvalidArgument)
	ErrEmptyPassword = fmt.Errorf("%w: password is required", model.ErrInvalidArgument)
)

// Claims are the JWT claims carried by a login token
type Claims struct {
	Name     string `json:"name"`
	PlayerID string `json:"player_id"`
	jwt.StandardClaims
}

// Token is an issued login token
type Token struct {
	Token     string    `json:"token"`
	PlayerID  uuid.UUID `json:"player_id"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity is the authenticated principal behind a token
type Identity struct {
	PlayerID uuid.UUID
	Name     string
}

// Config holds configuration for the auth service
type Config struct {
	Secret []byte

	// TokenDuration is the lifetime of an issued token
	TokenDuration time.Duration

	// MinValidity is how long a token must still be valid for Validate to accept it
	MinValidity time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenDuration: 7 * 24 * time.Hour,
		MinValidity:   24 * time.Hour,
	}
}

// Service issues and verifies login tokens
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	config  Config
	logger  *slog.Logger

	mu      sync.RWMutex
	revoked map[string]time.Time // token id -> expiry
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = defaults.TokenDuration
	}
	if cfg.MinValidity == 0 {
		cfg.MinValidity = defaults.MinValidity
	}
	return &Service{
		storage: storage,
		clock:   clock,
		config:  cfg,
		logger:  logger.With(slog.String("component", "auth")),
		revoked: make(map[string]time.Time),
	}
}

// Login creates a guest player and issues their token
func (s *Service) Login(ctx context.Context, userName string) (*Token, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return nil, ErrEmptyName
	}

	player := &model.Player{
		ID:          uuid.New(),
		DisplayName: userName,
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("guest login", slog.String("player_id", player.ID.String()))
	return s.issue(player)
}

// Register creates a password account and issues its token
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*Token, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if username == "" {
		return nil, ErrEmptyName
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if displayName == "" {
		displayName = username
	}

	_, err := s.storage.GetRegisteredPlayerByUsername(ctx, username)
	if err == nil {
		return nil, model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:          uuid.New(),
		DisplayName: displayName,
		IsGuest:     false,
		CreatedAt:   now,
	}
	registered := &model.RegisteredPlayer{
		PlayerID:     player.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := s.storage.SaveRegisteredPlayer(ctx, registered); err != nil {
		return nil, err
	}

	s.logger.Info("player registered", slog.String("player_id", player.ID.String()))
	return s.issue(player)
}

// LoginWithPassword authenticates a registered player and issues their token
func (s *Service) LoginWithPassword(ctx context.Context, username, password string) (*Token, error) {
	rp, err := s.storage.GetRegisteredPlayerByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rp.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("password login rejected", slog.String("player_id", rp.PlayerID.String()))
		return nil, model.ErrInvalidCredentials
	}

	player, err := s.storage.GetPlayer(ctx, rp.PlayerID)
	if err != nil {
		return nil, err
	}
	return s.issue(player)
}

// Validate reports whether a token verifies and stays valid for at least MinValidity
func (s *Service) Validate(token string) bool {
	claims, err := s.parse(token)
	if err != nil {
		return false
	}
	return !time.Unix(claims.ExpiresAt, 0).Before(s.clock.Now().Add(s.config.MinValidity))
}

// Authenticate verifies an unexpired, unrevoked token and returns its identity
func (s *Service) Authenticate(token string) (*Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	if !s.clock.Now().Before(time.Unix(claims.ExpiresAt, 0)) {
		return nil, model.ErrInvalidToken
	}

	s.mu.RLock()
	_, revoked := s.revoked[claims.Id]
	s.mu.RUnlock()
	if revoked {
		return nil, model.ErrInvalidToken
	}

	playerID, err := uuid.Parse(claims.PlayerID)
	if err != nil {
		return nil, model.ErrInvalidToken
	}
	return &Identity{PlayerID: playerID, Name: claims.Name}, nil
}

// Revoke rejects a token for the rest of its lifetime
func (s *Service) Revoke(token string) {
	claims, err := s.parse(token)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.revoked[claims.Id] = time.Unix(claims.ExpiresAt, 0)
	s.mu.Unlock()
}

// CleanRevoked forgets revoked tokens that have expired anyway (call periodically)
func (s *Service) CleanRevoked() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, expires := range s.revoked {
		if now.After(expires) {
			delete(s.revoked, id)
		}
	}
}

// GetPlayer returns a stored player
func (s *Service) GetPlayer(ctx context.Context, playerID uuid.UUID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, playerID)
}

func (s *Service) issue(player *model.Player) (*Token, error) {
	now := s.clock.Now()
	expires := now.Add(s.config.TokenDuration)

	claims := Claims{
		Name:     player.DisplayName,
		PlayerID: player.ID.String(),
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: expires.Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.Secret)
	if err != nil {
		return nil, err
	}

	return &Token{
		Token:     signed,
		PlayerID:  player.ID,
		Name:      player.DisplayName,
		ExpiresAt: expires.Truncate(time.Second),
	}, nil
}

// parse checks the signature only; expiry is judged against the injected clock
func (s *Service) parse(token string) (*Claims, error) {
	parser := &jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.config.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}
	return claims, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Login(ctx context.Context, userName string) (*Token, error)
	Register(ctx context.Context, username, password, displayName string) (*Token, error)
	LoginWithPassword(ctx context.Context, username, password string) (*Token, error)
	Validate(token string) bool
	Authenticate(token string) (*Identity, error)
	Revoke(token string)
	GetPlayer(ctx context.Context, playerID uuid.UUID) (*model.Player, error)
}

var _ ServiceInterface = (*Service)(nil)
