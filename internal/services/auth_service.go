package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"shop-service/internal/domain"
	"shop-service/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration

	redisClient   *redis.Client
	attemptLimit  int
	attemptWindow time.Duration
}

func NewAuthService(users repository.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// SetLoginThrottle enables the fixed-window login throttle. Without a redis
// client login attempts are not throttled.
func (s *AuthService) SetLoginThrottle(client *redis.Client, limit int, window time.Duration) {
	s.redisClient = client
	s.attemptLimit = limit
	s.attemptWindow = window
}

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Register stores only the irreversible password hash; the plaintext never
// leaves this call.
func (s *AuthService) Register(ctx context.Context, name, email, password, roleName string) (*domain.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", domain.E(domain.KindValidation, "name, email and password are required")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", domain.E(domain.KindValidation, "email already exists")
	}

	if roleName == "" {
		roleName = domain.RoleUser
	}
	role, err := s.users.FindRoleByName(ctx, roleName)
	if err != nil {
		return nil, "", err
	}
	if role == nil {
		return nil, "", domain.E(domain.KindValidation, "role does not exist")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Role:         *role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials behind a fixed-window attempt budget keyed by
// the caller's address. Unknown email and wrong password produce the same
// error.
func (s *AuthService) Login(ctx context.Context, email, password, clientAddr string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.E(domain.KindValidation, "email and password are required")
	}

	if err := s.throttle(ctx, clientAddr); err != nil {
		return nil, "", err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", domain.E(domain.KindAuth, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.E(domain.KindAuth, "invalid email or password")
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user. A valid signature is not
// enough: the subject must still exist.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.E(domain.KindAuth, "token expired or invalid")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, domain.E(domain.KindAuth, "token expired or invalid")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.E(domain.KindAuth, "invalid token")
	}
	return user, nil
}

func (s *AuthService) signToken(user *domain.User) (string, error) {
	claims := &authClaims{
		Role: user.RoleName(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// throttle enforces a fixed attempt budget per window and caller address.
func (s *AuthService) throttle(ctx context.Context, clientAddr string) error {
	if s.redisClient == nil {
		return nil
	}

	key := fmt.Sprintf("login:attempts:%s", clientAddr)
	n, err := s.redisClient.Incr(ctx, key).Result()
	if err != nil {
		// the throttle is best-effort; a redis outage must not block logins
		logger.Warn().Err(err).Msg("login throttle unavailable")
		return nil
	}
	if n == 1 {
		s.redisClient.Expire(ctx, key, s.attemptWindow)
	}
	if n > int64(s.attemptLimit) {
		return domain.E(domain.KindRateLimited, "too many login attempts, try again later")
	}
	return nil
}
