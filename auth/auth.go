package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
	log2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/log"
	repo2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/repository"
)

var ErrUsernameTaken = errors.New("username already taken")

type Claims struct {
	UserId string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	users  repo2.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewService(users repo2.UserRepository, secret string, ttl time.Duration) *Service {
	return &Service{users: users, secret: []byte(secret), ttl: ttl}
}

func (s *Service) Register(ctx context.Context, username, password string) (repo2.User, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return repo2.User{}, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return repo2.User{}, err
	}
	user := repo2.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleMember,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return repo2.User{}, err
	}
	log2.GetLogger(ctx).Infof("user %s registered", user.ID)
	return user, nil
}

// Login verifies credentials and issues a token. Banned users may still log
// in; bans are enforced by the access gate and the purchase workflow.
func (s *Service) Login(ctx context.Context, username, password string) (repo2.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return repo2.User{}, "", domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return repo2.User{}, "", domain.ErrUnauthorized
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return repo2.User{}, "", err
	}
	return user, token, nil
}

func (s *Service) IssueToken(user repo2.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserId: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) ParseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Resolve turns a bearer token into the caller's identity. Role and ban status
// come from the user row, not the token, so bans take effect immediately.
func (s *Service) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.users.GetById(ctx, claims.UserId)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return &domain.Identity{
		UserID: user.ID,
		Role:   user.Role,
		Banned: user.Banned,
	}, nil
}
