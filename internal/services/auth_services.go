package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen = 8
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (int64, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	SetRole(ctx context.Context, id int64, role string) error
	Delete(ctx context.Context, id int64) error
}

type AuthService struct {
	Users UserStore
}

func NewAuthService(u UserStore) *AuthService {
	return &AuthService{Users: u}
}

func validateEmail(email string) error {
	if email == "" {
		return invalidf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return invalidf("invalid email format")
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return invalidf("password too short: must be at least %d characters", MinPasswordLen)
	}
	return nil
}

// Register creates a customer account with role "user".
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, invalidf("name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email %w", ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	id, err := s.Users.CreateUser(ctx, name, email, string(hash), model.RoleUser)
	if err != nil {
		return nil, err
	}
	return &model.User{UserID: id, Name: name, Email: email, Role: model.RoleUser}, nil
}

// Login authenticates using email + password and returns the user (without passwordhash).
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.DeletedAt != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*model.User, error) {
	return s.Users.GetByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.Users.List(ctx)
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s *AuthService) SetRole(ctx context.Context, id int64, role string) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return invalidf("role must be %q or %q", model.RoleUser, model.RoleAdmin)
	}
	return s.Users.SetRole(ctx, id, role)
}

func (s *AuthService) DeleteUser(ctx context.Context, id int64) error {
	return s.Users.Delete(ctx, id)
}
