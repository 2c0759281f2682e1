package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant-admin-api/models"
	"restaurant-admin-api/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type RegisterInput struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=6"`
	FirstName string  `json:"first_name" binding:"max=150"`
	LastName  string  `json:"last_name" binding:"max=150"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthService struct {
	base
}

// Register creates an account. With a phone number it also creates the
// linked customer profile, so the account can place orders right away.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.store.Users.ByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
	}

	var customer *models.Customer
	if given(in.Phone) {
		name := user.FullName()
		if name == "" {
			name = email
		}
		customer = &models.Customer{FullName: name, Email: email, Phone: strings.TrimSpace(*in.Phone)}
	}
	if err := s.store.Users.Register(ctx, user, customer); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.Bool("customer", customer != nil))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	user, err := s.store.Users.ByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Profile is the caller's account with the role it resolves to.
type Profile struct {
	User       *models.User `json:"user"`
	Role       models.Role  `json:"role"`
	CustomerID *uint        `json:"customer_id"`
}

func (s *AuthService) Profile(ctx context.Context, p models.Principal) (*Profile, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	user, err := s.store.Users.Get(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	out := &Profile{User: user, Role: p.Role}
	if p.IsCustomer() {
		id := p.CustomerID
		out.CustomerID = &id
	}
	return out, nil
}

// Principal resolves a token's user id into a principal.
func (s *AuthService) Principal(ctx context.Context, userID uint) (models.Principal, error) {
	return s.store.Users.Principal(ctx, userID)
}

// EnsureStaff makes sure a staff account exists for email, creating it with
// password when missing. An existing account is promoted, its password kept.
func (s *AuthService) EnsureStaff(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.Users.ByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsStaff {
			return nil
		}
		if err := s.store.Users.Promote(ctx, user.ID); err != nil {
			return err
		}
		s.log.Info("staff account promoted", zap.String("email", email))
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	if password == "" {
		return errors.New("bootstrap staff account needs a password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user = &models.User{Email: email, FirstName: "Admin", PasswordHash: string(hash), IsStaff: true}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return err
	}
	s.log.Info("staff account created", zap.String("email", email))
	return nil
}
