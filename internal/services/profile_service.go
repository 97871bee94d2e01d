package services

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ProfileUpdate carries the profile fields a user may change. Empty
// fields are left untouched.
type ProfileUpdate struct {
	Name    string `json:"name" validate:"omitempty,max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

// PasswordChange is the body of a password change.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// ProfileService manages a user's own account and wishlist.
type ProfileService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	logger      *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetProfile returns the account of userID.
func (s *ProfileService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile applies the non-empty fields of in. A new email must not
// belong to another account.
func (s *ProfileService) UpdateProfile(userID string, in ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if email := normalizeEmail(in.Email); email != "" && email != user.Email {
		if _, err := s.userRepo.GetByEmail(email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = email
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Address != "" {
		user.Address = in.Address
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *ProfileService) ChangePassword(userID string, in PasswordChange) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

// Wishlist returns the wishlisted products in wishlist order. Products
// deleted since they were added are skipped.
func (s *ProfileService) Wishlist(userID string) ([]models.Product, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(user.Wishlist))
	for _, id := range user.Wishlist {
		p, err := s.productRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load wishlist product %s: %w", id, err)
		}
		products = append(products, *p)
	}
	return products, nil
}

// AddToWishlist appends productID to the wishlist and returns the new list.
func (s *ProfileService) AddToWishlist(userID, productID string) ([]string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}
	if user.InWishlist(productID) {
		return nil, ErrAlreadyInWishlist
	}

	user.Wishlist = append(user.Wishlist, productID)
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update wishlist: %w", err)
	}
	return user.Wishlist, nil
}

// RemoveFromWishlist drops productID from the wishlist and returns the new list.
func (s *ProfileService) RemoveFromWishlist(userID, productID string) ([]string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.RemoveFromWishlist(productID)
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update wishlist: %w", err)
	}
	return user.Wishlist, nil
}
