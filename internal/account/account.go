// Package account implements user registration, authentication and the
// admin role rules.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/motocare/motocare/internal/database"
	"github.com/motocare/motocare/internal/notify/email"
	"github.com/motocare/motocare/internal/photos"
)

// MaxAdmins caps the number of administrator accounts.
const MaxAdmins = 3

var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAdminLimitReached   = errors.New("administrator limit reached")
	ErrForbiddenSelfAction = errors.New("operation not allowed on own account")
	ErrUserNotFound        = errors.New("user not found")
)

// Service wraps the user storage with role and credential logic. The
// photo store may be nil when photo uploads are disabled.
type Service struct {
	db     *database.Client
	email  *email.NotificationService
	photos *photos.Store
}

func New(db *database.Client, emailService *email.NotificationService, photoStore *photos.Store) *Service {
	return &Service{
		db:     db,
		email:  emailService,
		photos: photoStore,
	}
}

// Register creates a regular user account. The very first account in
// the system becomes an administrator so the instance is never locked
// out of the admin panel. The returned bool reports whether the welcome
// email went out, a mail failure never fails the registration.
func (s *Service) Register(ctx context.Context, username, emailAddr, password string) (*database.User, bool, error) {
	user, err := s.createUser(ctx, username, emailAddr, password, false)
	if err != nil {
		return nil, false, err
	}

	emailSent := false
	if s.email != nil {
		if err := s.email.SendWelcome(emailAddr, username); err != nil {
			log.Warn("Failed to send welcome email", "email", emailAddr, "error", err)
		} else {
			emailSent = true
		}
	}
	return user, emailSent, nil
}

// CreateAdmin creates an administrator account, subject to the admin
// limit. Used by the admin panel, no welcome email is sent.
func (s *Service) CreateAdmin(ctx context.Context, username, emailAddr, password string) (*database.User, error) {
	admins, err := s.db.CountAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if admins >= MaxAdmins {
		return nil, ErrAdminLimitReached
	}
	return s.createUser(ctx, username, emailAddr, password, true)
}

func (s *Service) createUser(ctx context.Context, username, emailAddr, password string, isAdmin bool) (*database.User, error) {
	if _, err := s.db.GetUserByEmail(ctx, emailAddr); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	total, err := s.db.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if total == 0 {
		// First account bootstraps the instance.
		isAdmin = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &database.User{
		Username:     username,
		Email:        emailAddr,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("User registered", "user", username, "admin", isAdmin)
	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (s *Service) Authenticate(ctx context.Context, emailAddr, password string) (*database.User, error) {
	user, err := s.db.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns a single user by ID.
func (s *Service) GetUser(ctx context.Context, id uint) (*database.User, error) {
	user, err := s.db.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ListUsers returns all accounts, oldest first.
func (s *Service) ListUsers(ctx context.Context) ([]database.User, error) {
	return s.db.ListUsers(ctx)
}

// ToggleAdmin flips the admin flag on the target account. Admins cannot
// change their own role, and promotion respects the admin limit.
func (s *Service) ToggleAdmin(ctx context.Context, actingID, targetID uint) (*database.User, error) {
	if actingID == targetID {
		return nil, ErrForbiddenSelfAction
	}

	target, err := s.db.GetUserByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	if !target.IsAdmin {
		admins, err := s.db.CountAdmins(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count admins: %w", err)
		}
		if admins >= MaxAdmins {
			return nil, ErrAdminLimitReached
		}
	}

	target.IsAdmin = !target.IsAdmin
	if err := s.db.SetAdmin(ctx, targetID, target.IsAdmin); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	log.Info("Changed user role", "user", target.Username, "admin", target.IsAdmin)
	return target, nil
}

// DeleteAccount removes the target account together with all its
// vehicles, service records and schedules. Stored record photos are
// removed best-effort after the cascade commits. Admins cannot delete
// their own account through the admin panel.
func (s *Service) DeleteAccount(ctx context.Context, actingID, targetID uint) error {
	if actingID == targetID {
		return ErrForbiddenSelfAction
	}

	photoKeys, err := s.collectPhotoKeys(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.db.DeleteUserCascade(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	for _, key := range photoKeys {
		if err := s.photos.Remove(key); err != nil {
			log.Warn("Failed to remove photo", "key", key, "error", err)
		}
	}

	log.Info("Deleted user account", "id", targetID)
	return nil
}

// collectPhotoKeys gathers the photo keys of every service record owned
// by the user, before the cascade deletes the rows pointing at them.
func (s *Service) collectPhotoKeys(ctx context.Context, userID uint) ([]string, error) {
	if s.photos == nil {
		return nil, nil
	}

	vehicles, err := s.db.ListVehiclesByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, vehicle := range vehicles {
		records, err := s.db.ListServiceRecords(ctx, vehicle.ID)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			if record.PhotoKey != "" {
				keys = append(keys, record.PhotoKey)
			}
		}
	}
	return keys, nil
}

// Stats summarizes the instance for the admin dashboard.
type Stats struct {
	Users    int64 `json:"users"`
	Admins   int64 `json:"admins"`
	Vehicles int64 `json:"vehicles"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.db.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := s.db.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.db.CountVehicles(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Users: users, Admins: admins, Vehicles: vehicles}, nil
}
