package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// User represents a registered account. The admin flag is stored here and
// loaded into the session on login; at most three users may hold it at once,
// which is enforced by the account service, not the database.
type User struct {
	gorm.Model
	Username     string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	Vehicles     []Vehicle `gorm:"foreignKey:OwnerID"`
}

// CreateUser inserts a new user row.
func (c *Client) CreateUser(ctx context.Context, user *User) error {
	if err := c.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Error("failed to create user", "error", err)
		return err
	}
	return nil
}

// GetUserByEmail returns the user with the given email address.
// Lookup is case-sensitive, matching how the address was stored.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get user by email", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID returns the user with the given id.
func (c *Client) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get user by id", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users ordered by id.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		log.Error("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

// CountUsers returns the total number of users.
func (c *Client) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountAdmins returns the number of users holding the admin flag.
func (c *Client) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SetAdmin updates the admin flag of a user.
func (c *Client) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	res := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("is_admin", isAdmin)
	if res.Error != nil {
		log.Error("failed to update admin flag", "id", id, "error", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUserCascade removes a user together with all owned vehicles, their
// service records and reminder schedules in a single transaction.
func (c *Client) DeleteUserCascade(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		var vehicleIDs []uint
		if err := tx.Model(&Vehicle{}).Where("owner_id = ?", id).Pluck("id", &vehicleIDs).Error; err != nil {
			return err
		}

		if len(vehicleIDs) > 0 {
			if err := tx.Unscoped().Where("vehicle_id IN ?", vehicleIDs).Delete(&ReminderSchedule{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("vehicle_id IN ?", vehicleIDs).Delete(&ServiceRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("owner_id = ?", id).Delete(&Vehicle{}).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&user).Error
	})
}
