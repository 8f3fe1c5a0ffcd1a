package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `gorm:"size:20" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open connects gorm to dsn. "sqlite:" and "file:" DSNs use SQLite, anything
// else is handed to the Postgres driver.
func Open(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		dial = sqlite.Open(strings.TrimPrefix(dsn, "sqlite:"))
	case strings.HasPrefix(dsn, "file:"):
		dial = sqlite.Open(dsn)
	default:
		dial = postgres.Open(dsn)
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open users db: %w", err)
	}
	return db, nil
}

type Users struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func (u *Users) Migrate() error {
	return u.DB.AutoMigrate(&User{})
}

// Seed creates one account per role from the given passwords. Existing
// accounts are left alone and empty passwords are skipped.
func (u *Users) Seed(ctx context.Context, passwords map[Role]string) error {
	for role, pw := range passwords {
		if pw == "" {
			continue
		}
		var n int64
		if err := u.DB.WithContext(ctx).Model(&User{}).Where("username = ?", string(role)).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if _, err := u.Create(ctx, string(role), pw, role); err != nil {
			return err
		}
		if u.Log != nil {
			u.Log.Info("seeded user", zap.String("username", string(role)))
		}
	}
	return nil
}

func (u *Users) Create(ctx context.Context, username, password string, role Role) (User, error) {
	if !role.Valid() {
		return User{}, fmt.Errorf("unknown role %q", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	user := User{Username: username, PasswordHash: string(hash), Role: role}
	if err := u.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return User{}, fmt.Errorf("create user %s: %w", username, err)
	}
	return user, nil
}

// Authenticate returns the user when username and password match. Unknown
// users and wrong passwords give the same error.
func (u *Users) Authenticate(ctx context.Context, username, password string) (User, error) {
	var user User
	err := u.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}
