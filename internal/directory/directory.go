// Package directory resolves display names for wallet identities. The
// profile tables belong to the booking side of the backend; the ledger only
// reads a name from them.
package directory

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
)

// ProfileDirectory resolves a human-readable display name for an identity.
type ProfileDirectory interface {
	DisplayName(ctx context.Context, userID uint, userType string) (string, error)
}

// DefaultDisplayName is used when no profile record exists for an identity.
const DefaultDisplayName = "مستخدم"

type gormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory reads names from the clinic profile tables: doctors carry
// their own profile row, everyone else lives in users.
func NewGormDirectory(db *gorm.DB) ProfileDirectory {
	return &gormDirectory{db: db}
}

func (d *gormDirectory) DisplayName(ctx context.Context, userID uint, userType string) (string, error) {
	table := "users"
	if userType == "doctor" {
		table = "doctors"
	}

	var fullName string
	err := d.db.WithContext(ctx).
		Table(table).
		Select("full_name").
		Where("id = ?", userID).
		Scan(&fullName).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DefaultDisplayName, nil
		}
		return "", err
	}
	if fullName == "" {
		return DefaultDisplayName, nil
	}
	return fullName, nil
}

// Resolve wraps DisplayName with the fallback applied on any failure, so a
// missing profile table never breaks a balance read.
func Resolve(ctx context.Context, dir ProfileDirectory, userID uint, userType string) string {
	if dir == nil {
		return DefaultDisplayName
	}
	name, err := dir.DisplayName(ctx, userID, userType)
	if err != nil {
		log.Printf("display name lookup failed for %s/%d: %v", userType, userID, err)
		return DefaultDisplayName
	}
	return name
}
