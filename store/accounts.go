package store

import (
	"context"
	"encoding/hex"
	"fmt"

	"dinedash-server/models"

	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) UpsertAddress(ctx context.Context, email, address string) error {
	return s.upsertAddressField(ctx, &models.Address{Email: email, Address: address}, "address")
}

func (s *Store) UpsertPhone(ctx context.Context, email, phone string) error {
	return s.upsertAddressField(ctx, &models.Address{Email: email, Phone: phone}, "phone")
}

func (s *Store) upsertAddressField(ctx context.Context, a *models.Address, column string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{column}),
	}).Create(a).Error
}

func (s *Store) AddressByEmail(ctx context.Context, email string) (*models.Address, error) {
	var a models.Address
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, notFound(err, "address "+email)
	}
	return &a, nil
}

// RoleFor returns the first role ever granted to email.
func (s *Store) RoleFor(ctx context.Context, email string) (*models.RoleRecord, error) {
	var r models.RoleRecord
	if err := s.db.WithContext(ctx).Where("email = ?", email).Order("id").First(&r).Error; err != nil {
		return nil, notFound(err, "role "+email)
	}
	return &r, nil
}

func (s *Store) AddRole(ctx context.Context, email string, role models.UserRole) error {
	return s.db.WithContext(ctx).Create(&models.RoleRecord{Email: email, Role: role}).Error
}

// SubmitReview flags a regular line item as reviewed and appends the review
// under its food id. With itemID the named item is flagged and must exist.
// Without it the newest unreviewed regular item for the food is flagged,
// restricted to email's orders when email is set; if none is left the
// review is stored alone. Custom burger items are never flagged.
func (s *Store) SubmitReview(ctx context.Context, itemID, email string, r *models.Review) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if itemID == "" {
			var err error
			if itemID, err = unreviewedItem(tx, r.FoodID, email); err != nil {
				return err
			}
		}
		if itemID != "" {
			res := tx.Model(&models.LineItem{}).
				Where("id = ? AND kind = ?", itemID, models.KindRegular).
				Update("reviewed", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("regular item %s: %w", itemID, ErrNotFound)
			}
		}
		return tx.Create(r).Error
	})
}

func unreviewedItem(tx *gorm.DB, foodID, email string) (string, error) {
	q := tx.Model(&models.LineItem{}).
		Joins("JOIN orders ON orders.id = line_items.order_id").
		Where("line_items.food_id = ? AND line_items.kind = ? AND line_items.reviewed = ?", foodID, models.KindRegular, false)
	if email != "" {
		q = q.Where("orders.email = ?", email)
	}
	var ids []string
	err := q.Order("orders.sequence desc").Limit(1).Pluck("line_items.id", &ids).Error
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}

func (s *Store) ReviewsForFood(ctx context.Context, foodID string) ([]models.Review, error) {
	var rs []models.Review
	err := s.db.WithContext(ctx).Where("food_id = ?", foodID).Order("id desc").Find(&rs).Error
	return rs, err
}

// CreateVerification stores a digest of code for email. Earlier codes for
// the same email stay valid.
func (s *Store) CreateVerification(ctx context.Context, email, code string) error {
	return s.db.WithContext(ctx).Create(&models.EmailVerification{
		Email:    email,
		CodeHash: codeDigest(code),
	}).Error
}

// VerifyEmail marks the outstanding record whose code matches as verified.
// It reports false when no outstanding code matches.
func (s *Store) VerifyEmail(ctx context.Context, email, code string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.EmailVerification{}).
		Where("email = ? AND code_hash = ? AND verified = ?", email, codeDigest(code), false).
		Update("verified", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// codeDigest is a fixed-length lookup key for a verification code. The codes
// are random and short-lived, so a fast hash is enough.
func codeDigest(code string) string {
	sum := blake2b.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func (s *Store) VerificationStatus(ctx context.Context, email string) (models.VerificationStatus, error) {
	var total, verified int64
	db := s.db.WithContext(ctx).Model(&models.EmailVerification{})
	if err := db.Where("email = ?", email).Count(&total).Error; err != nil {
		return "", err
	}
	if total == 0 {
		return models.VerificationUnregistered, nil
	}
	err := s.db.WithContext(ctx).Model(&models.EmailVerification{}).
		Where("email = ? AND verified = ?", email, true).
		Count(&verified).Error
	if err != nil {
		return "", err
	}
	if verified > 0 {
		return models.VerificationVerified, nil
	}
	return models.VerificationPending, nil
}
