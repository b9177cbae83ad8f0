package store

import (
	"context"
	"fmt"

	"dinedash-server/models"

	"gorm.io/gorm"
)

// submitRequest inserts an onboarding request, or reopens a rejected one
// from the same applicant. Pending and accepted requests cannot be resubmitted.
func (s *Store) submitRequest(ctx context.Context, email string, req any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var statuses []models.RequestStatus
		if err := tx.Model(req).Where("email = ?", email).Pluck("status", &statuses).Error; err != nil {
			return err
		}
		if len(statuses) == 0 {
			return notFound(tx.Create(req).Error, "request "+email)
		}
		if statuses[0] != models.RequestRejected {
			return fmt.Errorf("request of %s is %s: %w", email, statuses[0], ErrConflict)
		}
		return tx.Model(req).
			Where("email = ?", email).
			Select("*").
			Omit("id", "created_at").
			Updates(req).Error
	})
}

// setRequestStatus updates the status of email's request and reloads it
// into dest.
func setRequestStatus(tx *gorm.DB, dest any, email string, status models.RequestStatus) error {
	res := tx.Model(dest).Where("email = ?", email).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("request of %s: %w", email, ErrNotFound)
	}
	return tx.Where("email = ?", email).First(dest).Error
}

func (s *Store) SubmitPartnerRequest(ctx context.Context, req *models.PartnerRequest) error {
	req.ID = 0
	req.Status = models.RequestPending
	req.Resolved = false
	return s.submitRequest(ctx, req.Email, req)
}

func (s *Store) PartnerRequest(ctx context.Context, email string) (*models.PartnerRequest, error) {
	var req models.PartnerRequest
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&req).Error; err != nil {
		return nil, notFound(err, "partner request "+email)
	}
	return &req, nil
}

func (s *Store) PendingPartnerRequests(ctx context.Context) ([]models.PartnerRequest, error) {
	var reqs []models.PartnerRequest
	err := s.db.WithContext(ctx).Where("status = ?", models.RequestPending).Order("id").Find(&reqs).Error
	return reqs, err
}

// AcceptPartnerRequest marks the request accepted and appends a
// restaurant-handler role for the applicant.
func (s *Store) AcceptPartnerRequest(ctx context.Context, email string) (*models.PartnerRequest, error) {
	var req models.PartnerRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := setRequestStatus(tx, &req, email, models.RequestAccepted); err != nil {
			return err
		}
		return tx.Create(&models.RoleRecord{Email: email, Role: models.RoleRestaurantHandler}).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// RejectPartnerRequest leaves Resolved untouched.
func (s *Store) RejectPartnerRequest(ctx context.Context, email string) (*models.PartnerRequest, error) {
	var req models.PartnerRequest
	if err := setRequestStatus(s.db.WithContext(ctx), &req, email, models.RequestRejected); err != nil {
		return nil, err
	}
	return &req, nil
}

// RegisterRestaurant creates the restaurant and resolves the applicant's
// partner request. Acceptance is not checked.
func (s *Store) RegisterRestaurant(ctx context.Context, email, name, thumbnail string) (*models.Restaurant, error) {
	r := &models.Restaurant{
		Name:      name,
		Thumbnail: thumbnail,
		Pathname:  models.PathnameFor(name),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Restaurant{}).Where("pathname = ?", r.Pathname).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("restaurant %q: %w", r.Pathname, ErrConflict)
		}
		if err := tx.Create(r).Error; err != nil {
			return notFound(err, "restaurant "+r.Pathname)
		}
		return tx.Model(&models.PartnerRequest{}).Where("email = ?", email).Update("resolved", true).Error
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) SubmitRiderRequest(ctx context.Context, req *models.RiderRequest) error {
	req.ID = 0
	req.Status = models.RequestPending
	req.Resolved = false
	return s.submitRequest(ctx, req.Email, req)
}

func (s *Store) RiderRequest(ctx context.Context, email string) (*models.RiderRequest, error) {
	var req models.RiderRequest
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&req).Error; err != nil {
		return nil, notFound(err, "rider request "+email)
	}
	return &req, nil
}

func (s *Store) PendingRiderRequests(ctx context.Context) ([]models.RiderRequest, error) {
	var reqs []models.RiderRequest
	err := s.db.WithContext(ctx).Where("status = ?", models.RequestPending).Order("id").Find(&reqs).Error
	return reqs, err
}

// AcceptRiderRequest marks the request accepted and appends a rider role.
func (s *Store) AcceptRiderRequest(ctx context.Context, email string) (*models.RiderRequest, error) {
	var req models.RiderRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := setRequestStatus(tx, &req, email, models.RequestAccepted); err != nil {
			return err
		}
		return tx.Create(&models.RoleRecord{Email: email, Role: models.RoleRider}).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) RejectRiderRequest(ctx context.Context, email string) (*models.RiderRequest, error) {
	var req models.RiderRequest
	if err := setRequestStatus(s.db.WithContext(ctx), &req, email, models.RequestRejected); err != nil {
		return nil, err
	}
	return &req, nil
}

// RegisterRider creates the rider with zeroed counters and resolves the
// applicant's rider request.
func (s *Store) RegisterRider(ctx context.Context, rider *models.Rider) error {
	rider.ID = 0
	rider.Delivered = 0
	rider.Earned = 0
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Rider{}).Where("email = ? OR name = ?", rider.Email, rider.Name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("rider %q: %w", rider.Name, ErrConflict)
		}
		if err := tx.Create(rider).Error; err != nil {
			return notFound(err, "rider "+rider.Name)
		}
		return tx.Model(&models.RiderRequest{}).Where("email = ?", rider.Email).Update("resolved", true).Error
	})
}

func (s *Store) RiderByEmail(ctx context.Context, email string) (*models.Rider, error) {
	var r models.Rider
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&r).Error; err != nil {
		return nil, notFound(err, "rider "+email)
	}
	return &r, nil
}
