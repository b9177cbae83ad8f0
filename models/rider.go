package models

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// PartnerRequest is a restaurant onboarding application. Resolved flips only
// when the restaurant is registered, which is a separate step from acceptance.
type PartnerRequest struct {
	ID             uint           `json:"_id" gorm:"primaryKey"`
	Email          string         `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Name           string         `json:"name"`
	RestaurantName string         `json:"restaurantName"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	Details        map[string]any `json:"details,omitempty" gorm:"serializer:json"`
	Status         RequestStatus  `json:"status" gorm:"index;not null;default:'pending'"`
	Resolved       bool           `json:"resolved"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// RiderRequest is a rider onboarding application.
type RiderRequest struct {
	ID        uint           `json:"_id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Region    string         `json:"region"`
	Vehicle   string         `json:"vehicle"`
	Details   map[string]any `json:"details,omitempty" gorm:"serializer:json"`
	Status    RequestStatus  `json:"status" gorm:"index;not null;default:'pending'"`
	Resolved  bool           `json:"resolved"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Rider counters change only through delivery completion.
type Rider struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:191;not null"`
	Phone     string    `json:"phone"`
	Region    string    `json:"region" gorm:"index"`
	Delivered int       `json:"delivered"`
	Earned    int       `json:"earned"`
	CreatedAt time.Time `json:"createdAt"`
}
