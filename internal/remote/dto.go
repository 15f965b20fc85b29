// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import "time"

// # Identity

// User is the marketplace account as returned by /auth/* and /users/me.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	CityID    string `json:"cityId,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Password            string `json:"password"`
	Role                string `json:"role"`
	CityID              string `json:"cityId,omitempty"`
	AcceptPrivacyPolicy bool   `json:"acceptPrivacyPolicy"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expiresIn"`
}

// RefreshResponse is returned by POST /auth/refresh.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// Lifetime converts ExpiresIn to a duration.
func (response RefreshResponse) Lifetime() time.Duration {
	return time.Duration(response.ExpiresIn) * time.Second
}

// Lifetime converts ExpiresIn to a duration.
func (response AuthResponse) Lifetime() time.Duration {
	return time.Duration(response.ExpiresIn) * time.Second
}

// # Marketplace

// OfferStatus is the provider-side lifecycle of an offer on a request.
type OfferStatus string

const (
	OfferSent      OfferStatus = "sent"
	OfferAccepted  OfferStatus = "accepted"
	OfferDeclined  OfferStatus = "declined"
	OfferWithdrawn OfferStatus = "withdrawn"
)

// Offer is a provider's response to a client's service request.
type Offer struct {
	ID             string      `json:"id"`
	RequestID      string      `json:"requestId"`
	ProviderUserID string      `json:"providerUserId"`
	ClientUserID   string      `json:"clientUserId"`
	Status         OfferStatus `json:"status"`
	Message        string      `json:"message,omitempty"`
	Amount         any         `json:"amount,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// RequestResponse is a public service request as served by the API.
//
// Numeric fields the API has been seen to send as strings or null are typed
// any and coerced by the view-model builder.
type RequestResponse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ServiceKey      string   `json:"serviceKey"`
	ServiceName     string   `json:"serviceName"`
	CategoryKey     string   `json:"categoryKey"`
	CategoryName    string   `json:"categoryName"`
	SubcategoryName string   `json:"subcategoryName"`
	CityID          string   `json:"cityId"`
	CityName        string   `json:"cityName"`
	Price           any      `json:"price"`
	PreferredDate   string   `json:"preferredDate"`
	IsRecurring     bool     `json:"isRecurring"`
	Tags            []string `json:"tags"`
	Photos          []string `json:"photos"`
	ImageURL        string   `json:"imageUrl"`
	Status          string   `json:"status"`
	CreatedAt       string   `json:"createdAt"`

	ClientID          string `json:"clientId"`
	ClientName        string `json:"clientName"`
	ClientAvatarURL   string `json:"clientAvatarUrl"`
	ClientCityName    string `json:"clientCity"`
	ClientRatingAvg   any    `json:"clientRatingAvg"`
	ClientRatingCount any    `json:"clientRatingCount"`
}

// Service is a catalog entry (a subcategory) belonging to one category.
type Service struct {
	Key         string `json:"key"`
	CategoryKey string `json:"categoryKey"`
	Name        string `json:"name"`
}
