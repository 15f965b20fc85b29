// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requests_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RisinaLiliia/deczhen-client/internal/remote"
	"github.com/RisinaLiliia/deczhen-client/internal/requests"
)

func build(request remote.RequestResponse, online bool) requests.RequestViewModel {
	return requests.BuildRequestDetailsViewModel(requests.ViewModelInput{
		Request:        request,
		T:              func(key string) string { return "t:" + key },
		FormatPrice:    func(amount float64) string { return fmt.Sprintf("€%.2f", amount) },
		FormatDate:     func(date time.Time) string { return date.Format("2006/01/02") },
		IsClientOnline: online,
	})
}

/*
TestBuildRequestDetailsViewModel_Complete verifies a fully populated request.
*/
func TestBuildRequestDetailsViewModel_Complete(t *testing.T) {
	model := build(remote.RequestResponse{
		ID:                "r1",
		Title:             " Deep cleaning ",
		Description:       "Three rooms",
		CategoryKey:       "cleaning",
		CategoryName:      "Cleaning",
		SubcategoryName:   "Apartment cleaning",
		CityName:          "Berlin",
		Price:             120.0,
		PreferredDate:     "2025-03-10T08:00:00.000Z",
		CreatedAt:         "2025-03-01",
		Tags:              []string{"weekly", " ", "eco"},
		Photos:            []string{"/p/1.jpg"},
		ImageURL:          "/p/cover.jpg",
		ClientName:        "Anna",
		ClientAvatarURL:   "/a/anna.jpg",
		ClientRatingAvg:   4.76,
		ClientRatingCount: "12",
	}, true)

	assert.Equal(t, "Deep cleaning", model.Title)
	assert.Equal(t, "Three rooms", model.Description)
	assert.Equal(t, []string{"weekly", "eco"}, model.TagList)
	assert.Equal(t, "€120.00", model.PriceLabel)
	assert.True(t, model.HasPrice)
	assert.Equal(t, "2025/03/10", model.PreferredDateLabel)
	assert.Equal(t, "2025/03/01", model.CreatedAtLabel)
	assert.Equal(t, []string{"/p/1.jpg", "/p/cover.jpg"}, model.Images)
	assert.Equal(t, "/p/1.jpg", model.CoverImage)
	assert.Equal(t, "Anna", model.ClientName)
	assert.Equal(t, "Berlin", model.ClientCity)
	assert.Equal(t, "4.8", model.ClientRatingText)
	assert.Equal(t, 12, model.ClientRatingCount)
	assert.Equal(t, requests.ClientOnline, model.ClientStatus)
	assert.Equal(t, "t:presence.online", model.ClientStatusLabel)
	assert.Equal(t, "t:requests.one_off", model.RecurrenceLabel)
}

/*
TestBuildRequestDetailsViewModel_EmptyRequest verifies every field has a fallback.
*/
func TestBuildRequestDetailsViewModel_EmptyRequest(t *testing.T) {
	model := build(remote.RequestResponse{}, false)

	assert.Equal(t, "t:requests.untitled", model.Title)
	assert.Equal(t, "t:requests.no_description", model.Description)
	assert.NotNil(t, model.TagList)
	assert.Empty(t, model.TagList)
	assert.Equal(t, "t:requests.price_on_request", model.PriceLabel)
	assert.False(t, model.HasPrice)
	assert.Equal(t, requests.DateSentinel, model.PreferredDateLabel)
	assert.Equal(t, requests.DateSentinel, model.CreatedAtLabel)
	assert.Equal(t, []string{requests.GenericPlaceholder}, model.Images)
	assert.Equal(t, "t:requests.client_fallback_name", model.ClientName)
	assert.Equal(t, requests.AvatarPlaceholder, model.ClientAvatarURL)
	assert.Equal(t, "0.0", model.ClientRatingText)
	assert.Equal(t, 0, model.ClientRatingCount)
	assert.Equal(t, requests.ClientOffline, model.ClientStatus)
	assert.Equal(t, "t:presence.offline", model.ClientStatusLabel)
}

/*
TestBuildRequestDetailsViewModel_Tags checks the category/service fallback.
*/
func TestBuildRequestDetailsViewModel_Tags(t *testing.T) {
	tests := []struct {
		name    string
		request remote.RequestResponse
		want    []string
	}{
		{"explicit", remote.RequestResponse{Tags: []string{"a"}, CategoryName: "Cleaning"}, []string{"a"}},
		{"blank_tags_fall_back", remote.RequestResponse{Tags: []string{" ", ""}, CategoryName: "Cleaning", SubcategoryName: "Windows"}, []string{"Cleaning", "Windows"}},
		{"service_name_when_no_subcategory", remote.RequestResponse{CategoryName: "Repairs", ServiceName: "Plumbing"}, []string{"Repairs", "Plumbing"}},
		{"only_service", remote.RequestResponse{ServiceName: "Plumbing"}, []string{"Plumbing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, build(tt.request, false).TagList)
		})
	}
}

/*
TestBuildRequestDetailsViewModel_Price checks which values count as a price.
*/
func TestBuildRequestDetailsViewModel_Price(t *testing.T) {
	tests := []struct {
		name  string
		price any
		want  string
	}{
		{"number", 80.5, "€80.50"},
		{"numeric_string", "99", "€99.00"},
		{"zero", 0.0, "t:requests.price_on_request"},
		{"negative", -10.0, "t:requests.price_on_request"},
		{"null", nil, "t:requests.price_on_request"},
		{"garbage", "ask me", "t:requests.price_on_request"},
		{"not_a_number", "NaN", "t:requests.price_on_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, build(remote.RequestResponse{Price: tt.price}, false).PriceLabel)
		})
	}
}

/*
TestBuildRequestDetailsViewModel_PreferredDate checks the date sentinel policy.
*/
func TestBuildRequestDetailsViewModel_PreferredDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"calendar_date", "2025-12-31", "2025/12/31"},
		{"rfc3339", "2025-06-01T23:30:00+02:00", "2025/06/01"},
		{"impossible_day", "2024-02-30", requests.DateSentinel},
		{"garbage", "next tuesday", requests.DateSentinel},
		{"short", "2025", requests.DateSentinel},
		{"empty", "", requests.DateSentinel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, build(remote.RequestResponse{PreferredDate: tt.raw}, false).PreferredDateLabel)
		})
	}
}

/*
TestBuildRequestDetailsViewModel_Images verifies dedupe, cap and placeholders.
*/
func TestBuildRequestDetailsViewModel_Images(t *testing.T) {
	t.Run("dedupe_and_cap", func(t *testing.T) {
		model := build(remote.RequestResponse{
			Photos:   []string{"/1.jpg", " /1.jpg ", "", "/2.jpg", "/3.jpg", "/4.jpg", "/5.jpg"},
			ImageURL: "/cover.jpg",
		}, false)

		assert.Equal(t, []string{"/1.jpg", "/2.jpg", "/3.jpg", "/4.jpg"}, model.Images)
	})

	t.Run("cover_only", func(t *testing.T) {
		model := build(remote.RequestResponse{ImageURL: " /cover.jpg "}, false)
		assert.Equal(t, []string{"/cover.jpg"}, model.Images)
	})

	t.Run("category_placeholder", func(t *testing.T) {
		model := build(remote.RequestResponse{CategoryKey: "Home Cleaning"}, false)
		require.Len(t, model.Images, 1)
		assert.Equal(t, "/images/categories/home-cleaning.jpg", model.Images[0])
		assert.Equal(t, model.Images[0], model.CoverImage)
	})
}

/*
TestBuildRequestDetailsViewModel_Rating verifies average and count fall back independently.
*/
func TestBuildRequestDetailsViewModel_Rating(t *testing.T) {
	tests := []struct {
		name      string
		average   any
		count     any
		wantText  string
		wantCount int
	}{
		{"count_without_average", nil, 7.0, "0.0", 7},
		{"average_without_count", "4.76", nil, "4.8", 0},
		{"both_garbage", "n/a", "many", "0.0", 0},
		{"negative_count", 3.0, -2.0, "3.0", 0},
		{"string_count", 5, "15", "5.0", 15},
		{"fractional_count", 4.0, 12.9, "4.0", 12},
		{"huge_count", 4.0, 1e20, "4.0", math.MaxInt32},
		{"huge_string_count", 4.0, "1e300", "4.0", math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := build(remote.RequestResponse{ClientRatingAvg: tt.average, ClientRatingCount: tt.count}, false)
			assert.Equal(t, tt.wantText, model.ClientRatingText)
			assert.Equal(t, tt.wantCount, model.ClientRatingCount)
		})
	}
}

/*
TestBuildRequestDetailsViewModel_DefaultHelpers verifies nil helpers are replaced.
*/
func TestBuildRequestDetailsViewModel_DefaultHelpers(t *testing.T) {
	model := requests.BuildRequestDetailsViewModel(requests.ViewModelInput{
		Request: remote.RequestResponse{Price: 1250.0, PreferredDate: "2025-03-10"},
	})

	assert.Equal(t, "Untitled request", model.Title)
	assert.Contains(t, model.PriceLabel, "EUR")
	assert.Equal(t, "Mar 10, 2025", model.PreferredDateLabel)
}
