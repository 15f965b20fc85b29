// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package filters keeps the request-list filter state and its URL in step.

Local state is the source of truth. The incoming query only seeds it; every
change is serialised and written back with a replace (never a push), and
only when the serialised form actually changed.
*/
package filters

import (
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/constants"
	"github.com/RisinaLiliia/deczhen-client/internal/remote"
	"github.com/RisinaLiliia/deczhen-client/pkg/pagination"
	"github.com/RisinaLiliia/deczhen-client/pkg/slice"
)

// All is the "no filter" sentinel.
const All = "all"

// Query parameter names.
const (
	ParamCategory    = "categoryKey"
	ParamSubcategory = "subcategoryKey"
	ParamService     = "serviceKey"
	ParamCity        = "cityId"
	ParamSort        = "sort"
	ParamPage        = "page"
	ParamLimit       = "limit"
)

// State is the filter selection of the request list.
type State struct {
	CategoryKey    string `json:"categoryKey"`
	SubcategoryKey string `json:"subcategoryKey"`
	CityID         string `json:"cityId"`
	SortBy         string `json:"sortBy"`
	Page           int    `json:"page"`
	Limit          int    `json:"limit"`
}

// Defaults are the values left out of the URL.
type Defaults struct {
	SortBy string
	Limit  int
}

// Navigator replaces the current location without adding a history entry.
type Navigator interface {
	Replace(location string)
}

// Controller owns one filter state. It is safe for concurrent use; the
// navigator is called with the controller locked and must not call back.
type Controller struct {
	mu        sync.Mutex
	state     State
	services  []remote.Service
	defaults  Defaults
	nav       Navigator
	lastQuery string
}

// NewController seeds the state from query. The limit is read once here and
// never changes afterwards.
func NewController(query url.Values, services []remote.Service, nav Navigator, defaults Defaults) *Controller {
	if defaults.Limit < 1 || defaults.Limit > pagination.MaxLimit {
		defaults.Limit = pagination.DefaultLimit
	}
	params := pagination.FromValues(query, defaults.Limit)

	subcategory := query.Get(ParamSubcategory)
	if strings.TrimSpace(subcategory) == "" {
		subcategory = query.Get(ParamService)
	}

	controller := &Controller{
		state: State{
			CategoryKey:    orAll(query.Get(ParamCategory)),
			SubcategoryKey: orAll(subcategory),
			CityID:         orAll(query.Get(ParamCity)),
			SortBy:         orDefault(query.Get(ParamSort), defaults.SortBy),
			Page:           params.Page,
			Limit:          params.Limit,
		},
		services:  append([]remote.Service(nil), services...),
		defaults:  defaults,
		nav:       nav,
		lastQuery: query.Encode(),
	}

	controller.mu.Lock()
	controller.commitLocked()
	controller.mu.Unlock()

	return controller
}

// # Reads

// State returns the current selection.
func (controller *Controller) State() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state
}

// FilteredServices lists the services of the selected category; empty for All.
func (controller *Controller) FilteredServices() []remote.Service {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.filteredLocked()
}

// Query is the canonical query string of the current state.
func (controller *Controller) Query() string {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.encodeLocked()
}

// Location is the request-list path with the canonical query.
func (controller *Controller) Location() string {
	return location(controller.Query())
}

// # Setters

// SetCategory selects a category and goes back to page 1.
//
// Changing the category drops the selected service unless it belongs to the
// new category. Clearing the category always drops it.
func (controller *Controller) SetCategory(key string) {
	controller.mutate(func(state *State) {
		next := orAll(key)
		if next != state.CategoryKey && !controller.ownedLocked(next, state.SubcategoryKey) {
			state.SubcategoryKey = All
		}
		state.CategoryKey = next
		state.Page = pagination.DefaultPage
	})
}

// SetSubcategory selects a service and goes back to page 1.
func (controller *Controller) SetSubcategory(key string) {
	controller.mutate(func(state *State) {
		state.SubcategoryKey = orAll(key)
		state.Page = pagination.DefaultPage
	})
}

// SetCity selects a city and goes back to page 1.
func (controller *Controller) SetCity(id string) {
	controller.mutate(func(state *State) {
		state.CityID = orAll(id)
		state.Page = pagination.DefaultPage
	})
}

// SetSort changes the order and goes back to page 1.
func (controller *Controller) SetSort(sortBy string) {
	controller.mutate(func(state *State) {
		state.SortBy = orDefault(sortBy, controller.defaults.SortBy)
		state.Page = pagination.DefaultPage
	})
}

// SetPage changes only the page. Values below 1 become 1.
func (controller *Controller) SetPage(page int) {
	controller.mutate(func(state *State) {
		state.Page = max(page, pagination.DefaultPage)
	})
}

// SetServices replaces the catalogue, e.g. once it finished loading.
func (controller *Controller) SetServices(services []remote.Service) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.services = append([]remote.Service(nil), services...)
	controller.commitLocked()
}

// # Internals

func (controller *Controller) mutate(change func(state *State)) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	change(&controller.state)
	controller.commitLocked()
}

// commitLocked reconciles the selection with the catalogue and writes the
// URL when its serialised form changed.
func (controller *Controller) commitLocked() {
	state := &controller.state

	// (a) A service picked without a category implies its category.
	if state.CategoryKey == All && state.SubcategoryKey != All {
		for _, service := range controller.services {
			if service.Key == state.SubcategoryKey && service.CategoryKey != "" {
				state.CategoryKey = service.CategoryKey
				break
			}
		}
	}

	// (b) A service outside the selected category is dropped. Skipped until
	// the catalogue is known so a deep link survives its loading.
	if state.SubcategoryKey != All && len(controller.services) > 0 {
		owned := false
		for _, service := range controller.filteredLocked() {
			if service.Key == state.SubcategoryKey {
				owned = true
				break
			}
		}
		if !owned {
			state.SubcategoryKey = All
		}
	}

	query := controller.encodeLocked()
	if query == controller.lastQuery {
		return
	}
	controller.lastQuery = query
	if controller.nav != nil {
		controller.nav.Replace(location(query))
	}
}

// ownedLocked reports whether serviceKey may stay selected under category.
// With no catalogue yet the owner is unknown and only "all" disowns it.
func (controller *Controller) ownedLocked(category, serviceKey string) bool {
	if category == All {
		return false
	}
	if len(controller.services) == 0 {
		return true
	}
	for _, service := range controller.services {
		if service.Key == serviceKey {
			return service.CategoryKey == category
		}
	}
	return false
}

func (controller *Controller) filteredLocked() []remote.Service {
	category := controller.state.CategoryKey
	if category == All {
		return []remote.Service{}
	}
	return slice.Filter(controller.services, func(service remote.Service) bool {
		return service.CategoryKey == category
	})
}

// encodeLocked omits sentinels and defaults; url.Values sorts keys.
func (controller *Controller) encodeLocked() string {
	state := controller.state
	values := url.Values{}

	if state.CategoryKey != All {
		values.Set(ParamCategory, state.CategoryKey)
	}
	if state.SubcategoryKey != All {
		values.Set(ParamSubcategory, state.SubcategoryKey)
	}
	if state.CityID != All {
		values.Set(ParamCity, state.CityID)
	}
	if state.SortBy != "" && state.SortBy != controller.defaults.SortBy {
		values.Set(ParamSort, state.SortBy)
	}
	if state.Page > pagination.DefaultPage {
		values.Set(ParamPage, strconv.Itoa(state.Page))
	}
	if state.Limit != controller.defaults.Limit {
		values.Set(ParamLimit, strconv.Itoa(state.Limit))
	}

	return values.Encode()
}

func location(query string) string {
	if query == "" {
		return constants.RequestsListPath
	}
	return constants.RequestsListPath + "?" + query
}

func orAll(value string) string {
	if value = strings.TrimSpace(value); value == "" {
		return All
	}
	return value
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value == "" {
		return fallback
	}
	return value
}
