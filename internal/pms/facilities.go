// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

// facilities.go - facility and amenity domain fetchers.

package pms

import (
	"context"
	"strings"

	"github.com/lodgelink/lodgelink/internal/models"
)

const (
	facilitiesEndpoint = "/api/v1/facilities"
	amenitiesEndpoint  = "/api/v1/amenities"
)

type xmlFacility struct {
	ID       string `xml:"FacilityId"`
	Name     string `xml:"Name"`
	Category string `xml:"Category"`
	Capacity int    `xml:"Capacity"`
	Status   string `xml:"Status"`
}

type facilitiesEnvelope struct {
	envelopeHeader
	Facilities []xmlFacility `xml:"Facilities>Facility"`
}

type xmlAmenity struct {
	ID         string  `xml:"AmenityId"`
	Name       string  `xml:"Name"`
	Category   string  `xml:"Category"`
	Chargeable bool    `xml:"Chargeable"`
	Price      float64 `xml:"Price"`
}

type amenitiesEnvelope struct {
	envelopeHeader
	Amenities []xmlAmenity `xml:"Amenities>Amenity"`
}

// GetFacilities fetches the on-site facility list.
func (c *Client) GetFacilities(ctx context.Context) ([]models.Facility, error) {
	return fetchAllPages(c.pageSize, func(page, pageSize int) ([]models.Facility, error) {
		var env facilitiesEnvelope
		if err := c.doRequest(ctx, requestConfig{endpoint: facilitiesEndpoint, query: pageQuery(page, pageSize)}, &env); err != nil {
			return nil, err
		}

		records := make([]models.Facility, 0, len(env.Facilities))
		for _, f := range env.Facilities {
			id := strings.TrimSpace(f.ID)
			if err := requireID(facilitiesEndpoint, "facility", id); err != nil {
				return nil, err
			}
			records = append(records, models.Facility{
				ID:       id,
				Name:     strings.TrimSpace(f.Name),
				Category: strings.ToLower(strings.TrimSpace(f.Category)),
				Capacity: f.Capacity,
				Status:   strings.ToLower(strings.TrimSpace(f.Status)),
			})
		}
		return records, nil
	})
}

// GetAmenities fetches the bookable amenity catalog.
func (c *Client) GetAmenities(ctx context.Context) ([]models.Amenity, error) {
	return fetchAllPages(c.pageSize, func(page, pageSize int) ([]models.Amenity, error) {
		var env amenitiesEnvelope
		if err := c.doRequest(ctx, requestConfig{endpoint: amenitiesEndpoint, query: pageQuery(page, pageSize)}, &env); err != nil {
			return nil, err
		}

		records := make([]models.Amenity, 0, len(env.Amenities))
		for _, a := range env.Amenities {
			id := strings.TrimSpace(a.ID)
			if err := requireID(amenitiesEndpoint, "amenity", id); err != nil {
				return nil, err
			}
			records = append(records, models.Amenity{
				ID:         id,
				Name:       strings.TrimSpace(a.Name),
				Category:   strings.ToLower(strings.TrimSpace(a.Category)),
				Chargeable: a.Chargeable,
				Price:      a.Price,
			})
		}
		return records, nil
	})
}
