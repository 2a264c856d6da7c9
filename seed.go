package main

import (
	"log"

	"gorm.io/gorm"

	"quickstaff-server/models"
)

// seedServices populates the service catalog with a starter set. Runs only
// when SEED_DATA=true and skips entries that already exist by name.
func seedServices(db *gorm.DB) error {
	services := []models.Service{
		{Name: "House Cleaning", Category: "cleaning", Description: "General home cleaning", BasePrice: 25.00, DurationMinutes: 120},
		{Name: "Deep Cleaning", Category: "cleaning", Description: "Full deep clean including appliances", BasePrice: 45.00, DurationMinutes: 240},
		{Name: "Event Staffing", Category: "events", Description: "Waitstaff and support for private events", BasePrice: 30.00, DurationMinutes: 240},
		{Name: "Bartending", Category: "events", Description: "Licensed bartender for events", BasePrice: 35.00, DurationMinutes: 240},
		{Name: "Moving Help", Category: "labor", Description: "Loading, unloading and carrying", BasePrice: 28.00, DurationMinutes: 180},
		{Name: "Furniture Assembly", Category: "labor", Description: "Flat-pack furniture assembly", BasePrice: 22.00, DurationMinutes: 90},
		{Name: "Gardening", Category: "outdoor", Description: "Lawn mowing, weeding and planting", BasePrice: 20.00, DurationMinutes: 120},
		{Name: "Babysitting", Category: "care", Description: "Childcare at the client's home", BasePrice: 18.00, DurationMinutes: 180},
		{Name: "Pet Sitting", Category: "care", Description: "Walks and feeding while you're away", BasePrice: 15.00, DurationMinutes: 60},
		{Name: "Delivery Help", Category: "errands", Description: "Pickups, drop-offs and queueing", BasePrice: 16.00, DurationMinutes: 60},
	}

	seeded := 0
	for _, service := range services {
		var count int64
		if err := db.Model(&models.Service{}).Where("name = ?", service.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		service.IsActive = true
		if err := db.Create(&service).Error; err != nil {
			return err
		}
		seeded++
	}

	log.Printf("✅ Service catalog seeded: %d new entries", seeded)
	return nil
}
