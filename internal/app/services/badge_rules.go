package services

import "github.com/ecoquest/backend/internal/app/models"

// BadgeStats is the snapshot a badge requirement is evaluated against
type BadgeStats struct {
	UserID            int64
	XP                models.UserXP
	RegistrationCount int
}

// BadgeRule pairs a catalog entry with its earning requirement
type BadgeRule struct {
	Name        string
	Description string
	Category    string
	Rarity      string
	IconURL     string
	Check       func(stats BadgeStats) bool
}

// BadgeRules returns the built-in badge catalog. The seed step inserts these
// rows; EvaluateBadges matches earned rules back to rows by name.
func BadgeRules() []BadgeRule {
	return []BadgeRule{
		// Participation
		{
			Name:        "First Steps",
			Description: "Complete your first environmental cleanup event",
			Category:    "participation",
			Rarity:      "common",
			IconURL:     "/badges/first-steps.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalEventsParticipated >= 1 },
		},
		{
			Name:        "Eco Warrior",
			Description: "Participate in 5 environmental cleanup events",
			Category:    "participation",
			Rarity:      "uncommon",
			IconURL:     "/badges/eco-warrior.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalEventsParticipated >= 5 },
		},
		{
			Name:        "Green Champion",
			Description: "Participate in 15 environmental cleanup events",
			Category:    "participation",
			Rarity:      "rare",
			IconURL:     "/badges/green-champion.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalEventsParticipated >= 15 },
		},
		{
			Name:        "Environmental Hero",
			Description: "Participate in 30 environmental cleanup events",
			Category:    "participation",
			Rarity:      "epic",
			IconURL:     "/badges/environmental-hero.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalEventsParticipated >= 30 },
		},

		// Waste collection
		{
			Name:        "Waste Collector",
			Description: "Collect your first kilogram of waste",
			Category:    "waste",
			Rarity:      "common",
			IconURL:     "/badges/waste-collector.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalWasteCollected >= 1 },
		},
		{
			Name:        "Cleanup Specialist",
			Description: "Collect 25kg of waste across all events",
			Category:    "waste",
			Rarity:      "uncommon",
			IconURL:     "/badges/cleanup-specialist.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalWasteCollected >= 25 },
		},
		{
			Name:        "Waste Warrior",
			Description: "Collect 100kg of waste across all events",
			Category:    "waste",
			Rarity:      "rare",
			IconURL:     "/badges/waste-warrior.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalWasteCollected >= 100 },
		},
		{
			Name:        "Planet Protector",
			Description: "Collect 500kg of waste across all events",
			Category:    "waste",
			Rarity:      "epic",
			IconURL:     "/badges/planet-protector.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalWasteCollected >= 500 },
		},

		// XP milestones
		{
			Name:        "Rising Star",
			Description: "Reach 500 XP points",
			Category:    "achievement",
			Rarity:      "common",
			IconURL:     "/badges/rising-star.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalXP >= 500 },
		},
		{
			Name:        "Experienced Volunteer",
			Description: "Reach 2,000 XP points",
			Category:    "achievement",
			Rarity:      "uncommon",
			IconURL:     "/badges/experienced-volunteer.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalXP >= 2000 },
		},
		{
			Name:        "Master Volunteer",
			Description: "Reach 10,000 XP points",
			Category:    "achievement",
			Rarity:      "rare",
			IconURL:     "/badges/master-volunteer.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalXP >= 10000 },
		},
		{
			Name:        "Legendary Eco-Activist",
			Description: "Reach 50,000 XP points",
			Category:    "achievement",
			Rarity:      "legendary",
			IconURL:     "/badges/legendary-eco-activist.svg",
			Check:       func(s BadgeStats) bool { return s.XP.TotalXP >= 50000 },
		},

		// Streaks
		{
			Name:        "Consistent Helper",
			Description: "Maintain a 3-event participation streak",
			Category:    "streak",
			Rarity:      "uncommon",
			IconURL:     "/badges/consistent-helper.svg",
			Check:       func(s BadgeStats) bool { return s.XP.CurrentStreak >= 3 },
		},
		{
			Name:        "Dedication Master",
			Description: "Maintain a 7-event participation streak",
			Category:    "streak",
			Rarity:      "rare",
			IconURL:     "/badges/dedication-master.svg",
			Check:       func(s BadgeStats) bool { return s.XP.CurrentStreak >= 7 },
		},
		{
			Name:        "Unstoppable Force",
			Description: "Maintain a 15-event participation streak",
			Category:    "streak",
			Rarity:      "epic",
			IconURL:     "/badges/unstoppable-force.svg",
			Check:       func(s BadgeStats) bool { return s.XP.CurrentStreak >= 15 },
		},

		// Special
		{
			Name:        "Early Adopter",
			Description: "One of the first 100 users to join EcoQuest",
			Category:    "special",
			Rarity:      "rare",
			IconURL:     "/badges/early-adopter.svg",
			Check:       func(s BadgeStats) bool { return s.UserID <= 100 },
		},
		{
			Name:        "Community Builder",
			Description: "Register for 10 different events",
			Category:    "special",
			Rarity:      "uncommon",
			IconURL:     "/badges/community-builder.svg",
			Check:       func(s BadgeStats) bool { return s.RegistrationCount >= 10 },
		},
	}
}
