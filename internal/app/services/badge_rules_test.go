package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoquest/backend/internal/app/models"
)

func ruleByName(t *testing.T, name string) BadgeRule {
	t.Helper()
	for _, rule := range BadgeRules() {
		if rule.Name == name {
			return rule
		}
	}
	t.Fatalf("no badge rule named %q", name)
	return BadgeRule{}
}

func TestBadgeRulesCatalogShape(t *testing.T) {
	rules := BadgeRules()
	assert.Len(t, rules, 17)

	seen := make(map[string]bool)
	for _, rule := range rules {
		assert.NotEmpty(t, rule.Name)
		assert.NotEmpty(t, rule.Description)
		assert.Contains(t, []string{"participation", "waste", "achievement", "streak", "special"}, rule.Category)
		assert.Contains(t, []string{"common", "uncommon", "rare", "epic", "legendary"}, rule.Rarity)
		assert.NotEmpty(t, rule.IconURL)
		require.NotNil(t, rule.Check)

		assert.False(t, seen[rule.Name], "duplicate badge name %q", rule.Name)
		seen[rule.Name] = true
	}
}

func TestParticipationBadgeThresholds(t *testing.T) {
	tests := []struct {
		badge     string
		events    int
		wantEarns bool
	}{
		{"First Steps", 0, false},
		{"First Steps", 1, true},
		{"Eco Warrior", 4, false},
		{"Eco Warrior", 5, true},
		{"Green Champion", 15, true},
		{"Environmental Hero", 29, false},
		{"Environmental Hero", 30, true},
	}

	for _, tt := range tests {
		rule := ruleByName(t, tt.badge)
		stats := BadgeStats{XP: models.UserXP{TotalEventsParticipated: tt.events}}
		assert.Equal(t, tt.wantEarns, rule.Check(stats), "%s at %d events", tt.badge, tt.events)
	}
}

func TestWasteBadgeThresholds(t *testing.T) {
	tests := []struct {
		badge     string
		wasteKg   float64
		wantEarns bool
	}{
		{"Waste Collector", 0.5, false},
		{"Waste Collector", 1, true},
		{"Cleanup Specialist", 25, true},
		{"Waste Warrior", 99.9, false},
		{"Waste Warrior", 100, true},
		{"Planet Protector", 500, true},
	}

	for _, tt := range tests {
		rule := ruleByName(t, tt.badge)
		stats := BadgeStats{XP: models.UserXP{TotalWasteCollected: tt.wasteKg}}
		assert.Equal(t, tt.wantEarns, rule.Check(stats), "%s at %.1f kg", tt.badge, tt.wasteKg)
	}
}

func TestXPBadgeThresholds(t *testing.T) {
	tests := []struct {
		badge     string
		totalXP   int
		wantEarns bool
	}{
		{"Rising Star", 499, false},
		{"Rising Star", 500, true},
		{"Experienced Volunteer", 2000, true},
		{"Master Volunteer", 10000, true},
		{"Legendary Eco-Activist", 49999, false},
		{"Legendary Eco-Activist", 50000, true},
	}

	for _, tt := range tests {
		rule := ruleByName(t, tt.badge)
		stats := BadgeStats{XP: models.UserXP{TotalXP: tt.totalXP}}
		assert.Equal(t, tt.wantEarns, rule.Check(stats), "%s at %d XP", tt.badge, tt.totalXP)
	}
}

func TestStreakBadgeThresholds(t *testing.T) {
	tests := []struct {
		badge     string
		streak    int
		wantEarns bool
	}{
		{"Consistent Helper", 2, false},
		{"Consistent Helper", 3, true},
		{"Dedication Master", 7, true},
		{"Unstoppable Force", 14, false},
		{"Unstoppable Force", 15, true},
	}

	for _, tt := range tests {
		rule := ruleByName(t, tt.badge)
		stats := BadgeStats{XP: models.UserXP{CurrentStreak: tt.streak}}
		assert.Equal(t, tt.wantEarns, rule.Check(stats), "%s at streak %d", tt.badge, tt.streak)
	}
}

func TestSpecialBadges(t *testing.T) {
	t.Run("early adopter depends on user ID", func(t *testing.T) {
		rule := ruleByName(t, "Early Adopter")
		assert.True(t, rule.Check(BadgeStats{UserID: 100}))
		assert.False(t, rule.Check(BadgeStats{UserID: 101}))
	})

	t.Run("community builder depends on registrations", func(t *testing.T) {
		rule := ruleByName(t, "Community Builder")
		assert.False(t, rule.Check(BadgeStats{RegistrationCount: 9}))
		assert.True(t, rule.Check(BadgeStats{RegistrationCount: 10}))
	})
}
