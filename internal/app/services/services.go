// Package services contains the business logic layer.
//
// Services defined in this package:
// - AuthService: authentication, registration and token lifecycle
// - UserService: profiles, onboarding and home location
// - EventService: event lifecycle and proximity search
// - RegistrationService: the registration ledger and check-ins
// - ParticipationService: waste submissions, verification and feedback
// - GamificationService: the XP ledger, levels, badges and leaderboard
// - RewardService: the reward catalog and redemptions
// - NGOService: NGO profiles and impact statistics
package services
