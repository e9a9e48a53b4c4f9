package seed

import (
	"context"
	"errors"

	appModels "github.com/ecoquest/backend/internal/app/models"
	appRepos "github.com/ecoquest/backend/internal/app/repositories"
	appServices "github.com/ecoquest/backend/internal/app/services"
	"github.com/ecoquest/backend/internal/pkg/auth"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// defaultRewards is the initial reward catalog. Seeding is idempotent, so
// edits here only add rows; existing rows keep their values.
var defaultRewards = []appModels.Reward{
	{Name: "EcoQuest Tote Bag", Description: "Reusable cotton tote bag with the EcoQuest logo", Category: "merchandise", PointsRequired: 500},
	{Name: "Steel Water Bottle", Description: "Insulated stainless steel bottle", Category: "merchandise", PointsRequired: 1000},
	{Name: "Tree Planted in Your Name", Description: "We plant a native tree and send you the location", Category: "impact", PointsRequired: 2000},
	{Name: "Eco Store Voucher", Description: "Discount voucher for partner zero-waste stores", Category: "voucher", PointsRequired: 3000},
	{Name: "Cleanup Kit", Description: "Gloves, grabber and sorting bags for independent cleanups", Category: "merchandise", PointsRequired: 5000},
}

// CreateDefaultData seeds the badge catalog, the reward catalog and a default
// admin account. Every step is idempotent; collected errors are returned
// without stopping the remaining steps.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (badges, rewards, admin)...")
	var finalErr error

	if err := seedBadges(ctx, dbPool); err != nil {
		lgr.Error().Err(err).Msg("Error seeding badge catalog")
		finalErr = errors.Join(finalErr, err)
	}

	if err := seedRewards(ctx, dbPool); err != nil {
		lgr.Error().Err(err).Msg("Error seeding reward catalog")
		finalErr = errors.Join(finalErr, err)
	}

	if err := seedAdminUser(ctx, dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin user")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

// seedBadges inserts the badge catalog rows that badge evaluation matches by
// name. Rules without a catalog row are never awarded, so the catalog and the
// rule set come from the same source.
func seedBadges(ctx context.Context, dbPool *pgxpool.Pool) error {
	query := `
		INSERT INTO badges (name, description, category, rarity, icon_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO NOTHING
	`

	var finalErr error
	for _, rule := range appServices.BadgeRules() {
		_, err := dbPool.Exec(ctx, query, rule.Name, rule.Description, rule.Category, rule.Rarity, rule.IconURL)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}
	return finalErr
}

func seedRewards(ctx context.Context, dbPool *pgxpool.Pool) error {
	query := `
		INSERT INTO rewards (name, description, category, points_required, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (name) DO NOTHING
	`

	var finalErr error
	for _, reward := range defaultRewards {
		_, err := dbPool.Exec(ctx, query, reward.Name, reward.Description, reward.Category, reward.PointsRequired)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}
	return finalErr
}

func seedAdminUser(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	const adminEmail = "admin@ecoquest.app"
	exists, err := userRepo.EmailExists(ctx, adminEmail)
	if err != nil {
		return err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	lgr.Info().Msg("Creating default admin user...")
	hashedPassword, err := auth.HashPassword("Admin123!")
	if err != nil {
		return err
	}

	admin := &appModels.User{
		Email:       adminEmail,
		Password:    hashedPassword,
		FirstName:   "System",
		LastName:    "Administrator",
		Role:        appModels.RoleAdmin,
		IsOnboarded: true,
		IsActive:    true,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
	return nil
}
