package database

import (
	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Init(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate applies the schema and seeds the achievement catalog. Shared with
// the test harness, which opens its own sqlite connections.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Merchant{},
		&models.Comment{},
		&models.CommentLike{},
		&models.ReputationStats{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.AdminAction{},
	)
	if err != nil {
		return err
	}

	return SeedAchievements(db)
}

// SeedAchievements inserts the curated catalog, skipping codes that already
// exist so reruns are harmless.
func SeedAchievements(db *gorm.DB) error {
	catalog := []models.Achievement{
		{Code: "frequent_reviewer", Name: "Frequent Reviewer", Description: "Get five comments approved", Points: 20, CriteriaType: models.CriteriaCommentsCount, CriteriaValue: 5},
		{Code: "crowd_favorite", Name: "Crowd Favorite", Description: "Receive ten likes on your comments", Points: 30, CriteriaType: models.CriteriaLikesReceived, CriteriaValue: 10},
		{Code: "neighborhood_critic", Name: "Neighborhood Critic", Description: "Get fifteen comments approved", Points: 50, CriteriaType: models.CriteriaCommentsCount, CriteriaValue: 15},
		{Code: "local_legend", Name: "Local Legend", Description: "Receive fifty likes on your comments", Points: 100, CriteriaType: models.CriteriaLikesReceived, CriteriaValue: 50},
	}

	for _, achievement := range catalog {
		var existing models.Achievement
		err := db.Where("code = ?", achievement.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&achievement).Error; err != nil {
			return err
		}
	}

	return nil
}
