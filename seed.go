package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"bikereg/config"
	"bikereg/database"
	bikeRepo "bikereg/database/repository/bike"
	"bikereg/models"
	"bikereg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedBikesCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-bikes",
		Short: "Load the serial-number catalog into MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			bikes := bikeRepo.DefaultCatalog()
			if file != "" {
				var err error
				if bikes, err = readCatalog(file); err != nil {
					return err
				}
			}
			return seedBikes(cmd.Context(), config.AppConfig, bikes)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with [{serialNumber, modelDescription, shopName}]")
	return cmd
}

func readCatalog(path string) ([]models.Bike, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bikes []models.Bike
	if err := json.Unmarshal(b, &bikes); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return bikes, nil
}

func seedBikes(ctx context.Context, cfg config.Config, bikes []models.Bike) error {
	logger := utils.GetLogger()
	if err := database.InitDB(cfg.DatabaseURL); err != nil {
		return err
	}
	defer func() { _ = database.CloseDB(context.Background()) }()

	repo, err := bikeRepo.NewMongoBikeRepo(database.MongoClient.Database(cfg.DatabaseName))
	if err != nil {
		return err
	}
	now := time.Now()
	for _, bike := range bikes {
		if bike.CreatedAt.IsZero() {
			bike.CreatedAt = now
		}
		if err := repo.Upsert(ctx, bike); err != nil {
			return fmt.Errorf("failed to seed %s: %w", bike.SerialNumber, err)
		}
	}
	logger.Info("bike catalog seeded", zap.Int("count", len(bikes)))
	return nil
}
