package main

import (
	"time"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/config"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/routes"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/services"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Task{},
		&models.Category{},
		&models.StreakState{},
		&models.CarryOverRecord{},
		&models.Achievement{},
		&models.FocusSession{},
		&models.ActivityDay{},
	)

	r := routes.SetupRouter(db)

	if cfg.SweepEnabled {
		processor := services.NewCarryOverProcessor(
			services.NewGormCarryTaskStore(db),
			services.NewGormCarryRecordStore(db),
			services.NewGormSessionLookup(db),
			cfg.DayStartHour,
		)
		sweeper := services.NewCarryOverSweeper(db, processor, cfg.DayStartHour, time.Duration(cfg.SweepMinutes)*time.Minute)
		sweeper.Start()
		defer sweeper.Stop()
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
