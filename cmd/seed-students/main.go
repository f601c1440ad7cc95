package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/studentflow/studentflow-backend/internal/config"
	"github.com/studentflow/studentflow-backend/internal/database"
	"github.com/studentflow/studentflow-backend/internal/logger"
	"github.com/studentflow/studentflow-backend/internal/query"
	"github.com/studentflow/studentflow-backend/internal/repository"
	"github.com/studentflow/studentflow-backend/internal/seed"
	"github.com/studentflow/studentflow-backend/internal/service"
	"github.com/studentflow/studentflow-backend/internal/validator"
)

func main() {
	count := flag.Int("n", seed.DefaultCount, "Number of students to generate")
	replace := flag.Bool("replace", false, "Clear the collection before seeding")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	storage, err := database.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer storage.Close()

	studentRepo := repository.NewStudentRepository(storage.Store)
	settingRepo := repository.NewSettingRepository(storage.Store)
	studentService := service.NewStudentService(studentRepo, query.NewEngine(cfg.PageSize), log)
	transferService := service.NewTransferService(studentRepo, settingRepo, log)

	if *replace {
		if err := transferService.Clear(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to clear collection")
		}
	}

	fmt.Printf("=== Seeding %d Students ===\n", *count)

	created, skipped := 0, 0
	for _, in := range seed.Students(*count, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))) {
		_, err := studentService.Create(ctx, in)
		switch {
		case errors.Is(err, repository.ErrDuplicateRollNo):
			skipped++
		case err != nil:
			log.Error().Err(err).Str("roll_no", in.RollNo).Msg("Failed to create student")
		default:
			created++
		}
	}

	fmt.Printf("Created %d students, skipped %d existing roll numbers\n", created, skipped)
}
