// Command report exports the current workflow state to an Excel workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/plazholdr/job-finder-sub006/internal/config"
	"github.com/plazholdr/job-finder-sub006/internal/infrastructure/persistence/repository"
	"github.com/plazholdr/job-finder-sub006/internal/infrastructure/persistence/sqlite"
	"github.com/plazholdr/job-finder-sub006/internal/report"
	"github.com/plazholdr/job-finder-sub006/pkg/database"
	"github.com/plazholdr/job-finder-sub006/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	output := flag.String("output", "", "output xlsx path (default: <report.output_dir>/workflow-<date>.xlsx)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: "stderr",
		Format:     "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sqlDB, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer sqlDB.Close()

	db := sqlite.NewDB(sqlDB, logger)
	instanceRepo := repository.NewInstanceRepository(db, logger)
	historyRepo := repository.NewHistoryRepository(db, logger)

	outputPath := *output
	if outputPath == "" {
		if err := os.MkdirAll(cfg.Report.OutputDir, 0755); err != nil {
			logger.Fatal("Failed to create output directory", zap.Error(err))
		}
		name := fmt.Sprintf("workflow-%s.xlsx", time.Now().Format("2006-01-02"))
		outputPath = filepath.Join(cfg.Report.OutputDir, name)
	}

	exporter := report.NewExporter(instanceRepo, historyRepo, logger)
	if err := exporter.Export(context.Background(), outputPath); err != nil {
		logger.Fatal("Export failed", zap.Error(err))
	}

	fmt.Println(outputPath)
}
