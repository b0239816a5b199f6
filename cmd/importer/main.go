package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"budong-api/internal/config"
	"budong-api/internal/importer"
	"budong-api/internal/repository/sqlite"
	"budong-api/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	flags := pflag.NewFlagSet("importer", pflag.ExitOnError)
	flags.String("db", "", "sqlite database path")
	flags.String("dir", "", "read datasets from this directory instead of S3")
	flags.String("bucket", "", "S3 bucket holding the datasets")
	flags.String("prefix", "", "key prefix inside the bucket")
	flags.Int("concurrency", 0, "parallel dataset downloads")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.LoadWithFlags(flags, map[string]string{
		"database.path":      "db",
		"import.dir":         "dir",
		"storage.bucket":     "bucket",
		"storage.keyprefix":  "prefix",
		"import.concurrency": "concurrency",
	})
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := buildSource(ctx, cfg)
	if err != nil {
		logger.Fatalf("setup dataset source: %v", err)
	}
	logger.Infof("importing datasets from %s", source.Describe())

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	regionRepo := sqlite.NewRegionRepository(db)
	buildingRepo := sqlite.NewBuildingRepository(db)
	facilityRepo := sqlite.NewFacilityRepository(db)
	if err := sqlite.InitAll(ctx, regionRepo, buildingRepo, facilityRepo); err != nil {
		logger.Fatalf("init repositories: %v", err)
	}

	im := importer.New(importer.Config{
		MaxConcurrent: cfg.Import.Concurrency,
		Logger:        logger,
	}, source, regionRepo, buildingRepo, facilityRepo)

	report, err := im.Run(ctx)
	if err != nil {
		logger.Fatalf("import: %v", err)
	}
	for _, d := range report.Datasets {
		if d.Missing {
			continue
		}
		logger.WithFields(logrus.Fields{
			"dataset":  d.Name,
			"rows":     d.Rows,
			"rejected": d.Rejected,
		}).Info("done")
	}
	logger.Infof("imported %d rows", report.Rows())
}

func buildSource(ctx context.Context, cfg config.Config) (storage.Source, error) {
	if cfg.Import.Dir != "" {
		src, err := storage.NewDirSource(cfg.Import.Dir)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	client, err := storage.NewS3Client(ctx, storage.S3Config{
		Region:   cfg.Storage.Region,
		Endpoint: cfg.Storage.Endpoint,
		Profile:  cfg.AWS.Profile,
	})
	if err != nil {
		return nil, err
	}
	src, err := storage.NewS3Source(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
	if err != nil {
		return nil, err
	}
	return src, nil
}
