// Package importer loads JSON dataset files into the repositories.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"budong-api/internal/repository"
	"budong-api/internal/storage"
)

type Config struct {
	// MaxConcurrent bounds parallel downloads. Applying is always sequential.
	MaxConcurrent int
	Logger        *logrus.Logger
}

// DatasetReport describes what happened to one file.
type DatasetReport struct {
	Name     string
	Missing  bool
	Rows     int
	Rejected int
}

type Report struct {
	Datasets []DatasetReport
}

func (r Report) Rows() int {
	n := 0
	for _, d := range r.Datasets {
		n += d.Rows
	}
	return n
}

type Importer struct {
	cfg        Config
	source     storage.Source
	regions    repository.RegionRepository
	buildings  repository.BuildingRepository
	facilities repository.FacilityRepository
}

func New(cfg Config, source storage.Source, regions repository.RegionRepository, buildings repository.BuildingRepository, facilities repository.FacilityRepository) *Importer {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 3
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Importer{
		cfg:        cfg,
		source:     source,
		regions:    regions,
		buildings:  buildings,
		facilities: facilities,
	}
}

type dataset struct {
	name  string
	apply func(ctx context.Context, data []byte) (rows, rejected int, err error)
}

// datasets lists files in foreign-key order.
func (im *Importer) datasets() []dataset {
	return []dataset{
		{"regions.json", func(ctx context.Context, data []byte) (int, int, error) {
			return apply(ctx, im.cfg.Logger, "regions.json", data, regionRecord.toDomain, im.regions.Upsert)
		}},
		{"region_stats.json", func(ctx context.Context, data []byte) (int, int, error) {
			return apply(ctx, im.cfg.Logger, "region_stats.json", data, regionStatRecord.toDomain, im.regions.UpsertStat)
		}},
		{"buildings.json", func(ctx context.Context, data []byte) (int, int, error) {
			return apply(ctx, im.cfg.Logger, "buildings.json", data, buildingRecord.toDomain, im.buildings.Upsert)
		}},
		{"transactions.json", func(ctx context.Context, data []byte) (int, int, error) {
			return apply(ctx, im.cfg.Logger, "transactions.json", data, transactionRecord.toDomain, im.buildings.UpsertTransaction)
		}},
		{"schools.json", func(ctx context.Context, data []byte) (int, int, error) {
			return apply(ctx, im.cfg.Logger, "schools.json", data, schoolRecord.toDomain, im.facilities.UpsertSchool)
		}},
		{"parks.json", func(ctx context.Context, data []byte) (int, int, error) {
			return apply(ctx, im.cfg.Logger, "parks.json", data, parkRecord.toDomain, im.facilities.UpsertPark)
		}},
		{"stations.json", func(ctx context.Context, data []byte) (int, int, error) {
			return apply(ctx, im.cfg.Logger, "stations.json", data, stationRecord.toDomain, im.facilities.UpsertStation)
		}},
		{"noise_sensors.json", func(ctx context.Context, data []byte) (int, int, error) {
			return apply(ctx, im.cfg.Logger, "noise_sensors.json", data, noiseRecord.toDomain, im.facilities.UpsertNoiseSensor)
		}},
		{"infrastructure.json", func(ctx context.Context, data []byte) (int, int, error) {
			return apply(ctx, im.cfg.Logger, "infrastructure.json", data, infrastructureRecord.toDomain, im.facilities.UpsertInfrastructure)
		}},
	}
}

type fetched struct {
	data    []byte
	missing bool
	err     error
}

// Run downloads every dataset with bounded concurrency, then applies them
// one by one in dependency order. A missing file is skipped; a malformed
// file or a storage error stops the run.
func (im *Importer) Run(ctx context.Context) (Report, error) {
	sets := im.datasets()
	results := im.fetchAll(ctx, sets)

	var report Report
	for i, ds := range sets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := results[i]
		dr := DatasetReport{Name: ds.name}
		switch {
		case res.missing:
			im.cfg.Logger.WithField("dataset", ds.name).Warn("dataset not found, skipping")
			dr.Missing = true
		case res.err != nil:
			return report, fmt.Errorf("fetch %s: %w", ds.name, res.err)
		default:
			rows, rejected, err := ds.apply(ctx, res.data)
			if err != nil {
				return report, fmt.Errorf("apply %s: %w", ds.name, err)
			}
			dr.Rows, dr.Rejected = rows, rejected
			im.cfg.Logger.WithFields(logrus.Fields{
				"dataset":  ds.name,
				"rows":     rows,
				"rejected": rejected,
			}).Info("dataset imported")
		}
		report.Datasets = append(report.Datasets, dr)
	}
	return report, nil
}

func (im *Importer) fetchAll(ctx context.Context, sets []dataset) []fetched {
	results := make([]fetched, len(sets))
	sem := make(chan struct{}, im.cfg.MaxConcurrent)
	var wg sync.WaitGroup

	for i, ds := range sets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				results[i] = fetched{err: ctx.Err()}
				return
			case sem <- struct{}{}:
				defer func() { <-sem }()
			}
			results[i] = im.fetch(ctx, ds.name)
		}()
	}
	wg.Wait()
	return results
}

func (im *Importer) fetch(ctx context.Context, name string) fetched {
	rc, err := im.source.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return fetched{missing: true}
		}
		return fetched{err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fetched{err: fmt.Errorf("read: %w", err)}
	}
	im.cfg.Logger.WithField("dataset", name).WithField("bytes", len(data)).Debug("dataset fetched")
	return fetched{data: data}
}

// apply decodes a JSON array of R, converts each record and upserts it.
// Records that fail conversion are logged and counted, not fatal.
func apply[R, D any](
	ctx context.Context,
	logger *logrus.Logger,
	name string,
	data []byte,
	convert func(R) (D, error),
	upsert func(context.Context, *D) error,
) (rows, rejected int, err error) {
	var records []R
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, 0, fmt.Errorf("decode: %w", err)
	}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return rows, rejected, err
		}
		d, err := convert(rec)
		if err != nil {
			rejected++
			logger.WithField("dataset", name).WithField("index", i).Warnf("record rejected: %v", err)
			continue
		}
		if err := upsert(ctx, &d); err != nil {
			return rows, rejected, err
		}
		rows++
	}
	return rows, rejected, nil
}
