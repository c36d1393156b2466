package pipeline

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"kdb-scraper/lib/catalog"
	"kdb-scraper/lib/catalogdb"
	"kdb-scraper/lib/scrapers/kdb"
	"kdb-scraper/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("kdb.lib.pipeline")

type Options struct {
	Client    kdb.ClientOptions
	Year      int
	CachePath string
	OutputDir string
	// optional, records are also written to it when set
	DB *sql.DB
}

type Result struct {
	CacheHit   bool
	Partitions catalog.Partitions
	Written    []string
}

// CacheExists reports whether a previous run already downloaded the export
// to path, cached exports never expire.
func CacheExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Download runs the portal handshake and stores the export at dest.
func Download(ctx context.Context, opts kdb.ClientOptions, year int, dest string) error {
	ctx, span := tracer.Start(ctx, "Download")
	defer span.End()

	client, err := kdb.NewClient(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create client")
		return err
	}

	session, err := client.GrantSession(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to grant session")
		return err
	}
	slog.DebugContext(ctx, "session granted", "endpoint", session.Endpoint)

	session, err = client.SearchCourses(ctx, session, year)
	if err != nil {
		span.SetStatus(codes.Error, "failed to search courses")
		return err
	}
	slog.DebugContext(ctx, "courses searched", "endpoint", session.Endpoint, "year", year)

	err = client.DownloadCoursesCSV(ctx, session, year, dest)
	if err != nil {
		span.SetStatus(codes.Error, "failed to download csv")
		return err
	}
	slog.InfoContext(ctx, "downloaded course export", "path", dest)
	return nil
}

// Load returns the records of the export at opts.CachePath, downloading it
// first unless it is already cached.
func Load(ctx context.Context, opts Options) ([]catalog.Record, bool, error) {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()

	cacheHit := CacheExists(opts.CachePath)
	span.SetAttributes(attribute.Bool("cache_hit", cacheHit))
	if cacheHit {
		slog.InfoContext(ctx, "course export is cached, download skipped", "path", opts.CachePath)
	} else {
		err := Download(ctx, opts.Client, opts.Year, opts.CachePath)
		if err != nil {
			span.SetStatus(codes.Error, "failed to download")
			return nil, false, err
		}
	}

	records, err := catalog.DecodeFile(ctx, opts.CachePath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to decode")
		return nil, cacheHit, err
	}
	return records, cacheHit, nil
}

// Run loads the catalog, then writes the json outputs and, when configured,
// the database. nothing is written unless the whole export decoded.
func Run(ctx context.Context, opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	records, cacheHit, err := Load(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load records")
		return Result{}, err
	}

	partitions := catalog.Partition(records)
	slog.InfoContext(
		ctx, "courses",
		"all", len(partitions.All),
		"undergrad", len(partitions.Undergraduate),
		"grad", len(partitions.Graduate),
	)

	written, err := catalog.EmitAll(opts.OutputDir, partitions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write json")
		return Result{}, err
	}

	if opts.DB != nil {
		err = catalogdb.Replace(ctx, opts.DB, records)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to write database")
			return Result{}, err
		}
	}

	return Result{
		CacheHit:   cacheHit,
		Partitions: partitions,
		Written:    written,
	}, nil
}
