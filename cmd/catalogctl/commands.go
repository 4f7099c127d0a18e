package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/urfave/cli/v3"

	"music_backend/internal/app/di"
	authadapters "music_backend/internal/feature/auth/adapters"
	catalogadapters "music_backend/internal/feature/catalog/adapters"
	catalogusecase "music_backend/internal/feature/catalog/usecase"
)

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		migrateCommand, presignCommand, orphansCommand, pruneCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Create or update every table",
		Action: r.Migrate,
	}
}

func presignCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "presign",
		Usage: "Print a stream URL for a track",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:     "id",
				Usage:    "Track ID",
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "URL lifetime",
				Value: catalogusecase.StreamURLTTL,
			},
		},
		Action: r.Presign,
	}
}

func orphansCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "orphans",
		Usage:  "List object keys that no track references",
		Action: r.Orphans,
	}
}

func pruneCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "prune",
		Usage:  "Delete expired rows from the database revocation list",
		Action: r.Prune,
	}
}

// Migrate runs AutoMigrate for all tables.
func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := di.Migrate(db.WithContext(ctx)); err != nil {
		return err
	}
	r.logger.Info("migrations applied", "tables", len(di.Models()))
	r.writePlainln("✓ Migrated %d tables", len(di.Models()))
	return nil
}

// Presign prints a signed GET URL for the track's object.
func (r *Runner) Presign(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Uint("id")
	ttl := cmd.Duration("ttl")
	if id == 0 {
		return fmt.Errorf("track ID is required")
	}
	if ttl <= 0 || ttl > 7*24*time.Hour {
		return fmt.Errorf("ttl must be between 1s and 168h")
	}

	db, err := r.openDB()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	blobs, err := r.openBlobs()
	if err != nil {
		return fmt.Errorf("failed to open object store: %w", err)
	}

	track, err := catalogadapters.NewCatalogPostgres(db).FindTrackByID(ctx, id)
	if err != nil {
		return fmt.Errorf("track %d: %w", id, err)
	}
	url, err := blobs.PresignGet(ctx, track.FileURL, ttl)
	if err != nil {
		return fmt.Errorf("failed to presign: %w", err)
	}
	r.writePlainln("%s", url)
	return nil
}

// Orphans lists blob keys with no track row. These come from uploads whose
// database write failed after the object was stored.
func (r *Runner) Orphans(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	blobs, err := r.openBlobs()
	if err != nil {
		return fmt.Errorf("failed to open object store: %w", err)
	}

	stored, err := blobs.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list objects: %w", err)
	}
	referenced, err := catalogadapters.NewCatalogPostgres(db).ListFileKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tracks: %w", err)
	}

	orphans := findOrphans(stored, referenced)
	r.logger.Info("orphan scan finished", "objects", len(stored), "tracks", len(referenced), "orphans", len(orphans))
	for _, k := range orphans {
		r.writePlainln("%s", k)
	}
	return nil
}

// Prune deletes revocation rows whose token has expired.
func (r *Runner) Prune(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	n, err := authadapters.NewRevokedTokenPostgres(db).DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to prune: %w", err)
	}
	r.writePlainln("✓ Removed %d expired revocations", n)
	return nil
}

// findOrphans returns the sorted keys of stored that are not in referenced.
func findOrphans(stored, referenced []string) []string {
	seen := make(map[string]struct{}, len(referenced))
	for _, k := range referenced {
		seen[k] = struct{}{}
	}
	out := []string{}
	for _, k := range stored {
		if _, ok := seen[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
