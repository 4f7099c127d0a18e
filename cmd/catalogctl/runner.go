package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"music_backend/internal/platform/blob"
	infradb "music_backend/internal/platform/db"
)

// BlobStore は catalogctl が使うオブジェクトストア操作です。
type BlobStore interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	ListKeys(ctx context.Context) ([]string, error)
}

// Runner holds the dependencies shared by every command action.
type Runner struct {
	openDB    func() (*gorm.DB, error)
	openBlobs func() (BlobStore, error)
	logger    *log.Logger
	output    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
// Nil openers connect using the environment.
type RunnerOpts struct {
	OpenDB    func() (*gorm.DB, error)
	OpenBlobs func() (BlobStore, error)
	Logger    *log.Logger
	Output    io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.OpenDB == nil {
		opts.OpenDB = infradb.OpenDB
	}
	if opts.OpenBlobs == nil {
		opts.OpenBlobs = openMinio
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{
		openDB:    opts.OpenDB,
		openBlobs: opts.OpenBlobs,
		logger:    opts.Logger,
		output:    opts.Output,
	}
}

func openMinio() (BlobStore, error) {
	cfg, err := blob.LoadConfig()
	if err != nil {
		return nil, err
	}
	return blob.NewMinioStore(cfg)
}

func (r *Runner) writePlainln(format string, args ...any) {
	fmt.Fprintf(r.output, format+"\n", args...)
}
