package upload

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/claude/gain/internal/models"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	WorkoutsSent     int
	WorkoutsInserted int
	WorkoutsSkipped  int
}

// Uploader walks a directory of workout export JSON files and POSTs the new
// ones to the GAIN server. Already-sent files are skipped via the state DB.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, exportDir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    exportDir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the upload pipeline.
func (u *Uploader) Run() (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(u.dir, "*.json"))
	if err != nil {
		return &u.stats, fmt.Errorf("listing exports: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		u.stats.FilesTotal++
		if err := u.processFile(f); err != nil {
			return &u.stats, err
		}
	}

	return &u.stats, nil
}

func (u *Uploader) processFile(path string) error {
	relPath, _ := filepath.Rel(u.dir, path)

	info, err := os.Stat(path)
	if err != nil {
		u.log.Warn("stat failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	hash, err := HashFile(path)
	if err != nil {
		u.log.Warn("hash failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
	if err != nil {
		u.log.Warn("state check failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	if uploaded {
		u.stats.FilesSkipped++
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		u.log.Warn("read failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	// Parse locally first so malformed exports are reported per file
	// instead of failing the whole run server-side.
	var payload models.ExportPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		u.log.Warn("export parse failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	if len(payload.Workouts) == 0 {
		u.stats.FilesSkipped++
		// Mark empty files as uploaded so we don't re-check them.
		_ = u.state.MarkUploaded(relPath, info.Size(), hash)
		return nil
	}

	if u.dryRun {
		u.log.Info("dry-run: would send", "file", relPath, "workouts", len(payload.Workouts))
		u.stats.WorkoutsSent += len(payload.Workouts)
		return nil
	}

	result, err := u.client.SendExport(data)
	if err != nil {
		return fmt.Errorf("sending %s: %w", relPath, err)
	}

	u.stats.WorkoutsSent += result.WorkoutsReceived
	u.stats.WorkoutsInserted += result.WorkoutsInserted
	u.stats.WorkoutsSkipped += result.WorkoutsSkipped

	if err := u.state.MarkUploaded(relPath, info.Size(), hash); err != nil {
		u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
	}
	u.stats.FilesUploaded++

	u.log.Info("export uploaded",
		"file", relPath,
		"received", result.WorkoutsReceived,
		"inserted", result.WorkoutsInserted,
		"skipped", result.WorkoutsSkipped,
	)

	return nil
}
