package workers

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StartUploadSweeper starts a background routine that removes upload files
// no workout row references. A crash between writing the image and inserting
// the row (or a failed delete of the file) leaves orphans behind.
func StartUploadSweeper(db *pgxpool.Pool, uploadsDir string) {
	ticker := time.NewTicker(1 * time.Hour)

	go func() {
		for range ticker.C {
			sweepOrphanedUploads(db, uploadsDir)
		}
	}()
}

func sweepOrphanedUploads(db *pgxpool.Pool, uploadsDir string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	files, err := os.ReadDir(uploadsDir)
	if err != nil {
		log.Printf("Upload sweeper: failed to read %s: %v", uploadsDir, err)
		return
	}
	if len(files) == 0 {
		return
	}

	query := `SELECT image_url FROM workouts`
	rows, err := db.Query(ctx, query)
	if err != nil {
		log.Printf("Upload sweeper: failed to query image urls: %v", err)
		return
	}
	defer rows.Close()

	referenced := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			continue
		}
		referenced[filepath.Base(url)] = true
	}
	if err := rows.Err(); err != nil {
		log.Printf("Upload sweeper: failed to read image urls: %v", err)
		return
	}

	removed := 0
	for _, f := range files {
		if f.IsDir() || referenced[f.Name()] {
			continue
		}

		info, err := f.Info()
		if err != nil {
			continue
		}
		// Grace period: the file may belong to an in-flight create request.
		if time.Since(info.ModTime()) < time.Hour {
			continue
		}

		if err := os.Remove(filepath.Join(uploadsDir, f.Name())); err != nil {
			log.Printf("Upload sweeper: failed to remove %s: %v", f.Name(), err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("Upload sweeper: removed %d orphaned files", removed)
	}
}
