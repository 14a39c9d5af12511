package seed

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"

	dbsql "github.com/vizzylabs/creator-platform/pkg/database/sql"
	"github.com/vizzylabs/creator-platform/pkg/logging"
)

const (
	defaultCreators         = 100
	defaultVideosPerCreator = 10
)

// Options controls the size of the generated demo dataset
type Options struct {
	Creators         int
	VideosPerCreator int
}

// ApplySchema executes the embedded spotlight schema. Every statement uses
// IF NOT EXISTS, so reapplying on startup is safe.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	schema, err := dbsql.Content.ReadFile("schema/spotlight.sql")
	if err != nil {
		return fmt.Errorf("failed to read embedded schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Demo populates the database with generated creators and videos. It is a
// no-op when any creator already exists.
func Demo(ctx context.Context, db *sql.DB, logger logging.Logger, opts Options) error {
	if opts.Creators <= 0 {
		opts.Creators = defaultCreators
	}
	if opts.VideosPerCreator <= 0 {
		opts.VideosPerCreator = defaultVideosPerCreator
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM creators`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count creators: %w", err)
	}
	if count > 0 {
		logger.WithField("creators", count).Info("Demo data already present, skipping seed")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for i := 1; i <= opts.Creators; i++ {
		var creatorID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO creators (username, display_name, follower_count, total_views, avg_engagement_rate)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			fmt.Sprintf("creator_%d", i),
			fmt.Sprintf("Creator %d", i),
			rand.Intn(1_000_000),
			rand.Intn(10_000_000),
			rand.Float64()*0.2,
		).Scan(&creatorID)
		if err != nil {
			return fmt.Errorf("failed to insert creator %d: %w", i, err)
		}

		for j := 1; j <= opts.VideosPerCreator; j++ {
			views := rand.Intn(100_000)
			likes := 0
			comments := 0
			if views > 0 {
				likes = rand.Intn(views)
			}
			if views >= 10 {
				comments = rand.Intn(views / 10)
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO videos (creator_id, title, view_count, like_count, comment_count)
				VALUES ($1, $2, $3, $4, $5)`,
				creatorID,
				fmt.Sprintf("Video %d by creator %d", j, i),
				views, likes, comments,
			)
			if err != nil {
				return fmt.Errorf("failed to insert video %d for creator %d: %w", j, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	logger.WithFields(logging.Fields{
		"creators":           opts.Creators,
		"videos_per_creator": opts.VideosPerCreator,
	}).Info("Seeded demo data")
	return nil
}
