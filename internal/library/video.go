package library

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const videoColumns = `id, title, path, duration_seconds, size_bytes, thumbnail, mime_type,
	added_at, is_favorite, last_position_seconds, view_count, last_watched_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*Video, error) {
	v := &Video{}
	var watched sql.NullTime
	if err := row.Scan(&v.ID, &v.Title, &v.Path, &v.DurationSeconds, &v.SizeBytes, &v.Thumbnail, &v.MimeType,
		&v.AddedAt, &v.IsFavorite, &v.LastPositionSeconds, &v.ViewCount, &watched); err != nil {
		return nil, err
	}
	if watched.Valid {
		t := watched.Time
		v.LastWatchedAt = &t
	}
	return v, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullBlob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func addVideo(q querier, v *Video) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.AddedAt.IsZero() {
		v.AddedAt = time.Now().UTC()
	}
	_, err := q.Exec(`
		INSERT INTO videos (`+videoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Title, v.Path, v.DurationSeconds, v.SizeBytes, nullBlob(v.Thumbnail), v.MimeType,
		v.AddedAt, v.IsFavorite, v.LastPositionSeconds, v.ViewCount, nullTime(v.LastWatchedAt),
	)
	if err != nil {
		return fmt.Errorf("insert video: %w", mapSQLiteError(err))
	}
	return nil
}

// AddVideo inserts a new video. Assigns ID and AddedAt when unset.
func (s *Store) AddVideo(v *Video) error { return addVideo(s.db, v) }

// AddVideo inserts a new video within a transaction.
func (t *Tx) AddVideo(v *Video) error { return addVideo(t.tx, v) }

func getVideo(q querier, id uuid.UUID) (*Video, error) {
	v, err := scanVideo(q.QueryRow(`SELECT `+videoColumns+` FROM videos WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get video %s: %w", id, mapSQLiteError(err))
	}
	return v, nil
}

// GetVideo retrieves a video by ID.
// Returns ErrNotFound if the video does not exist.
func (s *Store) GetVideo(id uuid.UUID) (*Video, error) { return getVideo(s.db, id) }

// GetVideo retrieves a video by ID within a transaction.
func (t *Tx) GetVideo(id uuid.UUID) (*Video, error) { return getVideo(t.tx, id) }

func listVideos(q querier) ([]*Video, error) {
	rows, err := q.Query(`SELECT ` + videoColumns + ` FROM videos ORDER BY added_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	var results []*Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return results, nil
}

// ListVideos returns every video, newest first.
func (s *Store) ListVideos() ([]*Video, error) { return listVideos(s.db) }

// ListVideos returns every video within a transaction.
func (t *Tx) ListVideos() ([]*Video, error) { return listVideos(t.tx) }

func updateVideo(q querier, v *Video) error {
	result, err := q.Exec(`
		UPDATE videos SET title = ?, is_favorite = ?, last_position_seconds = ?, view_count = ?, last_watched_at = ?
		WHERE id = ?`,
		v.Title, v.IsFavorite, v.LastPositionSeconds, v.ViewCount, nullTime(v.LastWatchedAt), v.ID,
	)
	if err != nil {
		return fmt.Errorf("update video %s: %w", v.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update video %s: %w", v.ID, ErrNotFound)
	}
	return nil
}

// UpdateVideo writes the mutable fields of v: title, favorite flag, playback
// position, view count and last watched time.
// Returns ErrNotFound if the video does not exist.
func (s *Store) UpdateVideo(v *Video) error { return updateVideo(s.db, v) }

// UpdateVideo updates a video within a transaction.
func (t *Tx) UpdateVideo(v *Video) error { return updateVideo(t.tx, v) }

func deleteVideo(q querier, id uuid.UUID) error {
	_, err := q.Exec("DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete video %s: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteVideo removes a video record. Deleting a missing video is not an error.
func (s *Store) DeleteVideo(id uuid.UUID) error { return deleteVideo(s.db, id) }

// DeleteVideo removes a video record within a transaction.
func (t *Tx) DeleteVideo(id uuid.UUID) error { return deleteVideo(t.tx, id) }
