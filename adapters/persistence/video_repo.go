package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

type postgresVideoRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresVideoRepo(db *pgxpool.Pool, logger logger.Logger) video.Repository {
	return &postgresVideoRepo{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const videoColumns = `id, user_id, title, description, public_id, original_size, compressed_size, duration, visibility, created_at, updated_at`

func scanVideo(row pgx.Row) (*video.Video, error) {
	v := &video.Video{}
	err := row.Scan(
		&v.ID, &v.UserID, &v.Title, &v.Description, &v.PublicID,
		&v.OriginalSize, &v.CompressedSize, &v.Duration, &v.Visibility,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *postgresVideoRepo) Save(ctx context.Context, v *video.Video) error {
	query := `
		INSERT INTO videos (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		v.ID, v.UserID, v.Title, v.Description, v.PublicID,
		v.OriginalSize, v.CompressedSize, v.Duration, v.Visibility,
		v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to insert video", err)
	}
	return nil
}

func (r *postgresVideoRepo) ListVisibleTo(ctx context.Context, viewerID string, limit, offset int) ([]*video.Video, error) {
	var visible sq.Sqlizer = sq.Eq{"visibility": video.VisibilityPublic}
	if viewerID != "" {
		visible = sq.Or{sq.Eq{"user_id": viewerID}, sq.Eq{"visibility": video.VisibilityPublic}}
	}

	query, args, err := psql.Select(videoColumns).
		From("videos").
		Where(visible).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to list videos", err)
	}
	defer rows.Close()

	videos := make([]*video.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan video row", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating video rows", err)
	}
	return videos, nil
}

func (r *postgresVideoRepo) UpdateVisibility(ctx context.Context, id uuid.UUID, ownerID string, visibility video.Visibility) (*video.Video, error) {
	query := `
		UPDATE videos SET visibility = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + videoColumns
	v, err := scanVideo(r.db.QueryRow(ctx, query, id, ownerID, visibility))
	if err != nil {
		return nil, r.mutationError("update visibility", id, err)
	}
	return v, nil
}

func (r *postgresVideoRepo) Delete(ctx context.Context, id uuid.UUID, ownerID string) (*video.Video, error) {
	query := `DELETE FROM videos WHERE id = $1 AND user_id = $2 RETURNING ` + videoColumns
	v, err := scanVideo(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, r.mutationError("delete", id, err)
	}
	return v, nil
}

// mutationError turns "no row matched id AND owner" into the same
// not-found answer whether the video is missing or belongs to someone else.
func (r *postgresVideoRepo) mutationError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFoundOrForbidden("Video", id.String())
	}
	r.logger.Error("Video mutation failed", err, zap.String("op", op), zap.String("video_id", id.String()))
	return apperror.NewInternal("failed to "+op+" video", err)
}
