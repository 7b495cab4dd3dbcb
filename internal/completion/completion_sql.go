package completion

import (
	"context"

	"github.com/coursetrail/coursetrail/internal/domain"
	"github.com/coursetrail/coursetrail/internal/infrastructure/driver"
)

type CompletionRepository struct {
	Conn driver.ITransactionalDB
}

var _ domain.CompletionRepository = &CompletionRepository{}

func NewCompletionRepository(Conn driver.ITransactionalDB) *CompletionRepository {
	return &CompletionRepository{
		Conn: Conn,
	}
}

// SaveCompletion insert a completion record, idempotent on the
// (user, course, lesson) unique key
func (repo *CompletionRepository) SaveCompletion(ctx context.Context, record *domain.CompletionRecord) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
INSERT INTO lesson_completion(user_id, course_key, lesson_slug, created_at)
VALUES($1,$2,$3,$4)
	`, record.UserID, record.CourseKey, record.LessonSlug, record.CreatedAt)

	if driver.IsDuplicateKeyError(err) {
		// already completed, keep the original record
		return nil
	}
	return err
}

func (repo *CompletionRepository) HasCompletion(ctx context.Context, userID, courseKey, lessonSlug string) (bool, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `
SELECT
    1
FROM
    lesson_completion
WHERE
    user_id = $1 AND course_key = $2 AND lesson_slug = $3
	`, userID, courseKey, lessonSlug)
	if err != nil {
		return false, err
	}
	defer row.Close()

	return row.Next(), nil
}

// GetCompletionsByCourse completion records of a user within a course,
// oldest first
func (repo *CompletionRepository) GetCompletionsByCourse(ctx context.Context, userID, courseKey string) ([]*domain.CompletionRecord, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    user_id, course_key, lesson_slug, created_at
FROM
    lesson_completion
WHERE
    user_id = $1 AND course_key = $2
ORDER BY created_at ASC
	`, userID, courseKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.CompletionRecord
	for rows.Next() {
		item := new(domain.CompletionRecord)
		if err := rows.Scan(&item.UserID, &item.CourseKey, &item.LessonSlug, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Timestamp = item.CreatedAt.Unix() * 1e3
		result = append(result, item)
	}
	return result, nil
}
