package course

import (
	"context"

	"github.com/coursetrail/coursetrail/internal/domain"
	"github.com/coursetrail/coursetrail/internal/infrastructure/driver"
)

type CourseRepository struct {
	Conn driver.ITransactionalDB
}

var _ domain.CourseRepository = &CourseRepository{}

func NewCourseRepository(Conn driver.ITransactionalDB) *CourseRepository {
	return &CourseRepository{
		Conn: Conn,
	}
}

// GetCourseByKey course with its lessons ordered by sequence
func (repo *CourseRepository) GetCourseByKey(ctx context.Context, key string) (*domain.CourseModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `
SELECT
    c.id, c."key", c.title
FROM
    course c
WHERE
    c."key" = $1
	`, key)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if !row.Next() {
		return nil, domain.ErrNoSuchCourse
	}
	var id int
	result := new(domain.CourseModel)
	if err := row.Scan(&id, &result.Key, &result.Title); err != nil {
		return nil, err
	}

	lessons, err := repo.GetLessonsByCourse(ctx, key)
	if err != nil {
		return nil, err
	}
	result.Lessons = lessons
	return result, nil
}

// GetLessonsByCourse lessons of the course in canonical order
func (repo *CourseRepository) GetLessonsByCourse(ctx context.Context, key string) ([]*domain.LessonModel, error) {
	conn := repo.Conn
	if err := repo.courseExists(ctx, key); err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `
SELECT
    l.slug, l."name" title, l."sequence"
FROM
    lesson l
        LEFT JOIN
    course c ON (c.id = l.course_id)
WHERE
    c."key" = $1
ORDER BY l."sequence" ASC
	`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.LessonModel
	for rows.Next() {
		item := new(domain.LessonModel)
		if err := rows.Scan(&item.Slug, &item.Title, &item.Sequence); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func (repo *CourseRepository) courseExists(ctx context.Context, key string) error {
	row, err := repo.Conn.QueryContext(ctx, `SELECT 1 FROM course WHERE "key" = $1`, key)
	if err != nil {
		return err
	}
	defer row.Close()

	if !row.Next() {
		return domain.ErrNoSuchCourse
	}
	return nil
}
