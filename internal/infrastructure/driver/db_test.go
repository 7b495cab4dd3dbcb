package driver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMySQLAdapter(t *testing.T) {
	query := `
SELECT
    l.slug, l."name"
FROM
    lesson l
WHERE
    l.course_id = $1 AND l.slug = $2
	`
	assert.Equal(t,
		" SELECT l.slug, l.`name` FROM lesson l WHERE l.course_id = ? AND l.slug = ? ",
		mysqlAdapter(query))
}

func TestPGSQLAdapter(t *testing.T) {
	query := "SELECT 1\nFROM\tlesson"
	assert.Equal(t, "SELECT 1 FROM lesson", pgsqlAdapter(query))
}

func TestIsDuplicateKeyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"mysql duplicate entry", &mysql.MySQLError{Number: 1062}, true},
		{"mysql other error", &mysql.MySQLError{Number: 1045}, false},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other error", &pgconn.PgError{Code: "42P01"}, false},
		{"wrapped postgres unique violation", fmt.Errorf("save: %w", &pgconn.PgError{Code: "23505"}), true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDuplicateKeyError(tc.err))
		})
	}
}

func TestGetDSN(t *testing.T) {
	cases := []struct {
		name string
		cfg  DBConfig
		want string
	}{
		{
			name: "mysql style with protocol",
			cfg: DBConfig{
				User: "app", Password: "pw", Protocol: "tcp",
				Host: "127.0.0.1", Port: 3306, Schema: "coursetrail",
			},
			want: "app:pw@tcp(127.0.0.1:3306)/coursetrail",
		},
		{
			name: "plain host port",
			cfg: DBConfig{
				User: "app", Password: "pw",
				Host: "127.0.0.1", Port: 5432, Schema: "coursetrail",
			},
			want: "app:pw@127.0.0.1:5432/coursetrail",
		},
		{
			name: "with query parameters",
			cfg: DBConfig{
				User: "app", Password: "pw", Protocol: "tcp",
				Host: "127.0.0.1", Port: 3306, Schema: "coursetrail",
				Query: "parseTime=true",
			},
			want: "app:pw@tcp(127.0.0.1:3306)/coursetrail?parseTime=true",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, getDSN(&tc.cfg))
		})
	}
}
