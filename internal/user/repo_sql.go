package user

import (
	"context"
	"database/sql"

	"github.com/coursetrail/coursetrail/internal/domain"
	"github.com/coursetrail/coursetrail/internal/infrastructure/driver"
	"github.com/coursetrail/coursetrail/internal/infrastructure/uuid"
)

type UserRepository struct {
	Conn          driver.ITransactionalDB
	UUIDGenerator uuid.Generator
}

var _ domain.UserRepository = &UserRepository{}

func NewUserRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *UserRepository {
	return &UserRepository{Conn, UUIDGenerator}
}

// FindByCredential query user whose username or email matches the posted
// username
func (repo *UserRepository) FindByCredential(ctx context.Context, post *domain.UserModel) (*domain.UserModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT id, username, password, email, login_retry, last_login
	FROM "user" WHERE username=$1 OR email=$2`, post.Username, post.Email)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		user := new(domain.UserModel)
		if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Email, &user.LoginRetry, &user.LastLogin); err != nil {
			return nil, err
		}
		return user, nil
	}
	return nil, nil
}

func (repo *UserRepository) SaveUser(ctx context.Context, post *domain.UserModel) error {
	conn := repo.Conn
	// generate id
	if uid, err := repo.UUIDGenerator.Generate(); err == nil {
		post.ID = uid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `INSERT INTO "user"(id, username, password, email, last_login)
	VALUES($1,$2,$3,$4,$5)`, post.ID, post.Username, post.Password, post.Email, post.LastLogin)

	if driver.IsDuplicateKeyError(err) {
		return domain.ErrDuplicatedUser
	}
	return err
}

func (repo *UserRepository) UpdateUser(ctx context.Context, post *domain.UserModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `UPDATE "user"
	SET email=$1,
			login_retry=$2,
			last_login=$3
	WHERE id = $4`, post.Email, post.LoginRetry, post.LastLogin, post.ID)
	return err
}

func (repo *UserRepository) BeginTx(ctx context.Context) (driver.ITransactionalDB, error) {
	return repo.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelRepeatableRead,
	})
}
