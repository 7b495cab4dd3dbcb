package user

import (
	"context"
	"errors"
	"testing"

	"github.com/coursetrail/coursetrail/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]*domain.UserModel
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.UserModel)}
}

func (f *fakeUserRepo) FindByCredential(ctx context.Context, post *domain.UserModel) (*domain.UserModel, error) {
	for _, user := range f.users {
		if user.Username == post.Username || user.Email == post.Email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) SaveUser(ctx context.Context, post *domain.UserModel) error {
	if post.ID == "" {
		post.ID = "generated"
	}
	f.users[post.ID] = post
	return nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, post *domain.UserModel) error {
	f.users[post.ID] = post
	return nil
}

func TestUserUseCaseSignUp(t *testing.T) {
	repo := newFakeUserRepo()
	ucase := NewUserUseCase(repo)

	created, err := ucase.SignUp(context.Background(), &domain.UserModel{
		Username: "alice", Email: "alice@example.com", Password: "hash",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestUserUseCaseSignUpDuplicate(t *testing.T) {
	repo := newFakeUserRepo()
	ucase := NewUserUseCase(repo)

	_, err := ucase.SignUp(context.Background(), &domain.UserModel{
		Username: "alice", Email: "alice@example.com", Password: "hash",
	})
	require.NoError(t, err)

	_, err = ucase.SignUp(context.Background(), &domain.UserModel{
		Username: "alice", Email: "other@example.com", Password: "hash",
	})
	assert.True(t, errors.Is(err, domain.ErrDuplicatedUser))
}

func TestUserUseCaseExists(t *testing.T) {
	repo := newFakeUserRepo()
	repo.SaveUser(context.Background(), &domain.UserModel{
		ID: "u1", Username: "alice", Email: "alice@example.com",
	})
	ucase := NewUserUseCase(repo)

	existing, err := ucase.Exists(context.Background(), &domain.UserModel{Username: "alice"})
	require.NoError(t, err)
	assert.True(t, existing)

	existing, err = ucase.Exists(context.Background(), &domain.UserModel{Username: "bob"})
	require.NoError(t, err)
	assert.False(t, existing)
}
