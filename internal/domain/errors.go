package domain

import "errors"

// ErrNoSuchUser failed to validate the credential
var ErrNoSuchUser = errors.New("No such user or password is incorrect")

// ErrDuplicatedUser unique key constraint violation
var ErrDuplicatedUser = errors.New("Username or email is already registered")

// ErrUserTooManyRetry login attempts exhausted
var ErrUserTooManyRetry = errors.New("Too many login attempts, try again later")

// ErrNoSuchCourse course key not found
var ErrNoSuchCourse = errors.New("No such course")

// ErrNoSuchLesson lesson slug not found in the course
var ErrNoSuchLesson = errors.New("No such lesson in the course")
