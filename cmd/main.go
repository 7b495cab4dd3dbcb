package main

import (
	"log"

	"github.com/coursetrail/coursetrail/internal/completion"
	"github.com/coursetrail/coursetrail/internal/course"
	infra "github.com/coursetrail/coursetrail/internal/infrastructure"
	"github.com/coursetrail/coursetrail/internal/infrastructure/driver"
	"github.com/coursetrail/coursetrail/internal/infrastructure/logging"
	"github.com/coursetrail/coursetrail/internal/infrastructure/uuid"
	ihttp "github.com/coursetrail/coursetrail/internal/interfaces/http"
	"github.com/coursetrail/coursetrail/internal/user"
	"go.uber.org/zap"
)

func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	option, err := infra.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		FilePath: option.Logging.FilePath,
		Level:    option.Logging.Level,
		AppID:    option.AppID,
		Env:      option.Env,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %s\n", err)
	}
	logger = logger.With(
		zap.String("service.id", option.AppID),
	)
	defer logger.Sync()

	dbConn, err := driver.GetDBConnection(&driver.DBConfig{
		User:     option.Database.User,
		Password: option.Database.Password,
		MaxConn:  option.Database.MaxConn,
		Protocol: option.Database.Protocol,
		Driver:   option.Database.Driver,
		Host:     option.Database.Host,
		Port:     option.Database.Port,
		Query:    option.Database.Query,
		Schema:   option.Database.Schema,
	})
	if err != nil {
		log.Fatalf("Failed to create DB connection: %s\n", err)
	}
	logger.Debug("Create db connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
	)
	rdb := driver.NewRedisClient(option.KVStore.Host, option.KVStore.Port, option.KVStore.Password)

	UUIDGenerator := uuid.NewNanoIDGenerator(option.Security.IDLength)
	UserRepo := user.NewUserRepository(dbConn, UUIDGenerator)
	UserUseCase := user.NewUserUseCase(UserRepo)

	Feed := completion.NewFeed()
	CompletionRepo := completion.NewCompletionRepository(dbConn)
	CompletionTracker := completion.NewTracker(CompletionRepo, rdb, option.Completion.CacheTTL, Feed)

	CourseRepo := course.NewCourseRepository(dbConn)
	CourseUseCase := course.NewCourseUseCase(CourseRepo, CompletionTracker)

	ihttp.Serve(dbConn, rdb, option, UserUseCase, UserRepo, CourseUseCase, CompletionTracker, Feed, logger)
}
