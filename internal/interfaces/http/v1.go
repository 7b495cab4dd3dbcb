package http

import (
	"github.com/labstack/echo/v4"
)

func v1Endpoint(
	websocket *Websocket,
	UserHandler *UserHandler,
	CourseHandler *CourseHandler,
	ProgressHandler *ProgressHandler,
	jwtMiddleware echo.MiddlewareFunc,
	refreshMiddleware echo.MiddlewareFunc,
	requestIDMiddleware echo.MiddlewareFunc,
	traceLoggerMiddleware echo.MiddlewareFunc,
) *endpoint {
	return &endpoint{
		apiVersion:  "api/v1",
		middlewares: []echo.MiddlewareFunc{requestIDMiddleware, traceLoggerMiddleware},
		groups: []*apiGroup{
			{
				prefix: "/user",
				routes: []*route{
					{"POST", "/login", UserHandler.HandleSignIn, nil},
					{"PUT", "/sign-out", UserHandler.HandleSignOut, nil},
					{"POST", "/sign-up", UserHandler.HandleSignUp, nil},
					{"GET", "/exists", UserHandler.HandleUserExists, nil},
				},
			},
			{
				prefix:      "/course",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "/:course/next-lesson", CourseHandler.HandleGetNextLesson, nil},
					{"GET", "/:course/lessons", CourseHandler.HandleListLessons, nil},
					{"PUT", "/:course/lesson/:slug/complete", CourseHandler.HandleMarkComplete, nil},
				},
			},
			{
				prefix:      "/ws",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware},
				routes: []*route{
					{"GET", "/progress", websocket.WithHeartbeat(ProgressHandler.HandleProgressStream), nil},
				},
			},
		},
	}
}
