package main

import (
	"context"
	"os"

	"github.com/yigit/schoolms/internal/cli"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// @title School Management API
// @version 1.0
// @description Courses, lecturers, subjects and students, with enrollment kept inside one course.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" or "Token" followed by a space and the token.
func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
