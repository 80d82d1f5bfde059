package store

import (
	"github.com/geocoder89/worklog/internal/repo"
	"github.com/geocoder89/worklog/internal/repo/memory"
	"github.com/geocoder89/worklog/internal/repo/mongodb"
	"github.com/geocoder89/worklog/internal/repo/postgres"
)

// Compile-time checks that every backend satisfies the repo contracts.
var (
	_ repo.Users     = (*memory.UsersRepo)(nil)
	_ repo.Workouts  = (*memory.WorkoutsRepo)(nil)
	_ repo.Templates = (*memory.TemplatesRepo)(nil)

	_ repo.Users     = (*postgres.UsersRepo)(nil)
	_ repo.Workouts  = (*postgres.WorkoutsRepo)(nil)
	_ repo.Templates = (*postgres.TemplatesRepo)(nil)

	_ repo.Users     = (*mongodb.UsersRepo)(nil)
	_ repo.Workouts  = (*mongodb.WorkoutsRepo)(nil)
	_ repo.Templates = (*mongodb.TemplatesRepo)(nil)
)
