package constants

// Context keys used to pass request-scoped values between middleware and handlers
const (
	ContextKeyUserID      = "user_id"
	ContextKeyProject     = "project"
	ContextKeyTask        = "task"
	ContextKeyAccessLevel = "access_level"
)

// Authentication
const (
	MinPasswordLength = 8
	DefaultRoleName   = "Dev"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AI task generation
const MaxGeneratedTasks = 20
