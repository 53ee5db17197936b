package constants

// Session / context keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "tracker_session"
)

// Authentication
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Code generation
const (
	// JoinCodeLength is the length of a persistent team/community join code.
	JoinCodeLength = 10
	// InviteCodeLength is the length of a time-limited invite code.
	InviteCodeLength = 12
	// JoinCodeMaxAttempts bounds the collision-avoidance retry loop when
	// generating a join code. After the last attempt the candidate is used
	// as-is; the unique index on the code column is the actual guarantee.
	JoinCodeMaxAttempts = 5
)
