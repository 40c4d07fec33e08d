package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrConflict      = errors.New("resource conflict")
	ErrInternalError = errors.New("internal server error")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// Hub errors
var (
	ErrHubNotFound    = errors.New("hub not found")
	ErrHubArchived    = errors.New("hub has been archived")
	ErrSlugTaken      = errors.New("hub slug already taken")
	ErrInvalidHubName = errors.New("hub name must be between 3 and 255 characters")
)

// Membership errors
var (
	ErrNotTeacher    = errors.New("user is not the hub teacher")
	ErrNotMember     = errors.New("user is not a hub member")
	ErrAlreadyMember = errors.New("user already a hub member")
	ErrTeacherLeave  = errors.New("teacher cannot leave their own hub")
)

// Message errors
var (
	ErrMessageNotFound    = errors.New("message not found")
	ErrReplyNotFound      = errors.New("reply not found")
	ErrEmptyMessage       = errors.New("message must have content or an attachment")
	ErrNotAPoll           = errors.New("message is not a poll")
	ErrInvalidPollOption  = errors.New("option is not part of this poll")
	ErrPollNeedsOptions   = errors.New("poll requires at least two options")
	ErrStudentPollsClosed = errors.New("students cannot create polls in this hub")
	ErrInvalidVoteKind    = errors.New("vote kind must be up or down")
)

// Stream errors
var (
	ErrStreamNotActive     = errors.New("no active livestream for this hub")
	ErrStreamAlreadyActive = errors.New("livestream already running")
	ErrRecordingDisabled   = errors.New("recording is disabled for this hub")
	ErrRecordingInProgress = errors.New("recording already in progress")
)

// LiveKit errors
var (
	ErrLivekitConnection = errors.New("failed to connect to LiveKit")
	ErrLivekitToken      = errors.New("failed to generate LiveKit token")
	ErrLivekitRoom       = errors.New("LiveKit room error")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// User errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserNotActive    = errors.New("user is not active")
	ErrEmailAlreadyUsed = errors.New("email already in use")
)
