package services

import "errors"

// Authorization failures abort before any write.
var (
	ErrUnauthorized = errors.New("unauthorized")
)

// Not-found errors. A vanished referent is an expected race with a
// concurrent delete, not a fault.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrListNotFound         = errors.New("list not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrSubtaskNotFound      = errors.New("subtask not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrRepoNotFound         = errors.New("linked repo not found")
	ErrWebhookNotFound      = errors.New("webhook not found")
)

// Validation failures.
var (
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrProfileExists       = errors.New("user already has a profile")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrSelfInvite          = errors.New("cannot invite yourself")
	ErrDuplicateInvitation = errors.New("user already has a pending invitation")
	ErrAlreadyMember       = errors.New("user is already a team member")
	ErrCannotRemoveOwner   = errors.New("cannot remove team owner")
	ErrLastList            = errors.New("cannot delete the last personal list")
)
