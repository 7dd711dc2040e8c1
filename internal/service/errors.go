package service

import "errors"

// Common service errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("resource not found")
)

// User service specific errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrSelfBlock          = errors.New("cannot block yourself")
)

// Chat service specific errors
var (
	ErrRoomNotFound    = errors.New("chat room not found")
	ErrNotRoomMember   = errors.New("user is not a member of this room")
	ErrAlreadyReported = errors.New("user already reported in this room")
	ErrInvalidScore    = errors.New("score must be between 1 and 5")
)

// Community service specific errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// MBTI test service specific errors
var (
	ErrTestNotFound    = errors.New("test session not found")
	ErrTestAlreadyDone = errors.New("test session already completed")
	ErrTestInProgress  = errors.New("another test is already in progress")
	ErrEmptyAnswer     = errors.New("answer must not be empty")
)

// Consult service specific errors
var (
	ErrConsultNotFound = errors.New("consult session not found")
)
