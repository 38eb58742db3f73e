package domain

import "errors"

var (
	ErrNoConnection    = errors.New("no internet connection")
	ErrInvalidResponse = errors.New("invalid response from server")
	ErrDecoding        = errors.New("failed to decode response")
	ErrStorage         = errors.New("storage failure")

	ErrArticleNotFound = errors.New("article not found")
	ErrEmptySelection  = errors.New("please select at least one article to approve")
	ErrEmptyUsername   = errors.New("please enter a username")
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrSyncInProgress  = errors.New("sync already in progress")
)
