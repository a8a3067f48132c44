package platform

import (
	"errors"
)

var (
	// ErrAlreadyRunning is returned when a sync can't be started because the previous
	// run for the same task is not finished yet.
	ErrAlreadyRunning = errors.New("sync already running for this task")
	// ErrNoDefaultCategory is returned when a brand has no mandatory "all products" category.
	ErrNoDefaultCategory = errors.New("brand has no default category")
	// ErrNoAdapter is returned when no site adapter is registered for a catalog URL host.
	ErrNoAdapter = errors.New("no site adapter for catalog url")
	// ErrNoCatalogURLs is returned when a sync command carries an empty url list.
	ErrNoCatalogURLs = errors.New("no catalog urls supplied")
)
