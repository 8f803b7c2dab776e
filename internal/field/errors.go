package field

import "errors"

// Lifecycle and configuration errors.
var (
	// ErrInvalidParams indicates a Params value that fails Validate.
	ErrInvalidParams = errors.New("field: invalid params")

	// ErrInvalidMount indicates a MountPoint without a scheduler or viewport.
	ErrInvalidMount = errors.New("field: mount point needs a scheduler and a viewport")

	// ErrAlreadyMounted is returned by a second Mount on a live field.
	ErrAlreadyMounted = errors.New("field: already mounted")

	// ErrTornDown is returned by Mount after Unmount; teardown is terminal.
	ErrTornDown = errors.New("field: torn down")

	// ErrNoSurface indicates the host could not provide a drawing surface yet.
	ErrNoSurface = errors.New("field: drawing surface unavailable")
)
