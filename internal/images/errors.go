package images

import "errors"

var (
	// ErrNotImage is returned when the response content type is not an image type.
	ErrNotImage = errors.New("response is not an image")
	// ErrTooLarge is returned when the declared or actual payload exceeds the size cap.
	ErrTooLarge = errors.New("image exceeds size cap")
	// ErrTooSmall is returned when the payload is implausibly small to be a real image.
	ErrTooSmall = errors.New("image payload implausibly small")
)
