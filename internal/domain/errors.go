package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("raw document text is empty or unusable")
	ErrInvalidQuery       = errors.New("malformed query parameters")
	ErrCorrectionConflict = errors.New("correction targets an unknown field")
	ErrRecordNotFound     = errors.New("bill record not found")
	ErrUploadFailed       = errors.New("raw text upload to storage failed")
)
