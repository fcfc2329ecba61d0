package errors

import "errors"

var (
	ErrUnauthorizedAdmin  = errors.New("caller is not the distribution admin")
	ErrAssetNotFound      = errors.New("asset not found")
	ErrAssetExists        = errors.New("asset already registered")
	ErrInvalidAssetInput  = errors.New("invalid asset input")
	ErrInvalidPolicyInput = errors.New("invalid distribution policy input")
)
