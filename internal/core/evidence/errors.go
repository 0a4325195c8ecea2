// Package evidence validates the auxiliary evidence submitted with a recycle
// request: the product photo and the optional purchase receipt code.
package evidence

import "errors"

// Sentinel errors for evidence validation.
var (
	ErrReceiptFormat  = errors.New("receipt code has invalid format")
	ErrUnknownReceipt = errors.New("receipt code is not recognized")
	ErrPhotoRejected  = errors.New("photo rejected")
)

// ReceiptError is a user-correctable receipt failure.
// Kind is one of ErrReceiptFormat or ErrUnknownReceipt.
type ReceiptError struct {
	Kind    error
	Code    string
	Message string
}

func (e *ReceiptError) Error() string { return e.Message }

func (e *ReceiptError) Unwrap() error { return e.Kind }

// PhotoError is a user-correctable photo failure.
type PhotoError struct {
	MediaType string
	Message   string
}

func (e *PhotoError) Error() string { return e.Message }

func (e *PhotoError) Unwrap() error { return ErrPhotoRejected }
