package evidence

import (
	"context"
	"time"
)

const msgPhotoRejected = "We couldn't identify the correct product. Please ensure the whole product is visible and try again."

// Photo is an uploaded product photo. MediaType is the type declared by the
// uploader; the content is carried but not inspected.
type Photo struct {
	Filename  string
	MediaType string
	Data      []byte
}

// Delay waits for d or until ctx is done.
type Delay func(ctx context.Context, d time.Duration) error

// Sleep is the production Delay.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CheckPhoto applies the format rule: the declared media type must equal
// the accepted type exactly.
func CheckPhoto(photo Photo, acceptedType string) error {
	if photo.MediaType != acceptedType {
		return &PhotoError{MediaType: photo.MediaType, Message: msgPhotoRejected}
	}
	return nil
}

// PhotoInspector simulates an external inspection with a fixed latency
// before applying CheckPhoto.
type PhotoInspector struct {
	acceptedType string
	latency      time.Duration
	wait         Delay
}

// NewPhotoInspector creates an inspector. A nil wait uses Sleep.
func NewPhotoInspector(acceptedType string, latency time.Duration, wait Delay) *PhotoInspector {
	if wait == nil {
		wait = Sleep
	}
	return &PhotoInspector{acceptedType: acceptedType, latency: latency, wait: wait}
}

// ValidatePhoto waits out the inspection latency, then returns nil if the
// photo is accepted or a *PhotoError if not. A context error is returned
// unchanged when the wait is abandoned.
func (p *PhotoInspector) ValidatePhoto(ctx context.Context, photo Photo) error {
	if err := p.wait(ctx, p.latency); err != nil {
		return err
	}
	return CheckPhoto(photo, p.acceptedType)
}
