package ai

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDataURI is returned for anything that is not a base64 image data URI
var ErrInvalidDataURI = errors.New("invalid image data uri")

// Image is a decoded inline image
type Image struct {
	MIMEType string
	Data     []byte
}

// ParseDataURI decodes data:image/<subtype>;base64,<payload>
func ParseDataURI(uri string) (Image, error) {
	if !strings.HasPrefix(uri, "data:") {
		return Image{}, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURI)
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURI)
	}

	params := strings.Split(header, ";")
	mime := strings.ToLower(strings.TrimSpace(params[0]))
	sub, isImage := strings.CutPrefix(mime, "image/")
	if !isImage || sub == "" {
		return Image{}, fmt.Errorf("%w: media type %q is not an image", ErrInvalidDataURI, mime)
	}

	base64Encoded := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			base64Encoded = true
		}
	}
	if !base64Encoded {
		return Image{}, fmt.Errorf("%w: payload must be base64", ErrInvalidDataURI)
	}
	if payload == "" {
		return Image{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURI)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return Image{MIMEType: mime, Data: data}, nil
}
