package domain

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotAnImage    = errors.New("file is not an image")
	ErrImageTooLarge = errors.New("image exceeds the upload limit")
)

// Image is a pending upload held by a Draft.
type Image struct {
	FileName    string
	ContentType string
	Data        []byte
}

// NewImage builds an Image from an uploaded file. The declared type is
// kept when it names an image; otherwise the payload is sniffed.
func NewImage(fileName, declaredType string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrNotAnImage
	}
	contentType := strings.TrimSpace(strings.Split(declaredType, ";")[0])
	if !strings.HasPrefix(contentType, "image/") {
		contentType = mimetype.Detect(data).String()
		contentType = strings.Split(contentType, ";")[0]
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}
	if fileName == "" {
		fileName = "imagen"
		if m := mimetype.Lookup(contentType); m != nil {
			fileName += m.Extension()
		}
	}
	return &Image{FileName: fileName, ContentType: contentType, Data: data}, nil
}

// DataURL encodes the image as a data: URL suitable for an <img> preview.
func (i *Image) DataURL() string {
	return "data:" + i.ContentType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ParseDataURL is the inverse of DataURL. It is used to carry a pending
// image across a failed form submission.
func ParseDataURL(fileName, s string) (*Image, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, ErrNotAnImage
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrNotAnImage
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, ErrNotAnImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrNotAnImage
	}
	return NewImage(fileName, contentType, data)
}
