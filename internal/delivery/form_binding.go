package delivery

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"admin_console/internal/domain"
)

const (
	fieldName        = "nombre"
	fieldDescription = "descripcion"
	fieldPrice       = "precio"
	fieldImage       = "imagen"
	fieldStoredImage = "imagen_actual"
	fieldPending     = "imagen_pendiente"
	fieldPendingName = "imagen_pendiente_nombre"

	maxFieldBytes = 64 << 10
)

var errMalformedForm = errors.New("malformed product form")

type uploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
	TooLarge    bool
}

// productForm is what could be read from a product form submission.
type productForm struct {
	Values map[string]string
	File   *uploadedFile
}

// pendingLimit is the size of the data URL that carries an image of
// maxImage bytes across a failed submit.
func pendingLimit(maxImage int64) int64 {
	return int64(base64.StdEncoding.EncodedLen(int(maxImage))) + 256
}

// formLimit bounds a whole product form body: a new file, the carried
// data URL of the previous one and the text fields.
func formLimit(maxImage int64) int64 {
	return maxImage + pendingLimit(maxImage) + 8*maxFieldBytes
}

// readProductForm streams the multipart body part by part. Fields read
// before a failure are returned along with the error so the page can be
// re-rendered with them.
func readProductForm(r *http.Request, maxImage int64) (productForm, error) {
	form := productForm{Values: map[string]string{}}
	body := &recordingBody{ReadCloser: r.Body}
	r.Body = body
	formError := func(err error) error {
		var tooLarge *http.MaxBytesError
		if errors.As(body.err, &tooLarge) {
			return tooLarge
		}
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: %w", errMalformedForm, err)
	}

	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			return form, formError(err)
		}
		for k := range r.PostForm {
			form.Values[k] = r.PostForm.Get(k)
		}
		return form, nil
	}
	if err != nil {
		return form, formError(err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return form, nil
		}
		if err != nil {
			return form, formError(err)
		}

		name := part.FormName()
		switch {
		case name == fieldImage:
			data, err := io.ReadAll(io.LimitReader(part, maxImage+1))
			if err != nil {
				return form, formError(err)
			}
			if len(data) == 0 {
				continue // no file chosen
			}
			file := &uploadedFile{Name: part.FileName(), ContentType: part.Header.Get("Content-Type")}
			if int64(len(data)) > maxImage {
				file.TooLarge = true
			} else {
				file.Data = data
			}
			form.File = file
		case name == "" || part.FileName() != "":
			continue
		default:
			limit := int64(maxFieldBytes)
			if name == fieldPending {
				limit = pendingLimit(maxImage)
			}
			b, err := io.ReadAll(io.LimitReader(part, limit+1))
			if err != nil {
				return form, formError(err)
			}
			if int64(len(b)) > limit {
				continue
			}
			form.Values[name] = string(b)
		}
	}
}

// recordingBody keeps the first read error of the request body, which the
// multipart reader may otherwise swallow while skipping a part.
type recordingBody struct {
	io.ReadCloser
	err error
}

func (b *recordingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF && b.err == nil {
		b.err = err
	}
	return n, err
}

func (f productForm) draft() domain.Draft {
	return domain.Draft{
		Name:        f.Values[fieldName],
		Description: f.Values[fieldDescription],
		Price:       f.Values[fieldPrice],
		ImageRef:    f.Values[fieldStoredImage],
	}
}

// image returns the selected image. A new file takes precedence over the
// one carried from a previous attempt; when the new file is rejected the
// carried image is still returned so it is not lost.
func (f productForm) image() (*domain.Image, error) {
	var pending *domain.Image
	if v := f.Values[fieldPending]; v != "" {
		img, err := domain.ParseDataURL(f.Values[fieldPendingName], v)
		if err != nil && f.File == nil {
			return nil, err
		}
		pending = img
	}

	if f.File == nil {
		return pending, nil
	}
	if f.File.TooLarge {
		return pending, domain.ErrImageTooLarge
	}
	img, err := domain.NewImage(f.File.Name, f.File.ContentType, f.File.Data)
	if err != nil {
		return pending, err
	}
	return img, nil
}

// formErrorMessage is the notification for a submission rejected before
// it reached the form view-model.
func formErrorMessage(err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return msgFormTooLarge
	case errors.Is(err, domain.ErrImageTooLarge):
		return msgImageTooLarge
	case errors.Is(err, domain.ErrNotAnImage):
		return msgNotAnImage
	default:
		return msgFormMalformed
	}
}
