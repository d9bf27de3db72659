package domain

import (
	"math"
	"strconv"
	"strings"
)

// Validate checks the draft before any network call and coerces the raw
// price. requireImage is true in create mode.
func (d Draft) Validate(requireImage bool) (float64, error) {
	var missing []Field
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, FieldName)
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, FieldDescription)
	}
	if strings.TrimSpace(d.Price) == "" {
		missing = append(missing, FieldPrice)
	}
	if requireImage && d.Image == nil {
		missing = append(missing, FieldImage)
	}
	if len(missing) > 0 {
		return 0, &ValidationError{Fields: missing, Reason: "required"}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(d.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &ValidationError{Fields: []Field{FieldPrice}, Reason: "not a number"}
	}
	if price < 0 {
		return 0, &ValidationError{Fields: []Field{FieldPrice}, Reason: "negative"}
	}
	return price, nil
}

// DraftFromProduct hydrates an edit buffer from a persisted product.
func DraftFromProduct(p Product) Draft {
	return Draft{
		Name:        p.Name,
		Description: p.Description,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		ProductID:   p.ID,
		ImageRef:    p.ImageRef,
	}
}
