package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"admin_console/internal/domain"

	"github.com/gin-gonic/gin"
)

var ErrInvalid = errors.New("invalid flash cookie")

// Codec carries notifications across a redirect in a signed cookie.
type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool
}

func NewCodec(secret []byte, cookieName string, secure bool) *Codec {
	return &Codec{Secret: secret, CookieName: cookieName, Secure: secure}
}

// value format: base64(json).base64(hmac)
func (c *Codec) Encode(notes []domain.Notification) (string, error) {
	b, err := json.Marshal(notes)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(b)
	return payload + "." + sign(c.Secret, payload), nil
}

func (c *Codec) Decode(v string) ([]domain.Notification, error) {
	payload, sig, ok := strings.Cut(v, ".")
	if !ok || !verify(c.Secret, payload, sig) {
		return nil, ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalid
	}
	var notes []domain.Notification
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, ErrInvalid
	}
	return notes, nil
}

func (c *Codec) CookieMaxAge() int {
	return int((2 * time.Minute).Seconds())
}

// Set stores notes for the next request. Empty input is a no-op.
func (c *Codec) Set(ctx *gin.Context, notes []domain.Notification) error {
	if len(notes) == 0 {
		return nil
	}
	v, err := c.Encode(notes)
	if err != nil {
		return err
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, v, c.CookieMaxAge(), "/", "", c.Secure, true)
	return nil
}

// Pop reads and clears pending notes. A tampered cookie yields nothing.
func (c *Codec) Pop(ctx *gin.Context) []domain.Notification {
	v, err := ctx.Cookie(c.CookieName)
	if err != nil || v == "" {
		return nil
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, "", -1, "/", "", c.Secure, true)
	notes, err := c.Decode(v)
	if err != nil {
		return nil
	}
	return notes
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verify(secret []byte, payload, sig string) bool {
	return hmac.Equal([]byte(sign(secret, payload)), []byte(sig))
}
