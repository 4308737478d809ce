package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"

	"reviewhub/internal/model"
)

const confirmationKeyInfo = "reviewhub confirmation code v1"

// ConfirmationCodes makes and checks signup confirmation codes.
//
// A code is "<issued-at base36>-<hmac hex>". The HMAC covers the user's id,
// username, email and last login time, so any of those changing invalidates
// outstanding codes. Recording a login on successful exchange therefore makes
// each code single-use without any server-side code storage.
type ConfirmationCodes struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewConfirmationCodes derives a dedicated signing key from secret.
func NewConfirmationCodes(secret string, ttl time.Duration) *ConfirmationCodes {
	key := make([]byte, sha256.Size)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(confirmationKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		// hkdf only fails after 255*32 bytes
		panic(fmt.Sprintf("derive confirmation key: %v", err))
	}
	return &ConfirmationCodes{key: key, ttl: ttl, now: time.Now}
}

// Make returns a fresh code for the user's current state.
func (c *ConfirmationCodes) Make(u *model.User) string {
	issued := c.now().Unix()
	return c.make(u, issued)
}

// Check reports whether code was made for the user's current state and has
// not expired.
func (c *ConfirmationCodes) Check(u *model.User, code string) bool {
	stamp, _, ok := strings.Cut(code, "-")
	if !ok {
		return false
	}
	issued, err := strconv.ParseInt(stamp, 36, 64)
	if err != nil {
		return false
	}
	age := c.now().Sub(time.Unix(issued, 0))
	if age < 0 || age > c.ttl {
		return false
	}
	return hmac.Equal([]byte(c.make(u, issued)), []byte(code))
}

func (c *ConfirmationCodes) make(u *model.User, issued int64) string {
	var lastLogin int64
	if u.LastLoginAt != nil {
		lastLogin = u.LastLoginAt.Unix()
	}

	mac := hmac.New(sha256.New, c.key)
	fmt.Fprintf(mac, "%d|%s|%s|%d|%d", u.ID, u.Username, u.Email, lastLogin, issued)
	sum := mac.Sum(nil)

	return strconv.FormatInt(issued, 36) + "-" + hex.EncodeToString(sum[:10])
}
