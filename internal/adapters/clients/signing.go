package clients

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // MD5 is part of the vendor's canonical string, not used for security
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is the vendor's signature algorithm
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"
)

// Content types used by the signing strategies.
const (
	ContentTypeJSON        = "application/json"
	ContentTypeJSONCharset = "application/json;charset=utf-8"
)

// DefaultSignatureTTL is how long a timed signature stays valid.
const DefaultSignatureTTL = 300 * time.Second

// Signer computes the authentication headers for one outbound request.
//
// The body passed to Sign is exactly the byte slice that will be sent, so
// strategies hashing the body sign the bytes on the wire. A nil body means
// the request has none.
type Signer interface {
	Sign(method, path string, body []byte) (http.Header, error)
}

// SignerFunc adapts a function to the Signer interface.
type SignerFunc func(method, path string, body []byte) (http.Header, error)

// Sign calls f.
func (f SignerFunc) Sign(method, path string, body []byte) (http.Header, error) {
	return f(method, path, body)
}

// BasicAuth sends a static username and password on every request.
type BasicAuth struct {
	Username string
	Password string
}

// Sign implements Signer.
func (b BasicAuth) Sign(_, _ string, _ []byte) (http.Header, error) {
	creds := base64.StdEncoding.EncodeToString([]byte(b.Username + ":" + b.Password))

	h := http.Header{}
	h.Set("Authorization", "Basic "+creds)

	return h, nil
}

// TimedHMACSHA1 signs a canonical string containing the method, body digest,
// content type and an expiry timestamp.
//
// Without a body the canonical string is "METHOD\n\napplication/json\nEXPIRY\n".
// With a body it is "METHOD\nmd5hex(body)\napplication/json;charset=utf-8\nEXPIRY\n".
// The signature is base64(HMAC-SHA1(canonical, Secret)).
type TimedHMACSHA1 struct {
	Secret string

	// HeaderPrefix names the expiry and signature headers, e.g. "SBS"
	// yields SBS-Expires and SBS-Signature.
	HeaderPrefix string

	// TTL defaults to DefaultSignatureTTL.
	TTL time.Duration

	// Now defaults to time.Now. Tests pin it.
	Now func() time.Time
}

// Sign implements Signer.
func (s *TimedHMACSHA1) Sign(method, _ string, body []byte) (http.Header, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultSignatureTTL
	}

	expiry := strconv.FormatInt(now().Add(ttl).Unix(), 10)

	contentType := ContentTypeJSON
	digest := ""
	if len(body) > 0 {
		contentType = ContentTypeJSONCharset
		sum := md5.Sum(body) //nolint:gosec // see import
		digest = hex.EncodeToString(sum[:])
	}

	canonical := method + "\n" + digest + "\n" + contentType + "\n" + expiry + "\n"

	mac := hmac.New(sha1.New, []byte(s.Secret))
	mac.Write([]byte(canonical))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	h := http.Header{}
	h.Set("Content-Type", contentType)
	h.Set(s.HeaderPrefix+"-Expires", expiry)
	h.Set(s.HeaderPrefix+"-Signature", signature)
	if len(body) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(body)))
	}

	return h, nil
}

// HMACSHA256 signs "METHOD\nPATH\n" followed by the raw body, if any. The
// signature is the base64 encoding of the lower-case hex digest, which is
// the form Weebly Cloud verifies. There is no timestamp component, so a
// signature can be replayed for the same request.
type HMACSHA256 struct {
	Secret string
	Header string
}

// Sign implements Signer.
func (s HMACSHA256) Sign(method, path string, body []byte) (http.Header, error) {
	mac := hmac.New(sha256.New, []byte(s.Secret))
	mac.Write([]byte(method + "\n" + path + "\n"))
	mac.Write(body)

	digest := hex.EncodeToString(mac.Sum(nil))

	h := http.Header{}
	h.Set(s.Header, base64.StdEncoding.EncodeToString([]byte(digest)))

	return h, nil
}

// StaticHeaders sends the same headers on every request, e.g. a reseller key.
type StaticHeaders map[string]string

// Sign implements Signer.
func (s StaticHeaders) Sign(_, _ string, _ []byte) (http.Header, error) {
	h := http.Header{}
	for k, v := range s {
		h.Set(k, v)
	}

	return h, nil
}
