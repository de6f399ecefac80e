package security

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/noah-isme/pricing-calculator/internal/common"
)

var errBodyTooLarge = errors.New("request body too large")

// BodyLimit caps the size of quote payloads.
type BodyLimit struct {
	Max int64
}

// Middleware answers 413 PAYLOAD_TOO_LARGE when the declared or actual body size
// exceeds Max. Accepted bodies are buffered and handed on with an exact ContentLength.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	if b.Max <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}
		buf, err := b.read(r)
		switch {
		case errors.Is(err, errBodyTooLarge):
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request entity too large", map[string]int64{"maxBytes": b.Max})
			return
		case err != nil:
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(buf))
		r.ContentLength = int64(len(buf))
		next.ServeHTTP(w, r)
	})
}

func (b BodyLimit) read(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	if r.ContentLength > b.Max {
		return nil, errBodyTooLarge
	}
	buf, err := io.ReadAll(io.LimitReader(r.Body, b.Max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) > b.Max {
		return nil, errBodyTooLarge
	}
	return buf, nil
}
