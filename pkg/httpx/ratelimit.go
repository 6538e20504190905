package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/storefront/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimit is a token bucket: Requests per Window, refilled evenly, with up
// to Burst requests available at once.
type RateLimit struct {
	Requests int
	Window   time.Duration
	Burst    int
}

func (l RateLimit) String() string {
	return fmt.Sprintf("%d/%s,%d", l.Requests, l.Window, l.Burst)
}

// refill is how long an empty bucket takes to fill back up to Burst.
func (l RateLimit) refill() time.Duration {
	return time.Duration(float64(l.Window) * float64(l.Burst) / float64(l.Requests))
}

// Route profiles. Each can be overridden at startup with
// STOREFRONT_RATELIMIT_<NAME>, e.g. STOREFRONT_RATELIMIT_LOGIN=10/1m,10.
var (
	// LoginLimit bounds credential attempts per client address and email.
	LoginLimit = RateLimit{Requests: 5, Window: time.Minute, Burst: 5}

	// AccountLimit bounds credential attempts per email from any address.
	AccountLimit = RateLimit{Requests: 10, Window: 15 * time.Minute, Burst: 10}

	// WriteLimit bounds authenticated user and product mutations.
	WriteLimit = RateLimit{Requests: 20, Window: time.Minute, Burst: 20}

	// ReadLimit bounds authenticated reads.
	ReadLimit = RateLimit{Requests: 100, Window: time.Minute, Burst: 100}

	// PublicLimit bounds the public catalogue and probes.
	PublicLimit = RateLimit{Requests: 1000, Window: time.Minute, Burst: 1000}
)

func init() {
	LoginLimit = RateLimitFromEnv("LOGIN", LoginLimit)
	AccountLimit = RateLimitFromEnv("ACCOUNT", AccountLimit)
	WriteLimit = RateLimitFromEnv("WRITE", WriteLimit)
	ReadLimit = RateLimitFromEnv("READ", ReadLimit)
	PublicLimit = RateLimitFromEnv("PUBLIC", PublicLimit)
}

// RateLimitFromEnv returns the limit in STOREFRONT_RATELIMIT_<name>, or def
// when the variable is unset or invalid.
func RateLimitFromEnv(name string, def RateLimit) RateLimit {
	v := os.Getenv("STOREFRONT_RATELIMIT_" + name)
	if v == "" {
		return def
	}
	l, err := ParseRateLimit(v)
	if err != nil {
		return def
	}
	return l
}

// ParseRateLimit parses "<requests>/<window>[,<burst>]". Burst defaults to
// requests.
func ParseRateLimit(s string) (RateLimit, error) {
	spec, burstPart, hasBurst := strings.Cut(strings.TrimSpace(s), ",")
	reqPart, windowPart, ok := strings.Cut(spec, "/")
	if !ok {
		return RateLimit{}, fmt.Errorf("httpx: rate limit %q: want <requests>/<window>[,<burst>]", s)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(reqPart))
	if err != nil || requests <= 0 {
		return RateLimit{}, fmt.Errorf("httpx: rate limit %q: requests must be a positive integer", s)
	}
	window, err := time.ParseDuration(strings.TrimSpace(windowPart))
	if err != nil || window <= 0 {
		return RateLimit{}, fmt.Errorf("httpx: rate limit %q: window must be a positive duration", s)
	}

	burst := requests
	if hasBurst {
		burst, err = strconv.Atoi(strings.TrimSpace(burstPart))
		if err != nil || burst <= 0 {
			return RateLimit{}, fmt.Errorf("httpx: rate limit %q: burst must be a positive integer", s)
		}
	}

	return RateLimit{Requests: requests, Window: window, Burst: burst}, nil
}

// KeyFunc groups requests into buckets. An empty key is not limited.
type KeyFunc func(*http.Request) string

// UserKey keys by the authenticated user id.
func UserKey(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

// FirstKey uses the first non-empty key.
func FirstKey(keys ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		for _, k := range keys {
			if v := k(r); v != "" {
				return v
			}
		}
		return ""
	}
}

// CompositeKey joins the non-empty keys with sep.
func CompositeKey(sep string, keys ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if v := k(r); v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, sep)
	}
}

// JSONFieldKey keys by a top-level string field of a JSON body, trimmed and
// lowercased. The body is restored for the handler.
func JSONFieldKey(field string) KeyFunc {
	return func(r *http.Request) string {
		if r.Body == nil {
			return ""
		}
		raw, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(raw))
		if err != nil {
			return ""
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return ""
		}
		var v string
		if err := json.Unmarshal(fields[field], &v); err != nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(v))
	}
}

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// buckets holds one limiter per key. A bucket idle for a full refill is
// indistinguishable from a new one, so sweeping it loses nothing.
type buckets struct {
	limit RateLimit
	idle  time.Duration
	mu    sync.Mutex
	byKey map[string]*bucket
	swept time.Time
}

func newBuckets(limit RateLimit) *buckets {
	return &buckets{
		limit: limit,
		idle:  limit.refill(),
		byKey: make(map[string]*bucket),
		swept: time.Now(),
	}
}

// take consumes a token for key, or reports how long until one is available.
func (b *buckets) take(key string, now time.Time) (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.swept) >= b.idle {
		for k, bk := range b.byKey {
			if now.Sub(bk.seen) >= b.idle {
				delete(b.byKey, k)
			}
		}
		b.swept = now
	}

	bk, ok := b.byKey[key]
	if !ok {
		every := rate.Limit(float64(b.limit.Requests) / b.limit.Window.Seconds())
		bk = &bucket{limiter: rate.NewLimiter(every, b.limit.Burst)}
		b.byKey[key] = bk
	}
	bk.seen = now

	if bk.limiter.AllowN(now, 1) {
		return true, 0
	}
	res := bk.limiter.ReserveN(now, 1)
	wait := res.DelayFrom(now)
	res.CancelAt(now)
	return false, wait
}

func (b *buckets) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byKey)
}

// RateLimitMiddleware rejects requests over limit with 429, grouping them by key.
func RateLimitMiddleware(limit RateLimit, key KeyFunc) Middleware {
	b := newBuckets(limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := b.take(k, time.Now())
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(int(math.Ceil(wait.Seconds())), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
			w.Header().Set("X-RateLimit-Window", limit.Window.String())

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"key", k,
				"limit", limit.String(),
				"path", r.URL.Path,
				"retry_after", retryAfter,
			)
			WriteError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		})
	}
}

// Limiters builds route rate limits keyed by the resolved client address.
type Limiters struct {
	ClientIP *ClientIP
}

// ByIP limits per client address.
func (l Limiters) ByIP(limit RateLimit) Middleware {
	return RateLimitMiddleware(limit, l.ClientIP.Key())
}

// ByUser limits per authenticated user, or per client address when anonymous.
func (l Limiters) ByUser(limit RateLimit) Middleware {
	return RateLimitMiddleware(limit, FirstKey(UserKey, l.ClientIP.Key()))
}

// ByIPAndField limits per client address and JSON body field.
func (l Limiters) ByIPAndField(limit RateLimit, field string) Middleware {
	return RateLimitMiddleware(limit, CompositeKey(":", l.ClientIP.Key(), JSONFieldKey(field)))
}

// ByField limits per JSON body field regardless of client address.
func (l Limiters) ByField(limit RateLimit, field string) Middleware {
	return RateLimitMiddleware(limit, JSONFieldKey(field))
}
