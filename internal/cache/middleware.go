package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/logging"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/metrics"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/observability"
)

// Response headers set by the middleware.
const (
	HeaderCache    = "X-Cache"
	HeaderCacheKey = "X-Cache-Key"
)

// DefaultOpTimeout bounds every store call made on behalf of a request.
const DefaultOpTimeout = 200 * time.Millisecond

// maxCaptureBytes caps how much of a response is buffered for storage.
// Larger payloads are still served, just never cached.
const maxCaptureBytes = 4 << 20

// Options configures a ResponseCache.
type Options struct {
	// Bypass, when it returns true, disables the cache for every request.
	Bypass func() bool
	// OpTimeout bounds each Get and Set. Zero means DefaultOpTimeout.
	OpTimeout time.Duration
}

// ResponseCache memoizes GET responses in a Store. Routes opt in through
// Middleware, each with its own TTL.
type ResponseCache struct {
	store   Store
	bypass  func() bool
	timeout time.Duration
	writes  sync.WaitGroup
}

// NewResponseCache creates a response cache over store.
func NewResponseCache(store Store, opts Options) *ResponseCache {
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = DefaultOpTimeout
	}
	if opts.Bypass == nil {
		opts.Bypass = func() bool { return false }
	}
	return &ResponseCache{
		store:   store,
		bypass:  opts.Bypass,
		timeout: opts.OpTimeout,
	}
}

// RouteOption customizes a single Middleware registration.
type RouteOption func(*route)

type route struct {
	ttl     time.Duration
	keyFunc KeyFunc
}

// WithKeyFunc overrides the default key scheme for one route.
func WithKeyFunc(fn KeyFunc) RouteOption {
	return func(rt *route) {
		if fn != nil {
			rt.keyFunc = fn
		}
	}
}

// Middleware returns a handler wrapper that caches JSON responses for ttl.
// It panics if ttl is not positive.
func (c *ResponseCache) Middleware(ttl time.Duration, opts ...RouteOption) func(http.Handler) http.Handler {
	if ttl <= 0 {
		panic("cache: ttl must be positive")
	}
	rt := &route{ttl: ttl, keyFunc: DefaultKey}
	for _, opt := range opts {
		opt(rt)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.serve(rt, next, w, r)
		})
	}
}

func (c *ResponseCache) serve(rt *route, next http.Handler, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		next.ServeHTTP(w, r)
		return
	}
	if c.store == nil || !c.store.Connected() || c.bypass() {
		metrics.RecordCacheLookup(metrics.CacheBypass)
		next.ServeHTTP(w, r)
		return
	}

	key := rt.keyFunc(r)

	getCtx, cancel := context.WithTimeout(r.Context(), c.timeout)
	cached, err := c.store.Get(getCtx, key)
	cancel()

	switch {
	case err == nil && cached != nil:
		metrics.RecordCacheLookup(metrics.CacheHit)
		observability.AddEvent(r.Context(), "cache.hit", observability.AttrCacheKey.String(key))
		writeHit(w, key, cached)
		return
	case err != nil && !errors.Is(err, ErrNotFound):
		metrics.RecordCacheLookup(metrics.CacheError)
		logging.FromContext(r.Context()).Warn("cache read failed", "key", key, "error", err)
		next.ServeHTTP(w, r)
		return
	}

	metrics.RecordCacheLookup(metrics.CacheMiss)
	observability.AddEvent(r.Context(), "cache.miss", observability.AttrCacheKey.String(key))

	w.Header().Set(HeaderCache, "MISS")
	cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
	next.ServeHTTP(cw, r)

	if payload, ok := cw.payload(); ok {
		c.storeAsync(r.Context(), key, payload, rt.ttl)
	}
}

func writeHit(w http.ResponseWriter, key string, body []byte) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set(HeaderCache, "HIT")
	h.Set(HeaderCacheKey, key)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// storeAsync writes the payload without holding up the response. The write
// outlives the request context but not the op timeout.
func (c *ResponseCache) storeAsync(reqCtx context.Context, key string, payload []byte, ttl time.Duration) {
	c.writes.Add(1)
	go func() {
		defer c.writes.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), c.timeout)
		defer cancel()
		if !c.store.Connected() {
			return
		}
		if err := c.store.Set(ctx, key, payload, ttl); err != nil {
			metrics.RecordCacheWrite(false)
			logging.FromContext(ctx).Warn("cache write failed", "key", key, "error", err)
			return
		}
		metrics.RecordCacheWrite(true)
	}()
}

// Wait blocks until all in-flight background writes have finished. The
// server calls it during shutdown.
func (c *ResponseCache) Wait() {
	c.writes.Wait()
}

// captureWriter forwards everything to the client while keeping a copy of
// the body for the cache.
type captureWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	buf         bytes.Buffer
	overflow    bool
}

func (cw *captureWriter) WriteHeader(code int) {
	if cw.wroteHeader {
		return
	}
	cw.wroteHeader = true
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	if !cw.overflow {
		if cw.buf.Len()+len(b) > maxCaptureBytes {
			cw.overflow = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

func (cw *captureWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

// payload returns the captured body when it is a cacheable JSON document:
// a 2xx status, a JSON content type and a well-formed body.
func (cw *captureWriter) payload() ([]byte, bool) {
	if cw.overflow || cw.status < 200 || cw.status > 299 || cw.buf.Len() == 0 {
		return nil, false
	}
	mt, _, err := mime.ParseMediaType(cw.Header().Get("Content-Type"))
	if err != nil || mt != "application/json" {
		return nil, false
	}
	body := cw.buf.Bytes()
	if !json.Valid(body) {
		return nil, false
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, true
}
