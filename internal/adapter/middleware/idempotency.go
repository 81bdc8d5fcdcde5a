package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"
	// HeaderReplayed marks a response served from the store instead of the handler.
	HeaderReplayed = "Ax-Idempotent-Replay"

	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware makes retried mutations safe: the first request with a given
// principal, route and Ax-Request-Id runs, later ones get the stored response. It must run after
// Principal. 5xx responses are not stored, so the client may retry them.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	store := replayStore{rdb: rdb, ttl: ttl}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !mutating(req.Method) {
				return next(c)
			}

			reqID := strings.TrimSpace(req.Header.Get(HeaderRequestID))
			if reqID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderRequestID})
			}
			if !validReqID(reqID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderRequestID + " format"})
			}
			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			if skew := time.Since(reqAt); skew > maxClockSkew || skew < -maxClockSkew {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": HeaderRequestAt + " too skewed"})
			}
			principal := PrincipalFrom(c)
			if principal == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderPrincipal})
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			key := replayKey(req.Method, c.Path(), principal, reqID)
			rec := record{Digest: digest(body), RequestAtMS: reqAt.UnixMilli(), StoredAt: time.Now().UTC()}

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			claimed, err := store.claim(ctx, key, rec)
			if err != nil {
				log.Warn("idempotency store unavailable", zap.String("key", key), zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !claimed {
				prev, err := store.lookup(ctx, key)
				switch {
				case err != nil:
					log.Warn("idempotency record unreadable", zap.String("key", key), zap.Error(err))
					return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
				case prev == nil, prev.Pending && prev.Digest == rec.Digest:
					return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
				case prev.Digest != rec.Digest:
					return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with different body"})
				}
				c.Response().Header().Set(HeaderReplayed, "true")
				return c.Blob(prev.Status, echo.MIMEApplicationJSON, prev.Body)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may be gone by now; the record must still be written
			sctx, scancel := context.WithTimeout(context.WithoutCancel(req.Context()), storeTimeout)
			defer scancel()
			if cw.status >= http.StatusInternalServerError {
				if err := store.release(sctx, key); err != nil {
					log.Error("idempotency claim not released", zap.String("key", key), zap.Error(err))
				}
				return nil
			}
			rec.Status, rec.Body, rec.StoredAt = cw.status, cw.body.Bytes(), time.Now().UTC()
			if err := store.complete(sctx, key, rec); err != nil {
				log.Error("idempotency record not saved", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}
