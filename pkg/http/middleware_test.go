package xhttp

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func newCtx(path string) *RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod("GET")
	ctx.Request.SetRequestURI(path)
	return ctx
}

func TestRequestIDMiddleware_Generates(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(func(ctx *RequestCtx) { seen = RequestID(ctx) })

	ctx := newCtx("/api/v1/patients/1/messages")
	h(ctx)

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, string(ctx.Response.Header.Peek(HeaderRequestID)))
}

func TestRequestIDMiddleware_KeepsClientID(t *testing.T) {
	h := RequestIDMiddleware(func(ctx *RequestCtx) {})

	ctx := newCtx("/")
	ctx.Request.Header.Set(HeaderRequestID, "abc-123")
	h(ctx)

	assert.Equal(t, "abc-123", string(ctx.Response.Header.Peek(HeaderRequestID)))
	assert.Equal(t, "abc-123", RequestID(ctx))
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(ctx *RequestCtx) { panic("boom") })

	ctx := newCtx("/")
	assert.NotPanics(t, func() { h(ctx) })
	assert.Equal(t, StatusInternalServerError, ctx.Response.StatusCode())
}

func TestRequestLoggerMiddleware_PassesThrough(t *testing.T) {
	called := 0
	h := RequestLoggerMiddleware(func(ctx *RequestCtx) {
		called++
		ctx.SetStatusCode(StatusCreated)
	})

	h(newCtx("/api/v1/whatsapp/normalize"))
	h(newCtx("/health"))
	assert.Equal(t, 2, called)
}

func TestEngine_MiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) MiddlewareFunc {
		return func(next RequestHandler) RequestHandler {
			return func(ctx *RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}

	e := CreateServer()
	e.GET("/ping", func(ctx *RequestCtx) { order = append(order, "handler") })
	e.Use(mark("first"))
	e.Use(mark("second"))
	e.DoRouting()

	e.Server.Handler(newCtx("/ping"))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestNotFoundHandler(t *testing.T) {
	ctx := newCtx("/nope")
	NotFoundHandler(ctx)
	assert.Equal(t, StatusNotFound, ctx.Response.StatusCode())
}
