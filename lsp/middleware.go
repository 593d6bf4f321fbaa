package lsp

import (
	"fmt"
	"runtime/debug"

	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/lsp/methods/workspace"
	"bennypowers.dev/filterfallback/lsp/types"
	"github.com/tliron/glsp"
)

// recovered turns a handler panic into an error reported to the client
func recovered(ctx *glsp.Context, methodName string, r any) error {
	log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, debug.Stack())
	workspace.LogError(ctx, "Internal error in %s: %v", methodName, r)
	return fmt.Errorf("internal error in %s", methodName)
}

// failed wraps a handler error with the method name and reports it
func failed(ctx *glsp.Context, methodName string, err error) error {
	workspace.LogError(ctx, "%s: %v", methodName, err)
	return fmt.Errorf("%s: %w", methodName, err)
}

// method wraps a request handler with panic recovery and logging
func method[P, R any](
	s types.ServerContext,
	methodName string,
	handler func(types.ServerContext, *glsp.Context, P) (R, error),
) func(*glsp.Context, P) (R, error) {
	return func(ctx *glsp.Context, params P) (result R, err error) {
		defer func() {
			if r := recover(); r != nil {
				var zero R
				result, err = zero, recovered(ctx, methodName, r)
			}
		}()

		log.Debug("%s started", methodName)
		result, err = handler(s, ctx, params)
		if err != nil {
			return result, failed(ctx, methodName, err)
		}
		return result, nil
	}
}

// notify wraps a notification handler
func notify[P any](
	s types.ServerContext,
	methodName string,
	handler func(types.ServerContext, *glsp.Context, P) error,
) func(*glsp.Context, P) error {
	return func(ctx *glsp.Context, params P) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(ctx, methodName, r)
			}
		}()

		log.Debug("%s started", methodName)
		if err = handler(s, ctx, params); err != nil {
			return failed(ctx, methodName, err)
		}
		return nil
	}
}

// noParam wraps a handler without params, like shutdown
func noParam(
	s types.ServerContext,
	methodName string,
	handler func(types.ServerContext, *glsp.Context) error,
) func(*glsp.Context) error {
	return func(ctx *glsp.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(ctx, methodName, r)
			}
		}()

		log.Debug("%s started", methodName)
		if err = handler(s, ctx); err != nil {
			return failed(ctx, methodName, err)
		}
		return nil
	}
}
