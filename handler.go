package ngebut

// Handler is a function that handles an HTTP request with a Ctx.
// This is the same signature as middleware functions, making them interchangeable.
type Handler func(c *Ctx)

// Middleware is a function that can be used as middleware.
// It has the same signature as Handler, making them interchangeable.
// The function should call c.Next() to continue to the next middleware or handler.
type Middleware func(c *Ctx)

// MiddlewareFunc is an alias for Middleware for backward compatibility.
// It's similar to the middleware pattern used in gofiber.
type MiddlewareFunc = Middleware

// CompileMiddleware composes handler with middlewares into a single Handler
// that runs each middleware in order followed by handler, with no c.Next()
// indirection. Unlike the dynamic middlewareStack/Next() dispatch used by
// Router, the chain here is fixed at compile time, so routes that never
// change their middleware set can skip the per-request stack bookkeeping.
// Middleware compiled this way must not call c.Next(); it is ignored.
func CompileMiddleware(handler Handler, middlewares ...Middleware) Handler {
	if len(middlewares) == 0 {
		return handler
	}

	return func(c *Ctx) {
		for _, mw := range middlewares {
			mw(c)
		}
		handler(c)
	}
}
