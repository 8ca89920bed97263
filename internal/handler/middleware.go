package handler

// Middleware wraps an interaction callback (guild checks, logging, ...).
type Middleware func(InteractionFunc) InteractionFunc

// Apply applies middlewares in order; the first in the list is the innermost.
func Apply(fn InteractionFunc, mws ...Middleware) InteractionFunc {
	for _, mw := range mws {
		fn = mw(fn)
	}
	return fn
}

// GuildOnly silently ignores interactions that arrive outside a guild.
func GuildOnly() Middleware {
	return func(next InteractionFunc) InteractionFunc {
		return func(ctx *InteractionContext) error {
			if ctx.Event.GuildID == "" {
				return nil
			}
			return next(ctx)
		}
	}
}
