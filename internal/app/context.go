package app

import "context"

type contextKey struct{}

var appContextKey = contextKey{}

// GetAppFromContext returns the App attached by the root command's pre-run,
// or nil when the command ran without one.
func GetAppFromContext(ctx context.Context) *App {
	a, ok := ctx.Value(appContextKey).(*App)
	if !ok {
		return nil
	}
	return a
}

// SetAppInContext attaches a so subcommands can reach the journal, the Notion
// client and the letter builder.
func SetAppInContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, appContextKey, a)
}
