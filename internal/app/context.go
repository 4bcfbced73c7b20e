package app

import "context"

type contextKey struct{}

var appContextKey = contextKey{}

// GetAppFromContext retrieves the App from context
func GetAppFromContext(ctx context.Context) *App {
	app, ok := ctx.Value(appContextKey).(*App)
	if !ok {
		return nil
	}
	return app
}

// SetAppInContext stores the App in context
func SetAppInContext(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appContextKey, app)
}

// FromContext is GetAppFromContext returning ErrNotInitialized for a missing App
func FromContext(ctx context.Context) (*App, error) {
	if a := GetAppFromContext(ctx); a != nil {
		return a, nil
	}
	return nil, ErrNotInitialized
}
