package logging

import "go.uber.org/zap"

// New creates the zap logger for an environment: production and development
// use the matching zap presets, anything else gets the example logger with
// debug enabled.
func New(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	case "local", "":
		return zap.NewExample(), nil
	default:
		l := zap.NewExample()
		l.Sugar().Warnf("unknown environment %q, using local logger", env)
		return l, nil
	}
}
