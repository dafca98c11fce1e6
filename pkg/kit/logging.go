package kit

import "go.uber.org/zap"

func NewLogger(service, version string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"service": service, "version": version}
	l, _ := cfg.Build()
	return l
}
