package config

import "go.uber.org/fx"

// Module отдаёт уже загруженный конфиг (его читает CLI до старта fx).
func Module(cfg *Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
	)
}
