package cmd

import (
	"net"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/isometry/gh-webhook-gateway/internal/config"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		PreRunE: func(_ *cobra.Command, _ []string) error {
			logger = logger.With("mode", "service")
			logger.Info("spawning...")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newGatewayRuntime(cmd)
			if err != nil {
				return err
			}

			logger.Debug("creating HTTP server...")
			h := http.NewServeMux()
			h.HandleFunc(config.Service.Path, rt.ServeHTTP)

			s := &http.Server{
				Handler:      h,
				Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
				WriteTimeout: config.Service.Timeout,
				ReadTimeout:  config.Service.Timeout,
				IdleTimeout:  config.Service.Timeout,
			}

			logger.Info("serving...", "address", s.Addr, "path", config.Service.Path, "timeout", config.Service.Timeout.String())
			return s.ListenAndServe()
		},
	}

	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)

	return cmd
}
