package main

import (
	gwmiddleware "github.com/vyrodovalexey/avapigw/internal/gateway/server/http/middleware"

	"github.com/vyrodovalexey/avapigw/internal/config"
	"github.com/vyrodovalexey/avapigw/internal/observability"
	"github.com/vyrodovalexey/avapigw/internal/observability/logging"
	"github.com/vyrodovalexey/avapigw/internal/observability/tracing"
)

// wireCORS registers the gateway-wide CORS policy on the server's gin
// engine ahead of the catch-all route handler, if the spec configures one.
func wireCORS(app *application) {
	cors := app.config.Spec.CORS
	if cors == nil {
		return
	}

	app.server.Use(gwmiddleware.CORSWithConfig(gwmiddleware.CORSConfig{
		AllowOrigins:     cors.AllowOrigins,
		AllowMethods:     cors.AllowMethods,
		AllowHeaders:     cors.AllowHeaders,
		ExposeHeaders:    cors.ExposeHeaders,
		AllowCredentials: cors.AllowCredentials,
		MaxAge:           cors.MaxAge,
	}))
}

// buildObservabilityConfig translates the gateway's observability
// policy into the Config consumed by observability.New, falling back
// to its defaults for anything left unset.
func buildObservabilityConfig(cfg *config.GatewayConfig, logLevel, logFormat string) *observability.Config {
	oc := observability.DefaultConfig()
	oc.ServiceName = cfg.Metadata.Name
	if oc.ServiceName == "" {
		oc.ServiceName = "avapigw"
	}
	oc.ServiceVersion = version
	oc.LogLevel = logging.Level(logLevel)
	oc.LogFormat = logging.Format(logFormat)

	obsCfg := cfg.Spec.Observability
	if obsCfg == nil {
		return oc
	}

	if obsCfg.Logging != nil {
		if obsCfg.Logging.Level != "" {
			oc.LogLevel = logging.Level(obsCfg.Logging.Level)
		}
		if obsCfg.Logging.Format != "" {
			oc.LogFormat = logging.Format(obsCfg.Logging.Format)
		}
		if obsCfg.Logging.Output != "" {
			oc.LogOutput = obsCfg.Logging.Output
		}
	}

	if obsCfg.Tracing != nil {
		oc.TracingEnabled = obsCfg.Tracing.Enabled
		oc.TracingExporter = tracing.ExporterOTLPGRPC
		if obsCfg.Tracing.OTLPEndpoint != "" {
			oc.OTLPEndpoint = obsCfg.Tracing.OTLPEndpoint
		}
		if obsCfg.Tracing.SamplingRate > 0 {
			oc.TracingSampleRate = obsCfg.Tracing.SamplingRate
		}
	}

	if obsCfg.Metrics != nil {
		oc.MetricsEnabled = obsCfg.Metrics.Enabled
		if obsCfg.Metrics.Port != 0 {
			oc.MetricsPort = obsCfg.Metrics.Port
		}
		if obsCfg.Metrics.Path != "" {
			oc.MetricsPath = obsCfg.Metrics.Path
		}
	}

	return oc
}
