package utils

import (
	"github.com/Luismorlan/contentmux/utils/dotenv"
	"github.com/Luismorlan/contentmux/utils/flag"
	Logger "github.com/Luismorlan/contentmux/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

func ddEnv() string {
	if dotenv.IsProdEnv() {
		return "production"
	}
	return "development"
}

// InitTracer starts the Datadog tracer for the running service.
func InitTracer() {
	tracer.Start(
		tracer.WithService(*flag.ServiceName),
		tracer.WithEnv(ddEnv()),
		tracer.WithLogStartup(false),
	)
	Logger.Log.Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
