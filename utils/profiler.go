package utils

import (
	"github.com/Luismorlan/contentmux/utils/flag"
	Logger "github.com/Luismorlan/contentmux/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

// InitProfiler starts the Datadog profiler. Only production turns it on.
func InitProfiler() {
	if err := profiler.Start(
		profiler.WithService(*flag.ServiceName),
		profiler.WithEnv(ddEnv()),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
		),
	); err != nil {
		Logger.Log.WithError(err).Error("fail to start profiler")
	}
}

// Stop profiler, OK to be closed multiple times
func CloseProfiler() {
	profiler.Stop()
}
