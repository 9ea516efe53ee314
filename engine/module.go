package engine

import (
	"context"
	"time"

	Logger "github.com/Luismorlan/contentmux/utils/log"
)

const (
	GracefulRetryDelay = 3 * time.Second
)

type Module interface {
	// RunModule contains the customized logic of the module. It takes in a
	// context object by which its lifecycle is managed. Return nil once ctx
	// is done, return error if the module should be restarted.
	RunModule(ctx context.Context) error

	// Return name of the Module. Uniquely identifies the module instance.
	Name() string
}

// RunModuleWithGracefulRestart runs module until it returns without error or
// ctx is done, restarting it after delay on every failure.
func RunModuleWithGracefulRestart(ctx context.Context, module Module, delay time.Duration) {
	for {
		err := module.RunModule(ctx)
		if err == nil || ctx.Err() != nil {
			break
		}
		Logger.Log.WithError(err).Errorf(
			"Module %s exited with error, retry in %s",
			module.Name(),
			delay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}
