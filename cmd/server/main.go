package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/Luismorlan/contentmux/app_setting"
	"github.com/Luismorlan/contentmux/bootstrap"
	"github.com/Luismorlan/contentmux/engine"
	"github.com/Luismorlan/contentmux/utils"
	"github.com/Luismorlan/contentmux/utils/dotenv"
	. "github.com/Luismorlan/contentmux/utils/flag"
	. "github.com/Luismorlan/contentmux/utils/log"
	"github.com/gin-gonic/gin"
)

func cleanup() {
	utils.CloseProfiler()
	utils.CloseTracer()
	Log.Info("contentmux shutdown")
}

func main() {
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	// Pick up service name and env now that both are known.
	InitLogger()

	setting, err := app_setting.ParseAppSetting()
	if err != nil {
		Log.WithError(err).Fatal("fail to parse app setting")
	}

	if dotenv.IsProdEnv() {
		gin.SetMode(gin.ReleaseMode)
		utils.InitProfiler()
	}
	utils.InitTracer()
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, setting, nil)
	if err != nil {
		Log.WithError(err).Fatal("fail to initialize contentmux")
	}
	defer app.Shutdown()

	modules := app.Modules(*ServiceName, *ServiceName != ContentPuller, !*DisablePuller)
	e := engine.NewEngine(modules, ctx, stop)
	Log.Infof("%s starts up", *ServiceName)
	e.Run()
}
