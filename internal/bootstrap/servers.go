package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	httptransport "kokorod/internal/transport/http"
	"kokorod/internal/transport/ws"
)

const shutdownTimeout = 15 * time.Second

// Run loads the application and serves HTTP and websocket traffic on
// one listener until SIGINT or SIGTERM.
func Run(ctx context.Context, configPath string) error {
	app, err := Load(ctx, configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Serve(signalCtx)
}

// Serve starts the combined HTTP/websocket listener and blocks until
// ctx is cancelled or the listener fails.
func (a *App) Serve(ctx context.Context) error {
	router, service, hub, err := a.buildRouter()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", a.Config.Server.IP, a.Config.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		a.Logger.Info("server listening", "addr", addr)
		service.SetReady(true)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		a.Logger.Info("shutting down", "sessions", hub.Count())
		service.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		hub.CloseAll(ws.ErrSessionShutdown)
		a.Streams.Shutdown()
		return err
	})

	err = group.Wait()
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// buildRouter assembles the gin engine with the REST surface and the
// websocket endpoint mounted at /ws.
func (a *App) buildRouter() (*gin.Engine, *httptransport.Service, *ws.Hub, error) {
	router, err := httptransport.BuildRouter(httptransport.RouterOptions{
		Config:     a.Config,
		Logger:     a.Logging.Component("http"),
		StaticRoot: a.Config.Web.StaticDir,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	service, err := httptransport.NewService(a.Config, a.Engine, a.Registry, a.Streams, a.Usage, a.Logging.Component("http"))
	if err != nil {
		return nil, nil, nil, err
	}
	service.Register(router)

	wsLogger := a.Logging.Component("ws")
	hub := ws.NewHub(wsLogger)
	wsRouter := ws.NewRouter(hub, wsLogger, ws.RouterOptions{})
	wsRouter.SetHandlerBuilder(ws.NewHandlerBuilder(a.Engine, a.Streams, ws.Options{
		DefaultVoice: a.Config.Voices.DefaultVoice,
		DefaultSpeed: a.Config.Engine.DefaultSpeed,
	}, wsLogger))
	router.GET("/ws", gin.WrapF(wsRouter.Handle))

	return router, service, hub, nil
}
