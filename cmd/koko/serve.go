package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"kokorod/internal/bootstrap"
	"kokorod/internal/domain/voice"
	platformconfig "kokorod/internal/platform/config"
	"kokorod/internal/transport/ws"
)

// cmdVoices only needs the pack, so it skips model loading entirely.
func cmdVoices(args []string) error {
	fs := flag.NewFlagSet("voices", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml")
	lang := fs.String("lang", "", "filter by language tag")
	gender := fs.String("gender", "", "filter by gender (female/male)")
	fs.Parse(args)

	loader := platformconfig.NewLoader()
	if *configPath != "" {
		loader = loader.WithPath(*configPath)
	}
	result, err := loader.Load()
	if err != nil {
		return err
	}

	pack, err := voice.LoadPack(result.Config.Voices.Pack)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLANGUAGE\tGENDER")
	matched := 0
	for _, id := range pack.List() {
		v, err := pack.Get(id)
		if err != nil {
			continue
		}
		if *lang != "" && v.Language != *lang {
			continue
		}
		if *gender != "" && v.Gender != *gender {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Language, v.Gender)
		matched++
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d voice(s)\n", matched)
	return nil
}

// cmdOpenAI serves the full HTTP surface, same as the daemon.
func cmdOpenAI(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("openai", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml")
	fs.Parse(args)

	app, err := bootstrap.Load(ctx, *configPath)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Serve(ctx)
}

// cmdWebsocket serves only the websocket protocol on its own listener.
func cmdWebsocket(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("websocket", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml")
	fs.Parse(args)

	app, err := bootstrap.Load(ctx, *configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	logger := app.Logging.Component("ws")
	hub := ws.NewHub(logger)
	router := ws.NewRouter(hub, logger, ws.RouterOptions{})
	router.SetHandlerBuilder(ws.NewHandlerBuilder(app.Engine, app.Streams, ws.Options{
		DefaultVoice: app.Config.Voices.DefaultVoice,
		DefaultSpeed: app.Config.Engine.DefaultSpeed,
	}, logger))

	addr := fmt.Sprintf("%s:%d", app.Config.Server.IP, app.Config.Server.Port)
	srv := ws.NewServer(ws.ServerConfig{Addr: addr}, router, hub, logger)
	return srv.Start(ctx)
}
