package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/juruen/slideview/api"
	"github.com/juruen/slideview/config"
	"github.com/juruen/slideview/log"
	"github.com/juruen/slideview/shell"
	"github.com/juruen/slideview/version"
)

func newClient(cfg config.Config) *api.Client {
	var opts []api.Option
	if cfg.Cache {
		cachePath, err := api.DefaultCachePath()
		if err == nil {
			var cache *api.RecordCache
			cache, err = api.LoadCache(cachePath)
			if err == nil {
				opts = append(opts, api.WithCache(cache))
			}
		}
		if err != nil {
			log.Warning.Println("metadata cache disabled:", err)
		}
	}
	return api.NewClient(cfg.Host, cfg.Timeout, opts...)
}

func main() {
	serverMode := flag.Bool("server", false, "run as HTTP API server")
	port := flag.String("port", "", "port for HTTP server mode (default from config)")
	configFile := flag.String("config", "", "config file (default $SLIDEVIEW_CONFIG or ~/.slideview.yaml)")
	host := flag.String("host", "", "slide server base URL")
	slide := flag.String("slide", "", "slide to open at startup")
	annotationsFile := flag.String("annotations", "", "annotation file for the startup slide")
	jsonOutput := flag.Bool("json", false, "JSON output for listing commands")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [command [args]]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println("slideview:", version.Version)
		return
	}

	path := *configFile
	if path == "" {
		var err error
		path, err = config.ConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	log.InitFile(cfg.LogFile)
	defer log.Close()
	log.Trace.Printf("config %s, host %s", path, cfg.Host)

	shellCtx := shell.NewShellCtxt(newClient(cfg), cfg)
	shellCtx.JSONOutput = *jsonOutput

	if *slide != "" {
		if err := shellCtx.Open(context.Background(), *slide, *annotationsFile); err != nil {
			log.Error.Println("failed to open", *slide, err)
		}
	}

	if *serverMode {
		runServerMode(shellCtx, cfg.Server.Port, cfg.Timeout)
		return
	}

	if err := shell.RunShell(shellCtx, flag.Args()); err != nil {
		log.Error.Println("Error: ", err)
		os.Exit(1)
	}
}
