// Command ytweb-fetch downloads a single URL into the configured download
// directory and prints the path of the produced file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ytget/yt-webfront/internal/app"
	"github.com/ytget/yt-webfront/internal/config"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before exit
func run() int {
	var (
		flagConfig  string
		flagDir     string
		flagFetcher string
		flagFormat  string
		flagQuality string
		flagRate    string
		flagInfo    bool
	)

	flag.StringVar(&flagConfig, "config", "", "Path to a config file (default: ytweb.yaml in . or /etc/ytweb)")
	flag.StringVar(&flagDir, "dir", "", "Download directory override")
	flag.StringVar(&flagFetcher, "fetcher", "", "Fetcher backend: auto, library or cli")
	flag.StringVar(&flagFormat, "format", "", "Default format selector (e.g., 'best', 'itag=22')")
	flag.StringVar(&flagQuality, "quality", "", "Quality for this download: 1080p, 720p, 480p, audio or a format selector")
	flag.StringVar(&flagRate, "rate-limit", "", "Download rate limit (e.g., 2MiB/s, 500KiB/s)")
	flag.BoolVar(&flagInfo, "info", false, "Print media metadata as JSON instead of downloading")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <url>\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return 2
	}
	input := strings.TrimSpace(args[0])

	var (
		settings *config.Settings
		err      error
	)
	if flagConfig != "" {
		settings, err = config.LoadFile(flagConfig)
	} else {
		settings, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	if flagDir != "" {
		settings.Set(config.KeyDownloadDir, flagDir)
	}
	if flagFetcher != "" {
		settings.Set(config.KeyFetcher, flagFetcher)
	}
	if flagFormat != "" {
		settings.Set(config.KeyFormat, flagFormat)
	}
	if flagRate != "" {
		settings.Set(config.KeyRateLimit, flagRate)
	}

	components, err := app.Build(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer components.LogCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagInfo {
		if components.Inspector == nil {
			fmt.Fprintf(os.Stderr, "Error: fetcher %q cannot inspect media\n", settings.GetFetcher())
			return 1
		}
		info, err := components.Inspector.Inspect(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "%s (%s, %s)\n", info.DisplayTitle(), info.Platform, info.Duration)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	job, err := components.Downloads.Download(ctx, input, flagQuality)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(job.OutputPath)
	return 0
}
