package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/revtui/revtui/internal/app"
	"github.com/revtui/revtui/internal/comments"
	"github.com/revtui/revtui/internal/config"
	"github.com/revtui/revtui/internal/vcs"
)

func main() {
	logFile, err := os.Create("revtui.log")
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	debug := flag.Bool("debug", false, "Enable debug mode (shows key events in status)")
	repo := flag.String("repo", ".", "Repository directory")
	backendFlag := flag.String("backend", "", "Version control tool: jj or git (default autodetect)")
	store := flag.String("comments", "", "Comment store path (default per-repo under ~/.local/share/revtui)")
	initConfig := flag.Bool("init-config", false, "Write a default config file and exit")
	flag.Parse()

	if *initConfig {
		path, err := config.InitDefault()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	// The revision defaults to the working copy change.
	rev := "@"
	if args := flag.Args(); len(args) > 0 {
		rev = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *backendFlag != "" {
		cfg.Backend = *backendFlag
	}

	backend := vcs.New(cfg.Backend, *repo)
	if backend.Tool() == "git" && rev == "@" {
		rev = "HEAD"
	}

	storePath := *store
	if storePath == "" {
		storePath = comments.DefaultPath(*repo)
	}

	application, err := app.NewApp(cfg, backend, comments.NewStore(storePath), rev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		application.SetDebug(true)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
}
