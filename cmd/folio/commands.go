package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/services"
	"github.com/Kush-Singh-26/folio/internal/admin"
	"github.com/Kush-Singh-26/folio/internal/new"
	"github.com/Kush-Singh-26/folio/internal/server"
)

func loadConfig(fs *flag.FlagSet, args []string) (*config.Config, error) {
	cfg, err := config.LoadFlags(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
	}
	return cfg, err
}

func runServe(args []string) error {
	cfg, err := loadConfig(newFlagSet("serve"), args)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hub *server.Hub
	if cfg.Watch {
		hub = server.NewHub(a.logger)
		w, err := server.NewWatcher(cfg.ContentDir, cfg.Tune.DebounceDuration, hub.Broadcast, a.logger)
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.ContentDir, err)
		}
		go w.Run(ctx)
	}

	srv, err := server.New(cfg, a.feed, hub, a.logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func runFeed(args []string) error {
	fs := newFlagSet("feed")
	bucketFlag := fs.String("bucket", "", "Only posts in this bucket")
	limit := fs.Int("limit", 0, "Print at most n posts (0 prints all)")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var result *services.FeedResult
	bucketSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "bucket" {
			bucketSet = true
		}
	})
	if bucketSet {
		bucket, err := server.ParseBucket(*bucketFlag, cfg.Buckets)
		if err != nil {
			return err
		}
		result, err = a.feed.FeedByBucket(ctx, bucket)
		if err != nil {
			return err
		}
	} else {
		result, err = a.feed.Feed(ctx)
		if err != nil {
			return err
		}
	}

	posts := result.Posts
	if *limit > 0 && len(posts) > *limit {
		posts = posts[:*limit]
	}
	views := make([]server.PostView, len(posts))
	for i, p := range posts {
		views[i] = server.PostView{Post: p, Permalink: p.Permalink()}
	}
	if err := printJSON(os.Stdout, views); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, result.Report.String())
	return nil
}

func runGet(args []string) error {
	fs := newFlagSet("get")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: folio get <postId>")
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	postID := fs.Arg(0)
	post, err := a.feed.Resolve(context.Background(), postID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fmt.Errorf("no post matches %s", postID)
		}
		return err
	}
	return printJSON(os.Stdout, server.PostView{Post: *post, Permalink: post.Permalink()})
}

func runNew(args []string) error {
	fs := newFlagSet("new")
	category := fs.String("category", "home", "all, home or a configured bucket")
	devtoID := fs.String("devto", "", "dev.to article id this post mirrors")
	author := fs.String("author", "", "Post author")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return errors.New(`usage: folio new [flags] "My New Post Title"`)
	}

	path, err := new.Create(afero.NewOsFs(), cfg.ContentDir, cfg.Buckets, new.Options{
		Title:    title,
		Category: *category,
		DevtoID:  *devtoID,
		Author:   *author,
		Date:     time.Now(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("✅ Created: %s\n", path)
	return nil
}

func runAdmin(args []string) error {
	fs := newFlagSet("admin")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: folio admin <put <file.json|->|rm <id>|ls>")
	}
	if cfg.AdminDB == "" {
		return errors.New("no admin database configured (set -admin-db or FOLIO_ADMIN_DB)")
	}
	m, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	sub, rest := fs.Arg(0), fs.Args()[1:]
	switch sub {
	case "put":
		if len(rest) != 1 {
			return errors.New("usage: folio admin put <file.json|->")
		}
		var r io.Reader = os.Stdin
		if rest[0] != "-" {
			f, err := os.Open(rest[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		post, err := admin.Put(m, r, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("✅ Stored admin post %s (%s)\n", post.ID, post.Title)
	case "rm":
		if len(rest) != 1 {
			return errors.New("usage: folio admin rm <id>")
		}
		if err := admin.Remove(m, rest[0]); err != nil {
			return err
		}
		fmt.Printf("🗑️  Removed admin post %s\n", rest[0])
	case "ls":
		return admin.List(m, os.Stdout)
	default:
		return fmt.Errorf("unknown admin subcommand: %s", sub)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
