package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/scc/internal/cache"
	"git.home.luguber.info/inful/scc/internal/foundation/errors"
)

// CacheCmd groups the render cache commands.
type CacheCmd struct {
	Stats CacheStatsCmd `cmd:"" help:"Show the number and size of cached renders"`
	Prune CachePruneCmd `cmd:"" help:"Delete cached renders older than a duration"`
}

// CacheStatsCmd implements 'cache stats'.
type CacheStatsCmd struct{}

func (c *CacheStatsCmd) Run(g *Global, root *CLI) error {
	store, err := openCache(g, root)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	st, err := store.Stats(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Stdout, "%s entries, %s\n", humanize.Comma(int64(st.Entries)), humanize.Bytes(uint64(st.Bytes)))
	return nil
}

// CachePruneCmd implements 'cache prune'.
type CachePruneCmd struct {
	OlderThan time.Duration `default:"168h" help:"Minimum age of entries to delete"`
}

func (c *CachePruneCmd) Run(g *Global, root *CLI) error {
	store, err := openCache(g, root)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, err := store.Prune(context.Background(), time.Now().Add(-c.OlderThan))
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Stdout, "pruned %s entries\n", humanize.Comma(n))
	return nil
}

func openCache(g *Global, root *CLI) (*cache.SQLiteStore, error) {
	cfg, err := root.load(g)
	if err != nil {
		return nil, err
	}
	if cfg.Cache.Path == "" {
		return nil, errors.ConfigError("render cache is disabled (set cache.path)").Build()
	}
	return cache.NewSQLiteStore(cfg.Cache.Path)
}
