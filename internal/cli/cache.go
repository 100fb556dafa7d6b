package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jitfront/internal/store"
)

// CacheOptions holds flags shared by the cache subcommands.
type CacheOptions struct {
	*RootOptions
	Path string
}

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the translation cache",
		Long: `Inspect or clear the SQLite translation cache written by
"jitfront compile --cache".`,
	}
	cmd.PersistentFlags().StringVar(&opts.Path, "cache", "jitfront.db", "translation cache database path")

	cmd.AddCommand(&cobra.Command{
		Use:           "stats",
		Short:         "Summarize the cache contents",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCache(cmd, opts, cacheStats)
		},
	})

	var filter store.Filter
	listCmd := &cobra.Command{
		Use:           "list",
		Short:         "List cached translations in run order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCache(cmd, opts, func(ctx context.Context, st *store.Store, f *OutputFormatter) error {
				return cacheList(ctx, st, f, filter)
			})
		},
	}
	listCmd.Flags().StringVar(&filter.Unit, "unit", "", "only units matching this glob pattern")
	listCmd.Flags().StringVar(&filter.Kind, "kind", "", "only units of this kind (function|class)")
	listCmd.Flags().StringVar(&filter.RunID, "run", "", "only translations recorded by this run")
	listCmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum number of rows (0 for all)")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:           "clear",
		Short:         "Delete every cached translation",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCache(cmd, opts, cacheClear)
		},
	})

	return cmd
}

type cacheAction func(ctx context.Context, st *store.Store, f *OutputFormatter) error

func runCache(cmd *cobra.Command, opts *CacheOptions, action cacheAction) error {
	if err := requireNotMsgpack(opts.RootOptions, "cache"); err != nil {
		return err
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Path)
	if err != nil {
		return outputCommandError(formatter, ErrCodeCache, fmt.Sprintf("opening cache: %v", err))
	}
	defer st.Close()
	formatter.VerboseLog("Opened cache %s", opts.Path)

	if err := action(ctx, st, formatter); err != nil {
		return outputCommandError(formatter, ErrCodeCache, err.Error())
	}
	return nil
}

func cacheStats(ctx context.Context, st *store.Store, f *OutputFormatter) error {
	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}
	if f.Structured() {
		return f.Success(stats)
	}
	w := f.Writer
	fmt.Fprintf(w, "Runs:         %d (last seq %d)\n", stats.Runs, stats.LastSeq)
	fmt.Fprintf(w, "Translations: %d (%d function(s), %d class(es))\n", stats.Translations, stats.Functions, stats.Classes)
	fmt.Fprintf(w, "Payload:      %d bytes\n", stats.PayloadBytes)
	return nil
}

func cacheList(ctx context.Context, st *store.Store, f *OutputFormatter, filter store.Filter) error {
	listings, err := st.Find(ctx, filter)
	if err != nil {
		return err
	}
	if f.Structured() {
		return f.Success(listings)
	}
	if len(listings) == 0 {
		fmt.Fprintln(f.Writer, "No cached translations.")
		return nil
	}
	for _, l := range listings {
		fmt.Fprintf(f.Writer, "[%d] %s (%s) %s\n", l.Seq, l.Unit, l.Kind, shortHash(l.IRHash))
	}
	return nil
}

func cacheClear(ctx context.Context, st *store.Store, f *OutputFormatter) error {
	n, err := st.Clear(ctx)
	if err != nil {
		return err
	}
	if f.Structured() {
		return f.Success(map[string]int64{"removed": n})
	}
	fmt.Fprintf(f.Writer, "✓ Removed %d cached translation(s)\n", n)
	return nil
}
