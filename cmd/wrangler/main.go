package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"embedding-wrangler/internal/app"
	"embedding-wrangler/internal/config"
	"embedding-wrangler/internal/embeddings"
	"embedding-wrangler/internal/httputil"
	"embedding-wrangler/internal/logger"
	"embedding-wrangler/internal/web"
	"embedding-wrangler/internal/wrangler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the resolved configuration between the root and its subcommands.
type cli struct {
	cfg      config.Config
	apiURL   string
	logLevel string
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "wrangler",
		Short:         "Explore word embeddings through an embedding service",
		Long:          "Compare words, list nearest neighbors, solve word arithmetic and plot 2-D projections using a remote word-embedding service.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if c.apiURL != "" {
				cfg.APIURL = c.apiURL
			}
			if c.logLevel != "" {
				cfg.LogLevel = c.logLevel
			}
			c.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.apiURL, "api-url", "", "Embedding service base URL (overrides API_URL)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(c.createServeCommand())
	rootCmd.AddCommand(c.createCompareCommand())
	rootCmd.AddCommand(c.createNeighborsCommand())
	rootCmd.AddCommand(c.createArithmeticCommand())
	rootCmd.AddCommand(c.createVisualizeCommand())

	return rootCmd
}

// flows builds the client-side dependencies for one command. Logs go to
// stderr so stdout stays clean for results.
func (c *cli) flows(cmd *cobra.Command) app.Deps {
	return app.BuildFlows(c.cfg, logger.NewWithWriter(cmd.ErrOrStderr(), c.cfg.LogLevel))
}

func (c *cli) createServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Embedding Wrangler web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.Port = port
			}
			deps, err := app.Build(c.cfg)
			if err != nil {
				return err
			}
			defer deps.Sessions.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, deps)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Server port (overrides PORT)")

	return cmd
}

// serve runs the UI until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, deps app.Deps) error {
	r := httputil.NewRouter(deps.Log)
	h, err := web.NewHandler(deps.Wrangler, deps.Sessions, deps.Log, deps.Config.SessionTTLDuration())
	if err != nil {
		return err
	}
	h.Routes(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("wrangler listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		deps.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
		return err
	}
	return nil
}

func (c *cli) createCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <word1> <word2>",
		Short: "Show cosine similarity and euclidean distance of two words",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := run(c.flows(cmd).Wrangler.Compare(cmd.Context(), args[0], args[1]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cosine Similarity: %.4f\n", st.Comparison.CosineSimilarity)
			fmt.Fprintf(out, "Euclidean Distance: %.4f\n", st.Comparison.EuclideanDistance)
			return nil
		},
	}
}

func (c *cli) createNeighborsCommand() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "neighbors <word>",
		Short: "List the nearest neighbors of a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := run(c.flows(cmd).Wrangler.FindNeighbors(cmd.Context(), args[0], n))
			if err != nil {
				return err
			}
			printScores(cmd.OutOrStdout(), st.Neighbors)
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "n", "n", 0, "Number of neighbors (0 = service default)")

	return cmd
}

func (c *cli) createArithmeticCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "arithmetic <positive> <negative>",
		Short: "Find words closest to positive - negative",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := run(c.flows(cmd).Wrangler.Arithmetic(cmd.Context(), args[0], args[1]))
			if err != nil {
				return err
			}
			printScores(cmd.OutOrStdout(), st.Arithmetic)
			return nil
		},
	}
}

func (c *cli) createVisualizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "visualize <word>...",
		Short: "Project words to 2-D and print their coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := c.flows(cmd)
			words := make([]string, 0, len(args))
			for _, a := range args {
				if w := strings.TrimSpace(a); w != "" {
					words = append(words, w)
				}
			}
			if len(words) == 0 {
				return errors.New(wrangler.MsgNeedWord)
			}

			vis, err := deps.Embeddings.Visualize(cmd.Context(), words)
			if err != nil {
				deps.Log.Warn("visualize request failed", "words", words, "err", err)
				return errors.New(wrangler.MsgVisualizeFailed)
			}
			points, err := vis.Points()
			if err != nil {
				deps.Log.Warn("visualize response unusable", "words", words, "err", err)
				return errors.New(wrangler.MsgVisualizeFailed)
			}
			return printPoints(cmd.OutOrStdout(), points)
		},
	}
}

// run applies a flow's outcome to an empty state and turns the banner into an error.
func run(update wrangler.Update) (wrangler.State, error) {
	var st wrangler.State
	update(&st)
	if st.Error != "" {
		return st, errors.New(st.Error)
	}
	return st, nil
}

func printScores(w io.Writer, scores []embeddings.WordScore) {
	for _, s := range scores {
		fmt.Fprintf(w, "%s: %.4f\n", s.Word, s.Similarity)
	}
}

func printPoints(w io.Writer, points []embeddings.Point) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORD\tX\tY")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", p.Word, p.X, p.Y)
	}
	return tw.Flush()
}
