package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	overpass "github.com/app-sre/overpass/pkg"
	"github.com/app-sre/overpass/pkg/client"
	"github.com/app-sre/overpass/pkg/env/server"
	"github.com/app-sre/overpass/pkg/output"
	"github.com/app-sre/overpass/pkg/query"
	"github.com/app-sre/overpass/pkg/version"
)

var (
	_ pflag.Value = (*query.Format)(nil)
	_ pflag.Value = (*query.Output)(nil)
)

type options struct {
	format  query.Format
	out     query.Output
	bbox    []float64
	date    string
	diff    []string
	adiff   []string
	server  string
	timeout time.Duration
	envFile string
	dryRun  bool
	verbose bool
}

func Run(cfg *overpass.Config, args []string) error {
	args, err := normalizeArgs(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := NewCommand(cfg)
	command.SetArgs(args)

	return command.ExecuteContext(ctx)
}

func NewCommand(cfg *overpass.Config) *cobra.Command {
	opts := &options{out: query.OutputBody}

	command := &cobra.Command{
		Use:   "overpass [flags] [QUERY]",
		Short: "Send OverpassQL queries to an Overpass API server",
		Long: "Builds an OverpassQL query from the QUERY argument (or standard input) and the given\n" +
			"settings, sends it to an Overpass API server and prints the response.",
		Example: `  overpass -f json 'node[amenity=cafe]' --bbox 13.37 52.51 13.39 52.53
  echo 'way(1)' | overpass --out geom --dry-run`,
		Version:       version.Version(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg, opts, args)
		},
	}
	command.SetIn(cfg.Stdin)
	command.SetOut(cfg.Stdout)

	flags := command.Flags()
	flags.VarP(&opts.format, "format", "f", "output format (xml, json)")
	flags.VarP(&opts.out, "out", "o", "output type (ids, skel, body, tags, meta, center, geom)")
	flags.Float64SliceVar(&opts.bbox, "bbox", nil, "global bounding box: MIN_LON MIN_LAT MAX_LON MAX_LAT")
	flags.StringVar(&opts.date, "date", "", "return results for a time in the past (ISO 8601)")
	flags.StringSliceVar(&opts.diff, "diff", nil, "compare results at two different times: FROM [TO] (ISO 8601)")
	flags.StringSliceVar(&opts.adiff, "adiff", nil, "like --diff, but returns an augmented diff: FROM [TO] (ISO 8601)")
	flags.StringVar(&opts.server, "server", server.DefaultEndpoint, "server URL (env OVERPASS_SERVER)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "request timeout, 0 disables it (env OVERPASS_TIMEOUT)")
	flags.StringVar(&opts.envFile, "env-file", "", "load environment variables from a file")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "construct and print the query but do not send it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	command.MarkFlagsMutuallyExclusive("date", "diff", "adiff")

	return command
}

func run(cmd *cobra.Command, cfg *overpass.Config, opts *options, args []string) error {
	if opts.verbose {
		cfg.Verbose()
	}
	logger := cfg.Logger

	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return fmt.Errorf("unable to load environment file: %w", err)
		}
		logger.Debugf("Loaded environment file: %s", opts.envFile)
	}

	se := server.NewServerEnv()
	if err := se.Populate(); err != nil {
		return fmt.Errorf("unable to configure server: %w", err)
	}
	if cmd.Flags().Changed("server") {
		se.Endpoint = opts.server
	}
	if cmd.Flags().Changed("timeout") {
		if opts.timeout < 0 {
			return fmt.Errorf("flag --timeout must not be negative, got %s", opts.timeout)
		}
		se.Timeout = opts.timeout
	}

	settings, err := newSettings(opts)
	if err != nil {
		return err
	}

	raw, err := readQuery(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	q := query.Build(raw, settings, opts.out)
	logger.Debugf("Built query: %q", q)

	if opts.dryRun {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), q)
		return err
	}

	c := client.New(se.Endpoint, client.WithLogger(logger), client.WithTimeout(se.Timeout))

	resp, err := c.Interpret(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("unable to query Overpass API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return output.Write(cmd.OutOrStdout(), resp.ContentType, resp.Body)
}

func newSettings(opts *options) (query.Settings, error) {
	settings := query.Settings{
		Format: opts.format,
		Date:   opts.date,
		Diff:   opts.diff,
		Adiff:  opts.adiff,
	}

	if opts.bbox != nil {
		bbox, err := query.NewBBox(opts.bbox)
		if err != nil {
			return query.Settings{}, err
		}
		settings.BBox = bbox
	}

	if len(opts.diff) > 2 {
		return query.Settings{}, fmt.Errorf("flag --diff takes at most 2 values, got %d", len(opts.diff))
	}
	if len(opts.adiff) > 2 {
		return query.Settings{}, fmt.Errorf("flag --adiff takes at most 2 values, got %d", len(opts.adiff))
	}

	return settings, nil
}

// readQuery prefers the positional argument and falls back to stdin.
func readQuery(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("unable to read query from stdin: %w", err)
	}

	return string(content), nil
}
