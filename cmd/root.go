package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/garrettladley/sha1dir/internal/config"
	"github.com/garrettladley/sha1dir/internal/walker"
	"github.com/garrettladley/sha1dir/internal/xerrors"
	"github.com/spf13/cobra"
)

var (
	jobs                   int
	ignoreUnknownFileTypes bool
	configFile             string
)

// exit terminates the process after the first fatal diagnostic.
var exit = os.Exit

var errJobs = errors.New("jobs must be a positive integer")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sha1dir [DIR...]",
		Short: "Compute checksum of directory",
		Long: `sha1dir computes a single SHA-1 based checksum over the names, modes,
file contents and symlink targets of every entry in a directory tree.

With no DIR the current directory is hashed and only the checksum is printed.
Otherwise one "<checksum>  <DIR>" line is printed per directory.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of hashes to compute in parallel (default min(NumCPU, 8))")
	cmd.Flags().BoolVar(&ignoreUnknownFileTypes, "ignore-unknown-filetypes", false, "skip devices, FIFOs and other unknown file types instead of failing")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "INI config file (default $"+config.EnvConfig+")")

	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	latch := xerrors.NewLatch(cmd.Root().Name(), cmd.ErrOrStderr(), exit)
	opts := []walker.Option{
		walker.WithConcurrency(cfg.Jobs),
		walker.WithSkipUnsupported(cfg.IgnoreUnknownFileTypes),
		walker.WithLatch(latch),
	}

	if len(args) == 0 {
		r, err := walker.Walk(cmd.Context(), ".", opts...)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), r.Hash.String())
		return nil
	}

	// every root must resolve before any checksum is printed
	roots := make([]string, len(args))
	for i, dir := range args {
		root, err := walker.Resolve(dir)
		if err != nil {
			latch.Report(dir, err)
			return latch.Err()
		}
		roots[i] = root
	}

	for i, dir := range args {
		r, err := walker.Walk(cmd.Context(), roots[i], append(opts, walker.WithLabel(dir))...)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), r.Line())
	}

	return nil
}

// loadConfig layers explicitly set flags over the config file and defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.Path(configFile))
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("jobs") {
		if jobs <= 0 {
			return nil, fmt.Errorf("%w, got %d", errJobs, jobs)
		}
		cfg.Jobs = jobs
	}
	if cmd.Flags().Changed("ignore-unknown-filetypes") {
		cfg.IgnoreUnknownFileTypes = ignoreUnknownFileTypes
	}

	return cfg, nil
}
