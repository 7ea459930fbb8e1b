// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mdhender/buildid"
	"github.com/mdhender/buildid/model"
	store "github.com/mdhender/buildid/stores/sqlite"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				log.Printf("error: %v\n", ee.err)
			}
			os.Exit(ee.code)
		}
		log.Printf("error: %v\n", err)
		os.Exit(buildid.ExitFailure)
	}
}

// exitError carries the process exit code out of a command.
// err may be nil when the command already reported the failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func newRootCmd() *cobra.Command {
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("log-with-default-flags", false, "log with default flags")
		cmd.PersistentFlags().Bool("log-with-shortfile", true, "log with short file name")
		cmd.PersistentFlags().Bool("log-with-timestamp", false, "log with timestamp")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		cmd.PersistentFlags().Bool("verbose", false, "log more information")
		return nil
	}
	var cmdRoot = &cobra.Command{
		Use:           "buildid",
		Short:         "Build identifier check",
		Long:          `Check that the build identifier file carries a version number.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logWithDefaultFlags, _ := cmd.Flags().GetBool("log-with-default-flags")
			logWithShortFileName, _ := cmd.Flags().GetBool("log-with-shortfile")
			logWithTimestamp, _ := cmd.Flags().GetBool("log-with-timestamp")
			logFlags := 0
			if logWithShortFileName {
				logFlags |= log.Lshortfile
			}
			if logWithTimestamp {
				logFlags |= log.Ltime
			}
			if logWithDefaultFlags || logFlags == 0 {
				logFlags = log.LstdFlags
			}
			log.SetFlags(logFlags)

			if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
				log.Printf("buildid: version %q\n", buildid.Version().Core())
			}

			return nil
		},
		// with no command, check ./.build_id
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, checkOptions{path: buildid.DefaultPath})
		},
	}
	cmdRoot.AddCommand(cmdCheck())
	cmdRoot.AddCommand(cmdCompactDB())
	cmdRoot.AddCommand(cmdHistory())
	cmdRoot.AddCommand(cmdInitDB())
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}
	return cmdRoot
}

type checkOptions struct {
	path          string
	informational bool
	historyDB     string
}

func cmdCheck() *cobra.Command {
	opts := checkOptions{path: buildid.DefaultPath}
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVarP(&opts.path, "path", "p", opts.path, "build identifier file to check")
		cmd.Flags().BoolVar(&opts.informational, "informational", opts.informational, "exit 0 when the version pattern is not found")
		cmd.Flags().StringVar(&opts.historyDB, "history-db", opts.historyDB, "record the check in this database")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "check",
		Short: "check the build identifier file for a version number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func runCheck(cmd *cobra.Command, opts checkOptions) error {
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")
	if quiet {
		verbose, debug = false, false
	}

	started := time.Now()
	result, err := buildid.Validate(opts.path)
	if err == nil {
		if debug {
			log.Printf("%s: outcome %s\n", opts.path, result.Outcome)
		}
		if verbose && result.Ok() {
			log.Printf("%s: version %q\n", opts.path, result.Version)
		}
		if perr := buildid.Print(cmd.OutOrStdout(), result); perr != nil {
			return &exitError{code: buildid.ExitFailure, err: perr}
		}
	}

	if opts.historyDB != "" {
		if herr := recordCheck(cmd.Context(), opts.historyDB, model.NewCheck(opts.path, result, err, time.Now())); herr != nil {
			return &exitError{code: buildid.ExitFailure, err: herr}
		}
		if verbose {
			log.Printf("%s: recorded check\n", opts.historyDB)
		}
	}

	if debug {
		log.Printf("%s: checked in %v\n", opts.path, time.Since(started))
	}

	if code := buildid.ExitCode(result, err, opts.informational); code != buildid.ExitOK {
		return &exitError{code: code, err: err}
	}
	return nil
}

func recordCheck(ctx context.Context, path string, c *model.Check) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: path})
	if err != nil {
		return &buildid.ErrDatabase{Op: "open", Err: err}
	}
	defer s.Close()
	if _, err := s.InsertCheck(ctx, c); err != nil {
		return &buildid.ErrDatabase{Op: "insert", Err: err}
	}
	return nil
}

func cmdHistory() *cobra.Command {
	var dbPath string
	limit := 20
	showContent := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the history database")
		cmd.Flags().IntVarP(&limit, "limit", "n", limit, "number of checks to show (0 for all)")
		cmd.Flags().BoolVar(&showContent, "show-content", showContent, "show file content for mismatches")
		return cmd.MarkFlagRequired("db")
	}
	var cmd = &cobra.Command{
		Use:   "history",
		Short: "show recent checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath})
			if err != nil {
				return err
			}
			defer s.Close()

			checks, err := s.RecentChecks(ctx, limit)
			if err != nil {
				return err
			}
			summary, err := s.CheckSummary(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, c := range checks {
				detail := c.Version
				if c.Outcome == model.OutcomeFileAccess {
					detail = c.ErrorCode
				}
				fmt.Fprintf(w, "%6d  %s  %-11s  %-12s  %s\n", c.ID, c.CheckedAt.Format(time.RFC3339), c.Outcome, detail, c.Path)
				if showContent && c.Outcome == model.OutcomeMismatch {
					fmt.Fprintf(w, "        %q\n", c.Content)
				}
			}
			fmt.Fprintf(w, "success %d, mismatch %d, file_access %d\n",
				summary[model.OutcomeSuccess], summary[model.OutcomeMismatch], summary[model.OutcomeFileAccess])
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdInitDB() *cobra.Command {
	var dbPath string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the new history database")
		return cmd.MarkFlagRequired("db")
	}
	var cmd = &cobra.Command{
		Use:   "init-db",
		Short: "create a new history database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.InitDatabase(dbPath); err != nil {
				return err
			}
			if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
				log.Printf("%s: created history database\n", dbPath)
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdCompactDB() *cobra.Command {
	var dbPath string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the history database")
		return cmd.MarkFlagRequired("db")
	}
	var cmd = &cobra.Command{
		Use:   "compact-db",
		Short: "compact the history database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			started := time.Now()
			if err := store.CompactDatabase(dbPath); err != nil {
				return err
			}
			if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
				log.Printf("%s: compacted in %v\n", dbPath, time.Since(started))
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Fprintln(cmd.OutOrStdout(), buildid.Version().String())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), buildid.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
