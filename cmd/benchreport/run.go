package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"benchreport/internal/bench"
	"benchreport/internal/gist"
	"benchreport/internal/git"
	"benchreport/internal/history"
	"benchreport/internal/notify"
	"benchreport/internal/pipeline"
	"benchreport/internal/pkgmgr"
	"benchreport/internal/ui"
)

var (
	runDir     string
	runRef     string
	runGist    string
	runPublish bool
	runPublic  bool
	runBaseURL string
	runOutDir  string
)

var runCmd = &cobra.Command{
	Use:   "run [repository]",
	Short: "Benchmark the working tree and publish the report",
	Long: `Runs the benchmark suite against the current state of the working tree.
When a reference branch is set and the directory is a git working copy, the
suite is additionally run against that branch and the two runs are judged
against each other. Pass --ref="" to force a standalone run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDir, "dir", ".", "Benchmark working directory")
	runCmd.Flags().StringVar(&runRef, "ref", "", "Reference branch (default from config, \"main\")")
	runCmd.Flags().StringVar(&runGist, "gist", "", "Existing gist id or URL to update (create a new gist when unset)")
	runCmd.Flags().BoolVar(&runPublish, "publish", true, "Publish the report as a gist")
	runCmd.Flags().BoolVar(&runPublic, "public", false, "Make a newly created gist public")
	runCmd.Flags().StringVar(&runBaseURL, "base-url", "", "Absolute base URL for image links in the report (required when publishing)")
	runCmd.Flags().StringVar(&runOutDir, "out", "", "Output directory for artifacts (default: --dir)")

	viper.BindPFlag("public", runCmd.Flags().Lookup("public"))
}

func runRun(cmd *cobra.Command, args []string) error {
	repo := ""
	if len(args) > 0 {
		repo = args[0]
	}

	ref := runRef
	if !cmd.Flags().Changed("ref") {
		ref = viper.GetString("reference")
	}

	publishMode := pipeline.PublishMode{Kind: pipeline.PublishNone}
	var publisher gist.Publisher
	if runPublish {
		// A published report is read away from the artifacts, so its
		// image links must be absolute.
		if runBaseURL == "" {
			return fmt.Errorf("--base-url is required when publishing (image links in the report must be absolute)")
		}
		publishMode.Kind = pipeline.PublishCreate
		if runGist != "" {
			publishMode.Kind = pipeline.PublishUpdate
			publishMode.GistID = gistID(runGist)
		}

		// Publishing is certain to be needed: reject a missing credential
		// before any benchmark work begins.
		var err error
		publisher, err = gist.NewPublisher(viper.GetString("github.token"))
		if err != nil {
			return err
		}
	}

	gitClient := git.NewClient()
	p := &pipeline.Pipeline{
		Engine:    bench.NewGoEngine(gitClient),
		Git:       gitClient,
		Pkg:       pkgmgr.NewGoModManager(),
		Publisher: publisher,
		Out:       cmd.OutOrStdout(),
	}

	outcome, err := p.Run(cmd.Context(), pipeline.Options{
		Repo:      repo,
		Dir:       runDir,
		Ref:       ref,
		OutputDir: runOutDir,
		BaseURL:   runBaseURL,
		Publish:   publishMode,
		Public:    viper.GetBool("public"),
	})
	if err != nil {
		ui.Error(cmd.ErrOrStderr(), "run failed: %v", err)
		return err
	}

	ui.Success(cmd.OutOrStdout(), "run %s complete", outcome.Context.RunName)
	ui.Info(cmd.OutOrStdout(), "report: %s", outcome.ReportPath)

	recordRun(cmd, outcome)
	notifyRun(cmd, outcome)
	return nil
}

// gistID accepts either a bare id or a gist URL and returns the id.
func gistID(s string) string {
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// recordRun appends the run to the local history database. History is a
// convenience; failures warn and never fail the command.
func recordRun(cmd *cobra.Command, outcome *pipeline.Outcome) {
	store, err := history.NewStore(viper.GetString("history.file"))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	rec := history.Record{
		RunName: outcome.Context.RunName,
		Mode:    outcome.Context.Mode.String(),
	}
	if outcome.Gist != nil {
		rec.GistURL = outcome.Gist.URL
	}
	if err := store.Save(rec); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to record run: %v\n", err)
	}
}

// notifyRun pings the configured Slack webhook, if any.
func notifyRun(cmd *cobra.Command, outcome *pipeline.Outcome) {
	webhook := viper.GetString("slack.webhook_url")
	if webhook == "" {
		return
	}
	msg := fmt.Sprintf("Benchmark run %s complete", outcome.Context.RunName)
	if outcome.Gist != nil {
		msg += ": " + outcome.Gist.URL
	}
	if err := notify.NewSlackNotifier(webhook).Notify(cmd.Context(), msg); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: slack notification failed: %v\n", err)
	}
}
