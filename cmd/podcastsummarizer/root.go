package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"PodcastSummarizer/internal/app"
	"PodcastSummarizer/internal/config"
	"PodcastSummarizer/internal/domain"
	"PodcastSummarizer/internal/logging"
	"PodcastSummarizer/internal/usecase"
)

type rootFlags struct {
	contentType string
	force       bool
	noEmail     bool
	pdf         bool
	instruction string
	verbose     bool
}

var knownTypes = []domain.ContentType{
	domain.TypeAudio,
	domain.TypeVideo,
	domain.TypeTranscriptText,
	domain.TypePodcastURL,
	domain.TypeArticleURL,
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "podcastsummarizer <reference>...",
		Short: "Summarize podcasts, videos, articles, and transcripts",
		Long: `Summarize one or more content references: podcast episode pages, audio or
video URLs, local media files, article URLs, or pre-existing transcript files.
Each reference is downloaded, transcribed, and summarized into the workspace;
re-running a reference reuses the cached artifacts.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			forced, err := parseForcedType(flags.contentType)
			if err != nil {
				return err
			}

			cfg := config.Load()
			if flags.verbose {
				cfg.Logging.Level = "debug"
			}
			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			opts := usecase.Options{
				ForcedType:  forced,
				Force:       flags.force,
				Instruction: flags.instruction,
				Email:       !flags.noEmail,
				PDF:         flags.pdf,
			}

			results := application.ProcessMany(cmd.Context(), args, opts)
			renderResults(results)

			for _, res := range results {
				if !res.Success {
					return fmt.Errorf("%d of %d items failed", failed(results), len(results))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.contentType, "type", "t", "", "override content type detection ("+typeList()+")")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "regenerate artifacts even when cached")
	cmd.Flags().BoolVar(&flags.noEmail, "no-email", false, "skip email delivery")
	cmd.Flags().BoolVar(&flags.pdf, "pdf", false, "also render the summary as a PDF")
	cmd.Flags().StringVarP(&flags.instruction, "instruction", "i", "", "extra instruction for summary generation")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newHistoryCmd())
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit uint64

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent processing runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			runs, err := application.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No recorded runs.")
				return nil
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Finished", "Type", "Reference", "Status", "Summary"})
			for _, run := range runs {
				tw.AppendRow(table.Row{
					run.FinishedAt.Format("2006-01-02 15:04"),
					run.ContentType,
					truncate(run.Reference, 48),
					runStatus(run.Success, run.Degraded, run.Error),
					run.SummaryPath,
				})
			}
			tw.Render()
			return nil
		},
	}

	cmd.Flags().Uint64VarP(&limit, "limit", "n", 20, "number of rows to show")
	return cmd
}

func renderResults(results []domain.ItemResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"#", "Reference", "Type", "Status", "Summary"})
	for i, res := range results {
		tw.AppendRow(table.Row{
			i + 1,
			truncate(res.Reference, 48),
			res.Type,
			itemStatus(res),
			res.Artifacts.Summary,
		})
	}
	tw.Render()

	ok := len(results) - failed(results)
	fmt.Printf("\n%d/%d succeeded\n", ok, len(results))
}

func itemStatus(res domain.ItemResult) string {
	switch {
	case !res.Success:
		return "failed: " + truncate(res.Err.Error(), 60)
	case res.Summary.Degraded:
		return "degraded"
	case res.EmailSent:
		return "ok, emailed"
	default:
		return "ok"
	}
}

func runStatus(success, degraded bool, errText string) string {
	switch {
	case !success:
		return "failed: " + truncate(errText, 40)
	case degraded:
		return "degraded"
	default:
		return "ok"
	}
}

func failed(results []domain.ItemResult) int {
	n := 0
	for _, res := range results {
		if !res.Success {
			n++
		}
	}
	return n
}

func parseForcedType(value string) (domain.ContentType, error) {
	if value == "" {
		return "", nil
	}
	for _, t := range knownTypes {
		if string(t) == value {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown content type %q, expected one of: %s", value, typeList())
}

func typeList() string {
	names := make([]string, len(knownTypes))
	for i, t := range knownTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
