package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"surveyscribe/app"
	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"
	"surveyscribe/internal/config"
	"surveyscribe/ui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "surveyscribe",
		Short: "Survey cross-tab analysis and report generation",
	}

	rootCmd.AddCommand(
		newParseCmd(),
		newDemoMapCmd(),
		newAnalyzeCmd(),
		newBatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [workbook.xlsx]",
		Short: "Parse the statistics sheet and list detected questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.LoadWorkbook(args[0])
			if err != nil {
				return err
			}
			for _, key := range wb.TableSet.Keys {
				rec, err := wb.TableSet.Record(key)
				if err != nil {
					continue
				}
				fmt.Printf("%-12s %s\n", key, rec.QuestionText)
			}
			fmt.Printf("\n%d questions, %d respondents, %d demographic variables\n",
				wb.TableSet.Len(), len(wb.Raw.Rows), len(wb.Demo))
			return nil
		},
	}
}

func newDemoMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo-map [workbook.xlsx]",
		Short: "Show the demographic variable map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := app.LoadWorkbook(args[0])
			if err != nil {
				return err
			}
			for _, code := range wb.Demo.Codes() {
				fmt.Printf("%-10s %s\n", code, wb.Demo[code])
			}
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	var testType string
	var noStat bool
	var langFlag string

	cmd := &cobra.Command{
		Use:   "analyze [workbook.xlsx] [question-key]",
		Short: "Run the full pipeline for one question",
		Long: `Run the full pipeline for one question and print the finished report.

Example: surveyscribe analyze survey.xlsx A2 --test-type ft_test`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, cfg, err := buildServices()
			if err != nil {
				return err
			}
			if langFlag == "" {
				langFlag = cfg.Report.Language
			}
			wb, err := app.LoadWorkbook(args[0])
			if err != nil {
				return err
			}
			key, err := core.ParseQuestionKey(args[1])
			if err != nil {
				return err
			}

			var plan *app.AnalysisPlan
			if noStat || testType != "" {
				plan = &app.AnalysisPlan{UseStat: !noStat, TestType: survey.TestFamily(testType)}
			}

			state, err := services.Pipeline.AnalyzeQuestion(
				context.Background(), wb, key, core.NewRunID(),
				survey.ParseLanguage(langFlag), plan, nil)
			if err != nil {
				return err
			}

			fmt.Printf("== %s %s\n\n%s\n\n", state.SelectedKey, state.SelectedQuestion, state.FinalReport)
			if len(state.Significance) > 0 {
				out, _ := json.MarshalIndent(state.Significance, "", "  ")
				fmt.Printf("significance (%s):\n%s\n", state.TestFamily, out)
			}
			if state.ForceAccepted {
				fmt.Println("note: validation limit reached, latest draft force-accepted")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&testType, "test-type", "", "force test family: ft_test, chi_square or manual")
	cmd.Flags().BoolVar(&noStat, "no-stat", false, "skip significance testing")
	cmd.Flags().StringVar(&langFlag, "lang", "", "report language (default from REPORT_LANG)")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var langFlag string
	var markdownOut string

	cmd := &cobra.Command{
		Use:   "batch [workbook.xlsx]",
		Short: "Analyze every question in the workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, cfg, err := buildServices()
			if err != nil {
				return err
			}
			if langFlag == "" {
				langFlag = cfg.Report.Language
			}
			wb, err := app.LoadWorkbook(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			result, err := services.Batch.Run(ctx, wb, survey.ParseLanguage(langFlag), nil)
			if err != nil {
				return err
			}

			fmt.Printf("run %s: %d reports, %d failures, %dms\n",
				result.RunID, len(result.States), len(result.Failed), result.RuntimeMs)
			for key, note := range result.Failed {
				fmt.Printf("  failed %s: %s\n", key, note)
			}

			if markdownOut != "" {
				records, err := services.Reports.ListByRun(ctx, result.RunID)
				if err != nil {
					return err
				}
				if err := os.WriteFile(markdownOut, []byte(ui.RenderRunMarkdown(records)), 0o644); err != nil {
					return err
				}
				fmt.Printf("report written to %s\n", markdownOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&langFlag, "lang", "", "report language (default from REPORT_LANG)")
	cmd.Flags().StringVar(&markdownOut, "out", "", "write the combined markdown report to this file")
	return cmd
}

func buildServices() (*app.Services, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	services, err := app.BuildServices(cfg)
	if err != nil {
		return nil, nil, err
	}
	return services, cfg, nil
}
