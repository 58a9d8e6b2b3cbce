package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"prompt_architect/pkg/config"
	"prompt_architect/pkg/core/agent"
	"prompt_architect/pkg/core/assembler"
	"prompt_architect/pkg/core/section"
	"prompt_architect/pkg/core/utils"
	"prompt_architect/pkg/core/workbench"
	"prompt_architect/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	draftPath  string
	outputPath string
	envFile    string
	asHTML     bool
)

var rootCmd = &cobra.Command{
	Use:           "promptctl",
	Short:         "Build structured prompts from draft files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the prompt sections in assembly order",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tASSIST\tOPTIONS")
		for _, d := range section.Sections() {
			opts := make([]string, 0, len(d.Options))
			for _, o := range d.Options {
				if o.ID != "" {
					opts = append(opts, o.ID)
				}
			}
			if d.Kind == section.KindRange {
				opts = append(opts, fmt.Sprintf("%.1f..%.1f step %.1f", d.Min, d.Max, d.Step))
			}
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", d.ID, d.Kind, d.Assistable, strings.Join(opts, ","))
		}
		return w.Flush()
	},
}

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble the prompt described by a draft file",
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadDraftFile(draftPath)
		if err != nil {
			return err
		}
		return writeOutput(cmd, assembler.Assemble(model.Snapshot()))
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Assemble a draft and run it against the configured model",
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadDraftFile(draftPath)
		if err != nil {
			return err
		}

		cfg, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: "console", OutputPath: "stderr"})
		if err != nil {
			return err
		}
		defer log.Sync()

		modelsCfg, err := config.LoadModels(cfg.ModelsFile)
		if err != nil {
			return err
		}
		gen := agent.NewGenerator(agent.NewManager(modelsCfg, cfg.Credentials(), log), nil)

		data := model.Snapshot()
		ctx := context.Background()
		if cfg.GenerationTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.GenerationTimeout)
			defer cancel()
		}

		out, err := gen.Generate(ctx, assembler.Assemble(data), data.Temperature)
		if err != nil {
			log.Warn("Generation failed", zap.Error(err))
			out = workbench.FailureText(err)
		} else if out == "" {
			out = workbench.NoResponseText
		}

		if asHTML {
			html, err := utils.RenderMarkdown(out)
			if err != nil {
				return err
			}
			out = html
		}
		return writeOutput(cmd, out)
	},
}

func writeOutput(cmd *cobra.Command, out string) error {
	if outputPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(out+"\n"), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// loadDraftFile reads an Hjson (or plain JSON) object of section values and
// applies it through the section model, so every value is validated.
func loadDraftFile(path string) (*section.Model, error) {
	if path == "" {
		return nil, fmt.Errorf("--draft is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	var fields map[string]any
	if err := utils.ParseHJSONToStruct(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse draft: %w", err)
	}
	return applyDraft(fields)
}

func applyDraft(fields map[string]any) (*section.Model, error) {
	var unknown []string
	for key := range fields {
		if _, ok := section.Lookup(section.FieldID(key)); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", section.ErrUnknownField, strings.Join(unknown, ", "))
	}

	model := section.NewModel()
	for _, d := range section.Sections() {
		v, ok := fields[string(d.ID)]
		if !ok || v == nil {
			continue
		}
		if err := model.Set(d.ID, v); err != nil {
			return nil, err
		}
	}
	return model, nil
}

func init() {
	for _, c := range []*cobra.Command{assembleCmd, generateCmd} {
		c.Flags().StringVarP(&draftPath, "draft", "d", "", "Draft file (Hjson or JSON)")
		c.Flags().StringVarP(&outputPath, "output", "o", "", "Write the result to this file instead of stdout")
	}
	generateCmd.Flags().StringVar(&envFile, "env", ".env", "Optional .env file with API keys")
	generateCmd.Flags().BoolVar(&asHTML, "html", false, "Render the result as HTML")

	rootCmd.AddCommand(sectionsCmd, assembleCmd, generateCmd)
}
