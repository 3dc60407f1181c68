package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"video-analyzer/config"
	"video-analyzer/internal/service"
	"video-analyzer/internal/storage"
	"video-analyzer/log"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "analyzer [youtube-url]",
		Short:        "Summarize YouTube videos with a language model",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().Bool("no-save", false, "Do not write the JSON export")
	root.Flags().String("out", "", "Directory for exports (defaults to export.dir)")
	root.Flags().String("format", "", "Export format: json or docx")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log.InitLogger()
	defer log.GetLogger().Sync()

	if !config.LoadConfig() {
		return errors.New("configuration could not be loaded, see the log for details")
	}
	log.SetQuiet()
	storage.InitDB()

	session := &Session{
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
		Options: service.AnalyzerOptionsFromConfig(config.Conf),
		Export:  exportOptionsFromFlags(cmd),
	}

	fmt.Fprintln(session.Out, "Initializing analyzer...")
	svc, err := service.NewService()
	if err != nil {
		return fmt.Errorf("init analyzer: %w", err)
	}
	session.Analyzer = svc
	fmt.Fprintln(session.Out, "Analyzer ready!")

	if len(args) == 1 {
		return session.AnalyzeOnce(cmd.Context(), args[0])
	}
	session.Loop(cmd.Context())
	return nil
}
