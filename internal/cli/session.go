package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"video-analyzer/config"
	"video-analyzer/internal/analyzer"
	"video-analyzer/internal/export"
	"video-analyzer/internal/types"
	"video-analyzer/log"
	"video-analyzer/pkg/util"
)

const exampleURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type VideoAnalyzer interface {
	AnalyzeVideo(ctx context.Context, link string) (*types.VideoAnalysis, error)
}

type ExportSettings struct {
	Enabled bool
	Options export.Options
}

// Session is one interactive run: it reads URLs from In and writes reports to
// Out until the user quits or input ends.
type Session struct {
	In       io.Reader
	Out      io.Writer
	Analyzer VideoAnalyzer
	Options  analyzer.Options
	Export   ExportSettings

	scanner *bufio.Scanner
}

func exportOptionsFromFlags(cmd *cobra.Command) ExportSettings {
	settings := ExportSettings{
		Enabled: config.Conf.Export.SaveJson,
		Options: export.Options{
			Dir:     config.Conf.Export.Dir,
			Pattern: config.Conf.Export.FilenamePattern,
			Format:  config.Conf.Export.Format,
		},
	}
	if noSave, _ := cmd.Flags().GetBool("no-save"); noSave {
		settings.Enabled = false
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		settings.Options.Dir = out
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		settings.Options.Format = format
	}
	return settings
}

func (s *Session) printBanner() {
	fmt.Fprintln(s.Out, "\n"+heavyRule)
	fmt.Fprintln(s.Out, "YOUTUBE VIDEO ANALYZER")
	fmt.Fprintln(s.Out, heavyRule)
	fmt.Fprintln(s.Out, "\nThis tool analyzes YouTube videos and provides:")
	fmt.Fprintln(s.Out, "  - Comprehensive summary (length adapts to video duration)")
	fmt.Fprintln(s.Out, "  - Key timestamps from throughout the video")
	fmt.Fprintln(s.Out, "  - Main themes and topics")
	fmt.Fprintln(s.Out, "  - Structured content breakdown")
	fmt.Fprintf(s.Out, "\nProvider: %s (%s)\n", config.Conf.Llm.Provider, config.Conf.Llm.Model)
	if s.Options.DynamicWordCount {
		fmt.Fprintln(s.Out, "Summary length: dynamic")
	} else {
		fmt.Fprintf(s.Out, "Summary length: %s words\n", s.Options.DefaultWordCount)
	}
	fmt.Fprintln(s.Out, "\n"+heavyRule+"\n")
}

// prompt prints question and returns the trimmed answer. ok is false once
// input is exhausted.
func (s *Session) prompt(question string) (string, bool) {
	if s.scanner == nil {
		s.scanner = bufio.NewScanner(s.In)
	}
	fmt.Fprint(s.Out, question)
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

func isQuit(answer string) bool {
	switch strings.ToLower(answer) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

func isYes(answer string, emptyMeansYes bool) bool {
	switch strings.ToLower(answer) {
	case "yes", "y":
		return true
	case "":
		return emptyMeansYes
	}
	return false
}

func (s *Session) goodbye() {
	fmt.Fprintln(s.Out, "\nThanks for using YouTube Video Analyzer!")
}

// Loop runs the interactive prompt.
func (s *Session) Loop(ctx context.Context) {
	s.printBanner()
	for {
		link, ok := s.prompt("Enter YouTube URL (or 'quit' to exit): ")
		if !ok || isQuit(link) {
			s.goodbye()
			return
		}

		if !util.IsYouTubeURL(link) {
			fmt.Fprintln(s.Out, "Invalid URL. Please provide a valid YouTube URL.")
			fmt.Fprintf(s.Out, "   Example: %s\n\n", exampleURL)
			continue
		}

		if err := s.AnalyzeOnce(ctx, link); err != nil {
			s.printFailure(err)
			answer, ok := s.prompt("Try another URL? (yes/no): ")
			if !ok || !isYes(answer, false) {
				s.goodbye()
				return
			}
			fmt.Fprintln(s.Out)
			continue
		}

		fmt.Fprintln(s.Out, "\n"+lightRule)
		answer, ok := s.prompt("\nAnalyze another video? (yes/no): ")
		if !ok || !isYes(answer, true) {
			s.goodbye()
			return
		}
		fmt.Fprintln(s.Out)
	}
}

// AnalyzeOnce analyzes link, prints the report and exports it when enabled.
func (s *Session) AnalyzeOnce(ctx context.Context, link string) error {
	fmt.Fprintf(s.Out, "\nAnalyzing: %s\n\n", link)
	analysis, err := s.Analyzer.AnalyzeVideo(ctx, link)
	if err != nil {
		return err
	}

	PrintAnalysis(s.Out, analysis)

	if !s.Export.Enabled {
		return nil
	}
	path, err := export.Save(analysis, s.Export.Options)
	if err != nil {
		log.GetLogger().Warn("failed to save analysis", zap.Error(err))
		fmt.Fprintf(s.Out, "\nCould not save analysis: %v\n", err)
		return nil
	}
	fmt.Fprintf(s.Out, "\nAnalysis saved to %s\n", path)
	return nil
}

func (s *Session) printFailure(err error) {
	fmt.Fprintf(s.Out, "\nError: %v\n", err)
	fmt.Fprintln(s.Out, "\nPossible reasons:")
	fmt.Fprintln(s.Out, "  - Video doesn't have captions/subtitles enabled")
	fmt.Fprintln(s.Out, "  - Video is private, age-restricted, or unavailable")
	fmt.Fprintln(s.Out, "  - Invalid URL format")
	fmt.Fprintln(s.Out, "  - Network connection issues")
	if config.Conf.Llm.Provider == config.ProviderOllama {
		fmt.Fprintln(s.Out, "  - Ollama service not running")
	}
	fmt.Fprintln(s.Out)
}
