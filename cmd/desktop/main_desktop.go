//go:build desktop

package main

import (
	"bytes"
	"context"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"video-analyzer/config"
	"video-analyzer/internal/cli"
	"video-analyzer/internal/export"
	"video-analyzer/internal/service"
	"video-analyzer/internal/storage"
	"video-analyzer/internal/types"
	"video-analyzer/log"
	"video-analyzer/pkg/util"
)

func main() {
	if handled, exitCode := handleCLIFlags(); handled {
		os.Exit(exitCode)
	}

	_ = godotenv.Load()
	log.InitLogger()
	defer log.GetLogger().Sync()

	if !config.LoadConfig() {
		os.Exit(1)
	}
	storage.InitDB()

	svc, err := service.NewService()
	if err != nil {
		log.GetLogger().Fatal("failed to init analyzer", zap.Error(err))
	}

	a := app.New()
	w := a.NewWindow("YouTube Video Analyzer")
	w.Resize(fyne.NewSize(900, 700))
	w.SetContent(newAnalyzerForm(w, svc))
	w.ShowAndRun()
}

// newAnalyzerForm builds the URL entry, the Analyze and Save buttons and the
// results view. Analysis runs off the UI goroutine.
func newAnalyzerForm(w fyne.Window, svc *service.Service) fyne.CanvasObject {
	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://www.youtube.com/watch?v=...")

	results := widget.NewMultiLineEntry()
	results.Wrapping = fyne.TextWrapWord
	results.Disable()

	status := widget.NewLabel("Ready")
	progress := widget.NewProgressBarInfinite()
	progress.Hide()

	var last *types.VideoAnalysis
	var saveBtn, analyzeBtn *widget.Button

	saveBtn = widget.NewButton("Save", func() {
		if last == nil {
			return
		}
		path, err := export.Save(last, export.Options{
			Dir:     config.Conf.Export.Dir,
			Pattern: config.Conf.Export.FilenamePattern,
			Format:  config.Conf.Export.Format,
		})
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		dialog.ShowInformation("Saved", "Analysis saved to "+path, w)
	})
	saveBtn.Disable()

	analyzeBtn = widget.NewButton("Analyze", func() {
		link := strings.TrimSpace(urlEntry.Text)
		if !util.IsYouTubeURL(link) {
			dialog.ShowInformation("Invalid URL", "Please provide a valid YouTube URL.", w)
			return
		}

		analyzeBtn.Disable()
		saveBtn.Disable()
		progress.Show()
		status.SetText("Analyzing " + link)

		go func() {
			analysis, err := svc.AnalyzeVideo(context.Background(), link)
			progress.Hide()
			analyzeBtn.Enable()
			if err != nil {
				status.SetText("Analysis failed")
				dialog.ShowError(err, w)
				return
			}

			var buf bytes.Buffer
			cli.PrintAnalysis(&buf, analysis)
			results.SetText(buf.String())
			last = analysis
			saveBtn.Enable()
			status.SetText("Done: " + analysis.Title)
		}()
	})

	top := container.NewBorder(nil, nil, widget.NewLabel("YouTube URL"), container.NewHBox(analyzeBtn, saveBtn), urlEntry)
	bottom := container.NewVBox(progress, status)
	return container.NewBorder(top, bottom, nil, nil, container.NewScroll(results))
}
