package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"video-analyzer/internal/appdirs"
	"video-analyzer/internal/storage"
	"video-analyzer/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func handleCLIFlags() (bool, int) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	showVersion := flags.Bool("version", false, "print version information")
	showDiagnose := flags.Bool("diagnose", false, "print runtime diagnostics")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return true, 2
	}

	if !*showVersion && !*showDiagnose {
		return false, 0
	}

	if *showVersion {
		printVersion()
	}

	if *showDiagnose {
		if *showVersion {
			fmt.Println()
		}
		printDiagnose()
	}

	return true, 0
}

func printVersion() {
	fmt.Printf("version: %s\ncommit: %s\ndate: %s\n", version, commit, date)
}

func printDiagnose() {
	writeDiagnose(os.Stdout, appdirs.Resolve)
}

// writeDiagnose reports the build, the resolved layout and whether each
// external binary the analyzer shells out to is on PATH.
func writeDiagnose(w io.Writer, resolveLayout func() (appdirs.Layout, error)) {
	fmt.Fprintf(w, "runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "version: %s\ncommit: %s\ndate: %s\n", version, commit, date)

	if wd, err := os.Getwd(); err == nil {
		fmt.Fprintf(w, "working_dir: %s\n", wd)
	} else {
		fmt.Fprintf(w, "working_dir: <error: %v>\n", err)
	}

	layout, err := resolveLayout()
	if err != nil {
		fmt.Fprintf(w, "path.layout: <error: %v>\n", err)
	} else {
		fmt.Fprintf(w, "layout.portable: %t\n", layout.Portable)
	}
	printPath(w, "config", layout.ConfigFile)
	if logDir, err := log.ResolveLogDir(); err == nil {
		printPath(w, "effective_log_dir", logDir)
		if logFile, err := log.ResolveLogFilePath(); err == nil {
			printPath(w, "log", logFile)
		}
	} else {
		fmt.Fprintf(w, "path.effective_log_dir: <error: %v>\n", err)
	}
	printPath(w, "exports", layout.ExportDir)
	printPath(w, "audio", layout.AudioDir)
	printPath(w, "database", layout.DBPath)

	for _, bin := range []struct{ name, path string }{
		{"yt-dlp", storage.YtdlpPath},
		{"ffmpeg", storage.FfmpegPath},
		{"whisper-cli", storage.WhispercppPath},
	} {
		if resolved, err := exec.LookPath(bin.path); err == nil {
			fmt.Fprintf(w, "dependency.%s: found (%s)\n", bin.name, resolved)
		} else {
			fmt.Fprintf(w, "dependency.%s: missing\n", bin.name)
		}
	}
}

func printPath(w io.Writer, name, value string) {
	if value == "" {
		fmt.Fprintf(w, "path.%s: <unresolved>\n", name)
		return
	}
	absPath, err := filepath.Abs(value)
	if err != nil {
		absPath = value
	}
	state := "exists"
	if _, err = os.Stat(absPath); os.IsNotExist(err) {
		state = "missing"
	} else if err != nil {
		state = "error=" + err.Error()
	}
	fmt.Fprintf(w, "path.%s: %s (%s)\n", name, absPath, state)
}
