package appdirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// PortableEnv forces ("1", "true") or suppresses ("0", "false") the
	// layout next to the executable.
	PortableEnv = "VIDEOANALYZER_PORTABLE"
	// DataDirEnv puts config, logs, exports and cache under one directory.
	// It wins over PortableEnv and is how containers mount a volume.
	DataDirEnv = "VIDEOANALYZER_DATA_DIR"

	// ExportDirName is also the URL prefix for downloads of saved analyses.
	ExportDirName = "exports"

	appName        = "VideoAnalyzer"
	configFileName = "config.toml"
	audioDirName   = "audio"
	dbFileName     = "analyzer.db"
)

// Layout is every location the analyzer reads from or writes to.
type Layout struct {
	Portable   bool
	ConfigFile string
	LogDir     string
	// ExportDir holds saved analyses (JSON, text, docx).
	ExportDir string
	CacheDir  string
	// AudioDir holds audio downloaded for speech-to-text fallback.
	AudioDir string
	// DBPath is the sqlite transcript cache.
	DBPath string
}

// roots is the pair a Layout is derived from: where config lives and where
// everything the analyzer produces goes.
type roots struct {
	config   string
	data     string
	portable bool
}

func (r roots) layout() Layout {
	cacheDir := filepath.Join(r.data, "cache")
	return Layout{
		Portable:   r.portable,
		ConfigFile: filepath.Join(r.config, configFileName),
		LogDir:     filepath.Join(r.data, "logs"),
		ExportDir:  filepath.Join(r.data, ExportDirName),
		CacheDir:   cacheDir,
		AudioDir:   filepath.Join(cacheDir, audioDirName),
		DBPath:     filepath.Join(cacheDir, dbFileName),
	}
}

type host struct {
	goos          string
	getenv        func(string) string
	executable    func() (string, error)
	userConfigDir func() (string, error)
	userCacheDir  func() (string, error)
}

func currentHost() host {
	return host{
		goos:          runtime.GOOS,
		getenv:        os.Getenv,
		executable:    os.Executable,
		userConfigDir: os.UserConfigDir,
		userCacheDir:  os.UserCacheDir,
	}
}

// Resolve picks the layout for this process. Order: DataDirEnv, portable
// (forced by env, default on windows), per-user dirs on windows, then paths
// relative to the working directory.
func Resolve() (Layout, error) {
	return resolve(currentHost())
}

func resolve(h host) (Layout, error) {
	h = h.withDefaults()
	if dataDir := strings.TrimSpace(h.getenv(DataDirEnv)); dataDir != "" {
		return roots{config: filepath.Join(dataDir, "config"), data: dataDir}.layout(), nil
	}

	mode := h.getenv(PortableEnv)
	var (
		r   roots
		err error
	)
	switch {
	case isPortableEnabled(mode), h.goos == "windows" && !isPortableDisabled(mode):
		// windows ships as an unpacked folder
		r, err = h.portableRoots()
	case h.goos == "windows":
		r, err = h.userRoots()
	default:
		r = roots{config: "config", data: "."}
	}
	if err != nil {
		return Layout{}, err
	}
	return r.layout(), nil
}

func (h host) withDefaults() host {
	fallback := currentHost()
	if h.goos == "" {
		h.goos = fallback.goos
	}
	if h.getenv == nil {
		h.getenv = fallback.getenv
	}
	if h.executable == nil {
		h.executable = fallback.executable
	}
	if h.userConfigDir == nil {
		h.userConfigDir = fallback.userConfigDir
	}
	if h.userCacheDir == nil {
		h.userCacheDir = fallback.userCacheDir
	}
	return h
}

func (h host) portableRoots() (roots, error) {
	exe, err := h.executable()
	if err != nil {
		return roots{}, err
	}
	dataDir := filepath.Join(filepath.Dir(exe), "data")
	return roots{config: filepath.Join(dataDir, "config"), data: dataDir, portable: true}, nil
}

func (h host) userRoots() (roots, error) {
	configRoot, err := nonEmptyDir(h.userConfigDir, "user config dir")
	if err != nil {
		return roots{}, err
	}
	cacheRoot, err := nonEmptyDir(h.userCacheDir, "user cache dir")
	if err != nil {
		return roots{}, err
	}
	return roots{
		config: filepath.Join(configRoot, appName),
		data:   filepath.Join(cacheRoot, appName),
	}, nil
}

func nonEmptyDir(lookup func() (string, error), what string) (string, error) {
	dir, err := lookup()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(dir) == "" {
		return "", errors.New(what + " is empty")
	}
	return dir, nil
}

func isPortableEnabled(value string) bool {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "1", "true":
		return true
	}
	return false
}

func isPortableDisabled(value string) bool {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "0", "false":
		return true
	}
	return false
}
