package handler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"video-analyzer/config"
	"video-analyzer/internal/appdirs"
	"video-analyzer/internal/response"
	apperrors "video-analyzer/pkg/errors"
)

var appDirsResolver = appdirs.Resolve

const exportAlias = appdirs.ExportDirName

func exportRootCandidates() []string {
	candidates := make([]string, 0, 3)
	if dir := strings.TrimSpace(config.Conf.Export.Dir); dir != "" {
		candidates = append(candidates, dir)
	}
	if layout, err := appDirsResolver(); err == nil {
		candidates = append(candidates, layout.ExportDir)
	}
	candidates = append(candidates, exportAlias)
	return uniquePaths(candidates...)
}

func exportRoot() string {
	return exportRootCandidates()[0]
}

func (h Handler) DownloadFile(c *gin.Context) {
	requestedFile := c.Param("filepath")
	if strings.Trim(requestedFile, "/") == "" {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "File path is empty"))
		return
	}

	localFilePath, ok := resolveDownloadPath(requestedFile)
	if !ok {
		c.JSON(404, response.FromError(apperrors.New(apperrors.CodeFileNotFound, "File not found")))
		return
	}
	if info, err := os.Stat(localFilePath); err != nil || info.IsDir() {
		c.JSON(404, response.FromError(apperrors.New(apperrors.CodeFileNotFound, "File not found")))
		return
	}
	c.FileAttachment(localFilePath, filepath.Base(localFilePath))
}

// resolveDownloadPath maps "exports/<task>/<file>" onto the export root.
// Anything outside the root is rejected.
func resolveDownloadPath(requested string) (string, bool) {
	requested = strings.TrimSpace(requested)
	requested = strings.TrimPrefix(requested, "/")
	if hasParentTraversal(requested) {
		return "", false
	}
	requested = filepath.ToSlash(filepath.Clean(requested))

	prefix := exportAlias + "/"
	if !strings.HasPrefix(requested, prefix) {
		return "", false
	}
	relativePath := filepath.FromSlash(strings.TrimPrefix(requested, prefix))

	var fallback string
	for _, rootDir := range exportRootCandidates() {
		candidate := filepath.Clean(filepath.Join(rootDir, relativePath))
		if !isPathWithinRoot(rootDir, candidate) {
			continue
		}
		if fallback == "" {
			fallback = candidate
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	if fallback == "" {
		return "", false
	}
	return fallback, true
}

func uniquePaths(values ...string) []string {
	seen := make(map[string]struct{}, len(values))
	paths := make([]string, 0, len(values))
	for _, value := range values {
		cleaned := strings.TrimSpace(value)
		if cleaned == "" {
			continue
		}
		cleaned = filepath.Clean(cleaned)
		if _, exists := seen[cleaned]; exists {
			continue
		}
		seen[cleaned] = struct{}{}
		paths = append(paths, cleaned)
	}
	return paths
}

func isPathWithinRoot(root, candidate string) bool {
	root = filepath.Clean(root)
	candidate = filepath.Clean(candidate)

	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func hasParentTraversal(path string) bool {
	normalized := strings.ReplaceAll(path, "\\", "/")
	for _, part := range strings.Split(normalized, "/") {
		if part == ".." {
			return true
		}
	}
	return false
}
