package handler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"video-analyzer/config"
	"video-analyzer/internal/dto"
	"video-analyzer/internal/response"
	"video-analyzer/internal/storage"
	"video-analyzer/log"
	apperrors "video-analyzer/pkg/errors"
)

const defaultCookieFilePath = "cookies.txt"

// cookieFilePath is the Netscape cookie jar yt-dlp is given for
// age-restricted or sign-in gated videos.
func cookieFilePath() string {
	if p := strings.TrimSpace(config.Conf.App.CookiesPath); p != "" {
		return p
	}
	return defaultCookieFilePath
}

// GetCookieStatus reports whether the yt-dlp cookie file exists and how
// close it is to expiry.
func (h Handler) GetCookieStatus(c *gin.Context) {
	path := cookieFilePath()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		response.Success(c, dto.CookieStatusResData{
			Path:      path,
			Status:    "not_found",
			StatusMsg: "Cookie file not found",
		})
		return
	}
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeFileNotFound, "Failed to read cookie file status", err))
		return
	}

	file, err := os.Open(path)
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeFileNotFound, "Failed to open cookie file", err))
		return
	}
	defer file.Close()

	status := inspectCookies(file, info.ModTime(), time.Now())
	status.Path = path
	response.Success(c, status)
}

func inspectCookies(r io.Reader, modTime, now time.Time) dto.CookieStatusResData {
	result := dto.CookieStatusResData{
		Exists:       true,
		LastModified: modTime.Format("2006-01-02 15:04:05"),
	}

	scanner := bufio.NewScanner(r)
	var earliestExpiry int64
	for scanner.Scan() {
		fields, ok := cookieFields(scanner.Text())
		if !ok {
			continue
		}
		result.CookieCount++
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil || expiry == 0 {
			continue // session cookie
		}
		if earliestExpiry == 0 || expiry < earliestExpiry {
			earliestExpiry = expiry
		}
	}

	if earliestExpiry == 0 {
		result.DaysUntilExpiry = -1
		daysSinceModified := int(now.Sub(modTime).Hours() / 24)
		if daysSinceModified > 30 {
			result.Status = "expiring_soon"
			result.StatusMsg = fmt.Sprintf("Cookie file not updated for %d days", daysSinceModified)
		} else {
			result.Status = "valid"
			result.StatusMsg = "Cookie file exists"
		}
		return result
	}

	expiryTime := time.Unix(earliestExpiry, 0)
	result.EarliestExpiry = expiryTime.Format("2006-01-02 15:04:05")
	result.EarliestExpiryTs = earliestExpiry
	daysUntil := int(expiryTime.Sub(now).Hours() / 24)
	result.DaysUntilExpiry = daysUntil

	switch {
	case expiryTime.Before(now):
		result.Status = "expired"
		result.StatusMsg = fmt.Sprintf("Cookie expired %d days ago", -daysUntil)
	case daysUntil < 7:
		result.Status = "expiring_soon"
		result.StatusMsg = fmt.Sprintf("Cookie expires in %d days", daysUntil)
	default:
		result.Status = "valid"
		result.StatusMsg = fmt.Sprintf("Cookie valid, expires in %d days", daysUntil)
	}
	return result
}

func cookieFields(line string) ([]string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, false
	}
	fields := strings.Split(line, "\t")
	return fields, len(fields) >= 7
}

func countCookies(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if _, ok := cookieFields(line); ok {
			count++
		}
	}
	return count
}

// UploadCookie accepts a Netscape cookie file as multipart upload or as a
// "content" field.
func (h Handler) UploadCookie(c *gin.Context) {
	var cookieContent string

	file, _, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Failed to read uploaded file", err))
			return
		}
		cookieContent = string(data)
	} else {
		var req struct {
			Content string `json:"content" form:"content"`
		}
		if err := c.ShouldBind(&req); err != nil || req.Content == "" {
			response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "Please provide cookie content"))
			return
		}
		cookieContent = req.Content
	}

	valid := countCookies(cookieContent)
	if valid == 0 {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "Invalid cookie format, please use Netscape format"))
		return
	}

	path := cookieFilePath()
	if err = os.WriteFile(path, []byte(cookieContent), 0o600); err != nil {
		log.GetLogger().Error("failed to write cookie file", zap.String("path", path), zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeFileWriteError, "Failed to write cookie file", err))
		return
	}

	log.GetLogger().Info("cookie file updated", zap.Int("cookies", valid))
	response.Success(c, gin.H{
		"cookie_count": valid,
		"message":      fmt.Sprintf("Saved %d cookies", valid),
	})
}

// ValidateCookie checks that yt-dlp can read metadata with the current
// cookie file.
func (h Handler) ValidateCookie(c *gin.Context) {
	path := cookieFilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeFileNotFound, "Cookie file not found"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, storage.YtdlpPath, "--cookies", path,
		"--dump-json", "--skip-download",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	output, err := cmd.CombinedOutput()
	outputStr := string(output)

	if err != nil {
		if strings.Contains(outputStr, "Sign in to confirm") || strings.Contains(outputStr, "LOGIN_REQUIRED") {
			response.ErrorResponse(c, apperrors.New(apperrors.CodeMetadataFailed, "Cookie expired or invalid, please re-export"))
			return
		}
		response.ErrorResponse(c, apperrors.WrapWithDetail(apperrors.CodeMetadataFailed, "Cookie validation failed", truncateString(outputStr, 200), err))
		return
	}

	response.Success(c, gin.H{
		"valid":   true,
		"message": "Cookie validation passed",
	})
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
