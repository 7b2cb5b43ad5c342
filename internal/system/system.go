package system

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

// ErrNotFound is returned when a directory holds no file of the wanted kind.
var ErrNotFound = errors.New("no matching files")

var (
	AudioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"}
	ImageExtensions = []string{".jpg", ".jpeg", ".png"}
	AssetExtensions = []string{".jpg", ".jpeg", ".png", ".pdf"}
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
	}
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FindLatest returns the most recently modified file in dir whose name ends
// with one of exts (case-insensitive).
func FindLatest(dir string, exts []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time
	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s: %w %v", dir, ErrNotFound, exts)
	}
	return latestFile, nil
}

func FindLatestAudio(dir string) (string, error) {
	return FindLatest(dir, AudioExtensions)
}

// FindLatestAsset resolves path to a raster asset. A file is returned as
// is; for a directory the newest image or PDF inside it is used.
func FindLatestAsset(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return path, nil
	}
	return FindLatest(path, AssetExtensions)
}

func GetAudioDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, err
	}

	return duration, nil
}

var (
	ffmpegListsOnce sync.Once
	ffmpegEncoders  string
	ffmpegFilters   string
)

func loadFFmpegLists() {
	if out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput(); err == nil {
		ffmpegEncoders = string(out)
	}
	if out, err := exec.Command("ffmpeg", "-hide_banner", "-filters").CombinedOutput(); err == nil {
		ffmpegFilters = string(out)
	}
}

// GetBestH264Encoder picks a hardware encoder when the local ffmpeg has one:
// VideoToolbox on macOS, then NVENC, otherwise libx264.
func GetBestH264Encoder() (string, string) {
	ffmpegListsOnce.Do(loadFFmpegLists)
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(ffmpegEncoders, name) {
			return name, ""
		}
	}
	return "libx264", ""
}

// CheckFilterSupport reports whether the local ffmpeg knows the filter.
func CheckFilterSupport(name string) bool {
	ffmpegListsOnce.Do(loadFFmpegLists)
	return listsFilter(ffmpegFilters, name)
}

// listsFilter scans `ffmpeg -filters` output, where the filter name is the
// second column.
func listsFilter(list, name string) bool {
	for _, line := range strings.Split(list, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == name {
			return true
		}
	}
	return false
}

// HasFFmpeg reports whether ffmpeg and ffprobe are on PATH.
func HasFFmpeg() error {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s не найден в PATH: %w", bin, err)
		}
	}
	return nil
}
