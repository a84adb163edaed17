package report

import (
	"io"
	"os"
	"path/filepath"

	"github.com/aymanbagabas/go-osc52/v2"
)

const OutputFileName = "VRAM_usage_of_mods.txt"

// WriteFile replaces dir/VRAM_usage_of_mods.txt with the progress log
// followed by the summary and returns the absolute path written.
func WriteFile(dir, progressLog, summary string) (string, error) {
	path, err := filepath.Abs(filepath.Join(dir, OutputFileName))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(progressLog+summary), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// CopyToClipboard emits an OSC52 sequence so the terminal places text on the
// system clipboard. Sequences are wrapped for tmux and screen when detected.
func CopyToClipboard(w io.Writer, text string) error {
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case os.Getenv("STY") != "":
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(w)
	return err
}
