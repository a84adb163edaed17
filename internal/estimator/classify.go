package estimator

import "strings"

const (
	DefaultBackgroundToken = "backgrounds"
	DefaultUnusedIndicator = "_CURRENTLY_UNUSED"
)

// Classifier assigns a category from a package-relative path.
type Classifier struct {
	BackgroundToken  string
	UnusedIndicators []string
}

func DefaultClassifier() Classifier {
	return Classifier{
		BackgroundToken:  DefaultBackgroundToken,
		UnusedIndicators: []string{DefaultUnusedIndicator},
	}
}

// Classify checks the background token first, so a path matching both
// rules is a background.
func (c Classifier) Classify(relPath string) Category {
	if c.BackgroundToken != "" && strings.Contains(relPath, c.BackgroundToken) {
		return CategoryBackground
	}
	if c.IsUnused(relPath) {
		return CategoryUnused
	}
	return CategoryTexture
}

// IsUnused reports whether relPath contains any unused indicator.
func (c Classifier) IsUnused(relPath string) bool {
	for _, ind := range c.UnusedIndicators {
		if ind != "" && strings.Contains(relPath, ind) {
			return true
		}
	}
	return false
}
