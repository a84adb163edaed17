// Package modinfo reads package identity (mod_info.json) and the enabled
// package list (enabled_mods.json) from a game's mods folder.
package modinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tailscale/hujson"

	"vramcounter/internal/progress"
)

const (
	InfoFileName    = "mod_info.json"
	EnabledFileName = "enabled_mods.json"
)

// ErrNoModInfo is returned when a folder has no identity file.
var ErrNoModInfo = errors.New("mod_info.json not found")

// Info identifies one package folder.
type Info struct {
	ID      string
	Name    string
	Version string
	Folder  string
}

// FormattedName renders "name version (id)".
func (i Info) FormattedName() string {
	return fmt.Sprintf("%s %s (%s)", i.Name, i.Version, i.ID)
}

type infoFile struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Version json.RawMessage `json:"version"`
}

type versionObject struct {
	Major json.RawMessage `json:"major"`
	Minor json.RawMessage `json:"minor"`
	Patch json.RawMessage `json:"patch"`
}

type enabledFile struct {
	EnabledMods []string `json:"enabledMods"`
}

// Discover reads the identity of every direct subfolder of modsDir, in name
// order. Folders without a readable identity file are reported to log and
// left out.
func Discover(modsDir string, log *progress.Log) ([]Info, error) {
	entries, err := os.ReadDir(modsDir)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var infos []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := filepath.Join(modsDir, entry.Name())
		info, err := Read(folder)
		if err != nil {
			log.Printf("Unable to find '%s' in %s.", InfoFileName, folder)
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Read parses folder/mod_info.json. Both the legacy string version and the
// {major, minor, patch} object version are accepted.
func Read(folder string) (Info, error) {
	data, err := os.ReadFile(filepath.Join(folder, InfoFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Info{}, ErrNoModInfo
		}
		return Info{}, err
	}

	var raw infoFile
	if err := unmarshalLenient(data, &raw); err != nil {
		return Info{}, fmt.Errorf("parse %s: %w", InfoFileName, err)
	}

	version, err := parseVersion(raw.Version)
	if err != nil {
		return Info{}, fmt.Errorf("parse %s version: %w", InfoFileName, err)
	}

	return Info{
		ID:      raw.ID,
		Name:    raw.Name,
		Version: version,
		Folder:  folder,
	}, nil
}

// LoadEnabled returns the enabled package ids. ok is false when the file is
// missing or unreadable; that is reported to log and is not an error.
func LoadEnabled(modsDir string, log *progress.Log) (ids []string, ok bool) {
	data, err := os.ReadFile(filepath.Join(modsDir, EnabledFileName))
	if err != nil {
		log.Printf("Unable to find '%s'.", EnabledFileName)
		return nil, false
	}

	var raw enabledFile
	if err := unmarshalLenient(data, &raw); err != nil {
		log.Println(err.Error())
		return nil, false
	}
	return raw.EnabledMods, true
}

func parseVersion(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var obj versionObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", err
	}
	parts := []string{scalar(obj.Major), scalar(obj.Minor), scalar(obj.Patch)}
	return strings.Join(parts, "."), nil
}

// scalar renders a JSON string or number without quotes.
func scalar(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// unmarshalLenient accepts the relaxed JSON the game's files are written in:
// // and /* */ comments, # line comments and trailing commas.
func unmarshalLenient(data []byte, v any) error {
	std, err := hujson.Standardize(stripHashComments(data))
	if err != nil {
		return err
	}
	return json.Unmarshal(std, v)
}

// stripHashComments blanks out # comments that start outside a string.
func stripHashComments(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)

	inString, escaped, inComment := false, false, false
	for i, c := range out {
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
			} else {
				out[i] = ' '
			}
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == '#':
			inComment = true
			out[i] = ' '
		}
	}
	return out
}
