package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/v0xg/clickflow/internal/flow"
)

// Default artifact names.
const (
	ElementsFile = "clickable_elements.json"
	SummaryFile  = "click_coord_summary.txt"
)

// Artifacts are the paths written by Write
type Artifacts struct {
	Elements string
	Summary  string
}

// Write saves the ordered records as indented JSON and the summary lines as
// text into dir. Both files are always written, even when empty.
func Write(dir string, ordered []flow.Clickable, lines []string) (Artifacts, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifacts{}, fmt.Errorf("create output dir: %w", err)
	}

	data, err := EncodeRecords(ordered)
	if err != nil {
		return Artifacts{}, err
	}

	out := Artifacts{
		Elements: filepath.Join(dir, ElementsFile),
		Summary:  filepath.Join(dir, SummaryFile),
	}
	if err := os.WriteFile(out.Elements, data, 0o644); err != nil {
		return Artifacts{}, fmt.Errorf("write %s: %w", out.Elements, err)
	}
	if err := os.WriteFile(out.Summary, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return Artifacts{}, fmt.Errorf("write %s: %w", out.Summary, err)
	}
	return out, nil
}

// EncodeRecords returns the records as an indented JSON array, keeping
// field order. A nil slice encodes as [].
func EncodeRecords(ordered []flow.Clickable) ([]byte, error) {
	if ordered == nil {
		ordered = []flow.Clickable{}
	}
	raw, err := json.Marshal(ordered)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return pretty.PrettyOptions(raw, &pretty.Options{Width: 80, Indent: "  "}), nil
}

// ReadRecords loads records written by Write.
func ReadRecords(path string) ([]flow.Clickable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []flow.Clickable
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}
