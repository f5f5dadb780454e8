// Package project saves and loads merge projects: the output path and the
// ordered list of inputs.
//
// Three encodings are supported and chosen by file extension:
//   - .yaml / .yml: YAML
//   - .json: JSON
//   - anything else: XML in the layout the desktop tool wrote
//     (<MergeState><OutputPath/><InputPaths><string/>...</InputPaths></MergeState>)
package project

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-pdfmerge/internal/inputlist"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Format string

const (
	XML  Format = "xml"
	YAML Format = "yaml"
	JSON Format = "json"
)

// ParseFormat maps a user supplied name to a Format. Unknown names are XML.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return YAML
	case "json":
		return JSON
	}
	return XML
}

func FormatFor(path string) Format {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

func (f Format) ContentType() string {
	switch f {
	case YAML:
		return "application/yaml"
	case JSON:
		return "application/json"
	}
	return "application/xml"
}

// State is the persisted form of a project. It is plain data.
type State struct {
	XMLName    xml.Name `xml:"MergeState" json:"-" yaml:"-"`
	OutputPath string   `xml:"OutputPath" json:"outputPath" yaml:"outputPath"`
	InputPaths []string `xml:"InputPaths>string" json:"inputPaths" yaml:"inputPaths"`
}

func FromList(list *inputlist.List, outputPath string) State {
	return State{OutputPath: outputPath, InputPaths: list.Snapshot()}
}

// Apply replaces the content of list with the saved inputs and returns the
// saved output path.
func (s State) Apply(list *inputlist.List) string {
	list.Replace(s.InputPaths)
	return s.OutputPath
}

func Encode(w io.Writer, s State, f Format) error {
	if s.InputPaths == nil {
		s.InputPaths = []string{}
	}
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("project: encoding yaml: %w", err)
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("project: encoding json: %w", err)
		}
		return nil
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("project: encoding xml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

var utf8BOM = []byte("\xef\xbb\xbf")

func Decode(r io.Reader, f Format) (State, error) {
	var s State
	data, err := io.ReadAll(r)
	if err != nil {
		return s, fmt.Errorf("project: reading: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	switch f {
	case YAML:
		err = yaml.Unmarshal(data, &s)
	case JSON:
		err = json.Unmarshal(data, &s)
	default:
		err = xml.Unmarshal(data, &s)
	}
	if err != nil {
		return State{}, fmt.Errorf("project: decoding %s: %w", f, err)
	}
	if s.InputPaths == nil {
		s.InputPaths = []string{}
	}
	return s, nil
}

// Save writes s to path in the format its extension selects. The file is
// only replaced once the encoding has succeeded.
func Save(path string, s State) error {
	var buf bytes.Buffer
	if err := Encode(&buf, s, FormatFor(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("project: saving %s: %w", path, err)
	}
	return nil
}

func Load(path string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		return State{}, fmt.Errorf("project: loading %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, FormatFor(path))
}
