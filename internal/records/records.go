// Package records reads ranking event files into an event log source.
package records

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bonuspoints/thelist/core/eventlog"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/schema"
	"gopkg.in/yaml.v3"
)

// Required CSV columns. "position" and "date" are optional.
var requiredColumns = []string{"episode", "item", "op"}

// eventRecord is the on-disk shape of one event in JSON and YAML documents.
type eventRecord struct {
	Episode  int    `json:"episode" yaml:"episode"`
	Item     itemID `json:"item" yaml:"item"`
	Op       string `json:"op" yaml:"op"`
	Position int    `json:"position,omitempty" yaml:"position,omitempty"`
}

// itemID is an item identifier written either as a string or as an integer
// catalog id, as in [1942, "bonus-game"].
type itemID string

// UnmarshalJSON accepts a JSON string or integer.
func (id *itemID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = itemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("item id must be a string or an integer, got %s", data)
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("item id %s is not an integer", n)
	}
	*id = itemID(strconv.FormatInt(v, 10))
	return nil
}

// UnmarshalYAML accepts any scalar and keeps its text.
func (id *itemID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: item id must be a string or an integer", node.Line)
	}
	*id = itemID(node.Value)
	return nil
}

// episodeRecord declares an episode, optionally with its air date.
type episodeRecord struct {
	Index int    `json:"index" yaml:"index"`
	Date  string `json:"date,omitempty" yaml:"date,omitempty"`
}

// document is the JSON and YAML file layout.
type document struct {
	Episodes []episodeRecord `json:"episodes" yaml:"episodes"`
	Events   []eventRecord   `json:"events" yaml:"events"`
}

// Load reads the file at path in the given format.
func Load(path string, format schema.InputFormat) (eventlog.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return eventlog.Source{}, fmt.Errorf("error opening input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	src, err := Read(f, format)
	if err != nil {
		return eventlog.Source{}, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// Read decodes records from r in the given format.
func Read(r io.Reader, format schema.InputFormat) (eventlog.Source, error) {
	switch format {
	case schema.CSVInput:
		return readCSV(r)
	case schema.JSONInput:
		return readJSON(r)
	case schema.YAMLInput:
		return readYAML(r)
	case schema.ListsInput:
		return readLists(r)
	default:
		return eventlog.Source{}, fmt.Errorf("unsupported input format %q", format)
	}
}

// readCSV reads rows of episode,item,op[,position][,date]. A row with an empty item and op
// only declares its episode, which is how an episode without events is expressed.
func readCSV(r io.Reader) (eventlog.Source, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return eventlog.Source{}, fmt.Errorf("error reading CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return eventlog.Source{}, fmt.Errorf("column %q not found in CSV. Available columns: %v", name, header)
		}
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var src eventlog.Source
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return eventlog.Source{}, fmt.Errorf("error reading CSV: %w", err)
		}

		episode, err := strconv.Atoi(field(row, "episode"))
		if err != nil {
			return eventlog.Source{}, fmt.Errorf("line %d: invalid episode %q", line, field(row, "episode"))
		}
		if d := field(row, "date"); d != "" {
			date, err := ParseDate(d)
			if err != nil {
				return eventlog.Source{}, fmt.Errorf("line %d: %w", line, err)
			}
			src.Episodes = append(src.Episodes, schema.Episode{Index: episode, Date: date})
		}

		item, op := field(row, "item"), field(row, "op")
		if item == "" && op == "" {
			src.Episodes = append(src.Episodes, schema.Episode{Index: episode})
			continue
		}

		position := 0
		if p := field(row, "position"); p != "" {
			if position, err = strconv.Atoi(p); err != nil {
				return eventlog.Source{}, fmt.Errorf("line %d: invalid position %q", line, p)
			}
		}
		src.Events = append(src.Events, schema.RankEvent{
			Episode:  episode,
			Item:     item,
			Op:       schema.OpKind(strings.ToLower(op)),
			Position: position,
		})
	}
	return src, nil
}

// readJSON accepts either a document with episodes and events or a bare array of events.
func readJSON(r io.Reader) (eventlog.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return eventlog.Source{}, err
	}
	var doc document
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &doc.Events)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return eventlog.Source{}, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return doc.source()
}

// readYAML accepts the same layouts as readJSON.
func readYAML(r io.Reader) (eventlog.Source, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return eventlog.Source{}, nil
		}
		return eventlog.Source{}, fmt.Errorf("failed to decode YAML: %w", err)
	}

	var doc document
	var err error
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		err = node.Decode(&doc.Events)
	} else {
		err = node.Decode(&doc)
	}
	if err != nil {
		return eventlog.Source{}, fmt.Errorf("failed to decode YAML: %w", err)
	}
	return doc.source()
}

// readLists reads a JSON object of date to complete ranked list and converts it to events.
func readLists(r io.Reader) (eventlog.Source, error) {
	var raw map[string][]itemID
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return eventlog.Source{}, fmt.Errorf("failed to decode lists: %w", err)
	}
	lists := make([]eventlog.DatedList, 0, len(raw))
	for key, items := range raw {
		date, err := ParseDate(key)
		if err != nil {
			return eventlog.Source{}, err
		}
		ids := make([]string, len(items))
		for i, id := range items {
			ids[i] = string(id)
		}
		lists = append(lists, eventlog.DatedList{Date: date, Items: ids})
	}
	return eventlog.FromSnapshots(lists)
}

func (d document) source() (eventlog.Source, error) {
	var src eventlog.Source
	for _, ep := range d.Episodes {
		e := schema.Episode{Index: ep.Index}
		if ep.Date != "" {
			date, err := ParseDate(ep.Date)
			if err != nil {
				return eventlog.Source{}, fmt.Errorf("episode %d: %w", ep.Index, err)
			}
			e.Date = date
		}
		src.Episodes = append(src.Episodes, e)
	}
	for _, ev := range d.Events {
		src.Events = append(src.Events, schema.RankEvent{
			Episode:  ev.Episode,
			Item:     string(ev.Item),
			Op:       schema.OpKind(strings.ToLower(ev.Op)),
			Position: ev.Position,
		})
	}
	return src, nil
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(contract.DateFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected %s", s, contract.DateFormat)
	}
	return t, nil
}
