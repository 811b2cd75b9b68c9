package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driven"
	"github.com/custodia-labs/salesboard/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.RowSource = (*Source)(nil)

// MaxFileSize is the largest file accepted, 10 MB.
const MaxFileSize = 10 * 1024 * 1024

// Config keys understood by the file source.
const (
	ConfigFormat    = "format"
	ConfigDelimiter = "delimiter"
)

// Format is a supported file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source reads raw rows from a local file.
type Source struct {
	source    domain.Source
	path      string
	format    Format
	delimiter rune

	mu   sync.Mutex
	stop context.CancelFunc
}

// Builder returns a driven.RowSourceBuilder for file sources.
func Builder() driven.RowSourceBuilder {
	return func(source domain.Source) (driven.RowSource, error) {
		return New(source)
	}
}

// New creates a file source for source.Location.
func New(source domain.Source) (*Source, error) {
	path, err := filepath.Abs(source.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	format, err := detectFormat(path, source.Config[ConfigFormat])
	if err != nil {
		return nil, err
	}

	delimiter := ','
	if format == FormatTSV {
		delimiter = '\t'
	}
	if d, ok := source.Config[ConfigDelimiter]; ok && d != "" {
		delimiter, err = parseDelimiter(d)
		if err != nil {
			return nil, err
		}
	}

	return &Source{
		source:    source,
		path:      path,
		format:    format,
		delimiter: delimiter,
	}, nil
}

func detectFormat(path, override string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if override != "" {
		ext = strings.ToLower(override)
	}

	switch ext {
	case "csv", "txt":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "xls":
		return "", fmt.Errorf("%w: %s spreadsheets are not supported, export to CSV", domain.ErrUnsupportedType, ext)
	default:
		return "", fmt.Errorf("%w: file format %q", domain.ErrUnsupportedType, ext)
	}
}

func parseDelimiter(d string) (rune, error) {
	switch strings.ToLower(d) {
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	}

	r, size := utf8.DecodeRuneInString(d)
	if size != len(d) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("%w: delimiter %q", domain.ErrInvalidInput, d)
	}
	return r, nil
}

// Type returns the source type.
func (s *Source) Type() domain.SourceType {
	return domain.SourceTypeFile
}

// Source returns the configuration this source was built from.
func (s *Source) Source() domain.Source {
	return s.source
}

// Path returns the absolute file path.
func (s *Source) Path() string {
	return s.path
}

// Format returns the detected file format.
func (s *Source) Format() Format {
	return s.format
}

// Capabilities returns what this source supports.
func (s *Source) Capabilities() driven.RowSourceCapabilities {
	return driven.RowSourceCapabilities{
		SupportsWatch: true,
	}
}

// Fetch reads and parses the whole file.
// CSV and TSV files yield one map per data line keyed by the trimmed
// header cells, with every cell kept as a string. JSON files are
// returned as decoded, with numbers as json.Number.
func (s *Source) Fetch(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, s.path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: file size must be under %d MB", domain.ErrInvalidInput, MaxFileSize/(1024*1024))
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	logger.Debug("Read %d bytes from %s (%s)", len(data), s.path, s.format)

	if s.format == FormatJSON {
		return parseJSON(data)
	}
	return parseDelimited(data, s.delimiter)
}

// parseDelimited turns delimited text into rows keyed by the header line.
// Short rows leave trailing columns absent; extra cells are dropped.
// Lines whose cells are all blank are skipped.
func parseDelimited(data []byte, delimiter rune) ([]any, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([]any, 0)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return rows, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse header: %v", domain.ErrInvalidInput, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse rows: %v", domain.ErrInvalidInput, err)
		}

		row := make(map[string]any, len(header))
		blank := true
		for i, cell := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = cell
			if strings.TrimSpace(cell) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: parse json: %v", domain.ErrInvalidInput, err)
	}
	return payload, nil
}

// Watch reports a change each time the file is created or written.
// Bursts of events collapse into a single pending notification.
// The parent directory is watched so editors that replace the file
// on save are still seen.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.stop != nil {
		s.stop()
	}
	s.stop = cancel
	s.mu.Unlock()

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.handleFsEvent(event) {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watch error for %s: %v", s.path, err)
			}
		}
	}()

	return changes, nil
}

// handleFsEvent reports whether an event changes the watched file.
// Removes and renames are ignored; a replacement file arrives as a Create.
func (s *Source) handleFsEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != s.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}

// Close stops any active watch.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	return nil
}
