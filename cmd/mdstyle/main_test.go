package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
	"pkt.systems/mdstyle"
	"pkt.systems/mdstyle/internal/config"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestOpenInputFileAndURL(t *testing.T) {
	path := writeTemp(t, "input.md", "hello")
	reader, closer, err := openInputs([]string{path})
	if err != nil {
		t.Fatalf("openInputs file: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ := io.ReadAll(reader)
	if string(buf) != "hello" {
		t.Fatalf("unexpected file content: %q", string(buf))
	}

	fileURL := "file://" + path
	reader, closer, err = openInputs([]string{fileURL})
	if err != nil {
		t.Fatalf("openInputs file URL: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ = io.ReadAll(reader)
	if string(buf) != "hello" {
		t.Fatalf("unexpected file URL content: %q", string(buf))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("stream"))
	}))
	defer srv.Close()
	reader, closer, err = openInputs([]string{srv.URL})
	if err != nil {
		t.Fatalf("openInputs http: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ = io.ReadAll(reader)
	if string(buf) != "stream" {
		t.Fatalf("unexpected http content: %q", string(buf))
	}
}

func TestOpenInputsConcatenates(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.md")
	second := filepath.Join(dir, "b.md")
	if err := os.WriteFile(first, []byte("one "), 0o644); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := os.WriteFile(second, []byte("two"), 0o644); err != nil {
		t.Fatalf("write second: %v", err)
	}
	text, err := readDocument([]string{first, second})
	if err != nil {
		t.Fatalf("readDocument concat: %v", err)
	}
	if text != "one two" {
		t.Fatalf("unexpected concatenated content: %q", text)
	}
}

func TestReadDocumentRejectsBinary(t *testing.T) {
	path := writeTemp(t, "blob.bin", "abc\x00def")
	if _, err := readDocument([]string{path}); err != mdstyle.ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()
	if _, err := readDocument([]string{srv.URL}); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected http status error, got %v", err)
	}
}

func TestWatchPaths(t *testing.T) {
	path := writeTemp(t, "doc.md", "# a")
	paths, err := watchPaths([]string{path, "file://" + path})
	if err != nil {
		t.Fatalf("watchPaths: %v", err)
	}
	if len(paths) != 2 || paths[0] != path || paths[1] != path {
		t.Fatalf("unexpected paths %v", paths)
	}
	if _, err := watchPaths(nil); err == nil {
		t.Fatalf("expected error without inputs")
	}
	if _, err := watchPaths([]string{"https://example.com/a.md"}); err == nil {
		t.Fatalf("expected error for URL input")
	}
}

func TestResolveTheme(t *testing.T) {
	th, err := resolveTheme("", "nord")
	if err != nil || th.Name() != "nord" {
		t.Fatalf("expected config theme, got %v %v", th, err)
	}
	th, err = resolveTheme("gruvbox", "nord")
	if err != nil || th.Name() != "gruvbox" {
		t.Fatalf("expected flag to win, got %v %v", th, err)
	}
	if _, err := resolveTheme("nope", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}

func TestResolveProfileAndWidth(t *testing.T) {
	var buf bytes.Buffer
	if got := resolveProfile(&buf, true); got != termenv.Ascii {
		t.Fatalf("expected ascii profile for boring output, got %v", got)
	}
	if got := resolveProfile(&buf, false); got != termenv.TrueColor {
		t.Fatalf("expected truecolor for non-terminal output, got %v", got)
	}
	if got := resolveWidth(42, &buf); got != 42 {
		t.Fatalf("expected explicit width, got %d", got)
	}
	if got := resolveWidth(0, &buf); got != 0 {
		t.Fatalf("expected no truncation for non-terminal output, got %d", got)
	}
}

func renderWith(t *testing.T, text, format string, opts ...mdstyle.Option) string {
	t.Helper()
	var out bytes.Buffer
	p := mdstyle.NewPainter(&out, mdstyle.WithProfile(termenv.TrueColor))
	p.SetDocument(text, true)
	mdstyle.New(p, opts...).Redraw()
	if err := writeDocument(&out, p, format); err != nil {
		t.Fatalf("writeDocument %s: %v", format, err)
	}
	return out.String()
}

func TestWriteDocumentJSONHasEveryCategory(t *testing.T) {
	got := renderWith(t, "# Title\n**b**\n", formatJSON)
	var decoded map[string][]mdstyle.Span
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	for _, c := range mdstyle.Categories() {
		if _, ok := decoded[c.String()]; !ok {
			t.Fatalf("expected key %q in %s", c, got)
		}
	}
	if len(decoded["h1"]) != 1 || decoded["h1"][0] != (mdstyle.Span{Line: 0, Start: 0, End: 7}) {
		t.Fatalf("unexpected h1 spans %v", decoded["h1"])
	}
	if len(decoded["bold"]) != 1 || decoded["bold"][0].Line != 1 {
		t.Fatalf("unexpected bold spans %v", decoded["bold"])
	}
	if !strings.HasPrefix(got, `{"h1":`) {
		t.Fatalf("expected categories in declared order, got %s", got)
	}
}

func TestWriteDocumentYAML(t *testing.T) {
	got := renderWith(t, "> q\n", formatYAML)
	var decoded map[string][]mdstyle.Span
	if err := yaml.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(decoded) != len(mdstyle.Categories()) {
		t.Fatalf("expected every category, got %d keys", len(decoded))
	}
	if len(decoded["quote"]) != 1 || decoded["quote"][0].End != 3 {
		t.Fatalf("unexpected quote spans %v", decoded["quote"])
	}
	if !strings.HasPrefix(got, "h1: []\n") {
		t.Fatalf("expected flow style empty list first, got %q", got)
	}
}

func TestWriteDocumentDisabledIsPlain(t *testing.T) {
	got := renderWith(t, "# Title\n", formatANSI, mdstyle.WithEnabled(false))
	if got != "# Title\n" {
		t.Fatalf("expected passthrough, got %q", got)
	}
	got = renderWith(t, "# Title\n", formatANSI)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected styled output, got %q", got)
	}
}

func TestWriteConfig(t *testing.T) {
	var out bytes.Buffer
	src := mdstyle.ConfigMap{"h2FontSize": "3em", "headerColor": "#123456"}
	if err := writeConfig(&out, src, "nord"); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}
	var decoded struct {
		Enabled bool              `yaml:"enabled"`
		Theme   string            `yaml:"theme"`
		Styles  map[string]string `yaml:"styles"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if !decoded.Enabled || decoded.Theme != "nord" {
		t.Fatalf("unexpected header %+v", decoded)
	}
	if got := decoded.Styles["h2"]; !strings.Contains(got, "font-size: 3em") || !strings.Contains(got, "color: #123456") {
		t.Fatalf("unexpected h2 style %q", got)
	}
	if len(decoded.Styles) != len(mdstyle.Categories()) {
		t.Fatalf("expected every category, got %v", decoded.Styles)
	}
}

func TestPrintCategoriesAndThemes(t *testing.T) {
	var out bytes.Buffer
	printCategories(&out)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(mdstyle.Categories()) {
		t.Fatalf("unexpected category listing %q", out.String())
	}
	if lines[0] != "h1" || lines[len(lines)-1] != "indent3\t(fixed)" {
		t.Fatalf("unexpected category listing %q", out.String())
	}
	out.Reset()
	printThemes(&out)
	if !strings.HasPrefix(out.String(), "default\n") {
		t.Fatalf("expected sorted themes, got %q", out.String())
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	loader := loadEmptyConfig(t)
	logger := newLogger(io.Discard, false)
	err := run(context.Background(), options{format: "html"}, nil, loader, logger)
	if _, ok := err.(usageError); !ok {
		t.Fatalf("expected usage error for bad format, got %v", err)
	}
	err = run(context.Background(), options{format: formatJSON, watch: true}, nil, loader, logger)
	if _, ok := err.(usageError); !ok {
		t.Fatalf("expected usage error for watch with json, got %v", err)
	}
	err = run(context.Background(), options{format: formatANSI, themeName: "nope"}, nil, loader, logger)
	if _, ok := err.(usageError); !ok {
		t.Fatalf("expected usage error for unknown theme, got %v", err)
	}
}

func TestRunWritesOutputFile(t *testing.T) {
	input := writeTemp(t, "doc.md", "## Sub\n- item\n")
	outPath := filepath.Join(t.TempDir(), "nested", "out.json")
	err := run(context.Background(), options{format: formatJSON, outPath: outPath}, []string{input}, loadEmptyConfig(t), newLogger(io.Discard, false))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	buf, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var decoded map[string][]mdstyle.Span
	if err := json.Unmarshal(buf, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded["h2"]) != 1 || len(decoded["listMarker"]) != 1 {
		t.Fatalf("unexpected output %s", buf)
	}
}

func TestRerendererAppliesConfigChange(t *testing.T) {
	input := writeTemp(t, "doc.md", "**b**\n")
	cfgPath := writeTemp(t, "config.yaml", "theme: default\n")
	loader, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	var out bytes.Buffer
	painter := mdstyle.NewPainter(&out, mdstyle.WithProfile(termenv.TrueColor))
	styler := mdstyle.New(painter, mdstyle.WithConfigSource(loader))
	r := &rerenderer{req: watchRequest{
		args:    []string{input},
		opts:    options{format: formatANSI},
		writer:  &out,
		painter: painter,
		styler:  styler,
		loader:  loader,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}}
	r.render()
	if got := out.String(); got != "\x1b[1m**b**\x1b[0m\n" {
		t.Fatalf("unexpected first render %q", got)
	}

	if err := os.WriteFile(cfgPath, []byte("enabled: false\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := loader.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := os.WriteFile(input, []byte("**c**\n"), 0o644); err != nil {
		t.Fatalf("rewrite input: %v", err)
	}
	out.Reset()
	r.markConfigChanged()
	r.render()
	if got := out.String(); got != "**c**\n" {
		t.Fatalf("expected plain render after disabling, got %q", got)
	}
}

func TestResetOutputTruncatesFile(t *testing.T) {
	path := writeTemp(t, "out.txt", "old contents")
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if err := resetOutput(f); err != nil {
		t.Fatalf("resetOutput: %v", err)
	}
	if _, err := f.WriteString("new"); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf, _ := os.ReadFile(path)
	if string(buf) != "new" {
		t.Fatalf("expected truncated file, got %q", buf)
	}
	if err := resetOutput(&bytes.Buffer{}); err != nil {
		t.Fatalf("expected no-op for buffers, got %v", err)
	}
}

func loadEmptyConfig(t *testing.T) *config.Loader {
	t.Helper()
	loader, err := config.Load(writeTemp(t, "config.yaml", "{}\n"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return loader
}

func TestRunToleratesWrongShapedConfig(t *testing.T) {
	loader, err := config.Load(writeTemp(t, "config.yaml", "enabled: maybe\ntheme: [a, b]\nstyles: hello\n"))
	if err != nil {
		t.Fatalf("expected wrong-shaped config to load, got %v", err)
	}
	input := writeTemp(t, "doc.md", "# H\n")
	outPath := filepath.Join(t.TempDir(), "out.json")
	var logs bytes.Buffer
	if err := run(context.Background(), options{format: formatJSON, outPath: outPath}, []string{input}, loader, newLogger(&logs, false)); err != nil {
		t.Fatalf("run: %v", err)
	}
	buf, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(buf), `"h1":[{"line":0,"start":0,"end":3}]`) {
		t.Fatalf("expected default styling to apply, got %s", buf)
	}
	logIgnored(newLogger(&logs, false), loader.Config())
	if !strings.Contains(logs.String(), "key=styles") {
		t.Fatalf("expected ignored keys to be logged, got %q", logs.String())
	}
}
