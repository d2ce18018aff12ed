package ui

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/openclaw/webqr/qr"
	"github.com/openclaw/webqr/store"
)

type shown struct {
	kind    string
	title   string
	message string
}

type fakeDialogs struct {
	shown []shown

	// savePath is handed to SaveFile callbacks; empty means the user cancels.
	savePath   string
	saved      bytes.Buffer
	closeErr   error
	askedNames []string
}

func (d *fakeDialogs) Info(title, message string) {
	d.shown = append(d.shown, shown{"info", title, message})
}

func (d *fakeDialogs) Warn(title, message string) {
	d.shown = append(d.shown, shown{"warn", title, message})
}

func (d *fakeDialogs) Error(err error) {
	d.shown = append(d.shown, shown{"error", "Error", err.Error()})
}

func (d *fakeDialogs) SaveFile(defaultName string, onChosen func(w io.WriteCloser, path string)) {
	d.askedNames = append(d.askedNames, defaultName)
	if d.savePath == "" {
		return
	}
	onChosen(&bufferCloser{Buffer: &d.saved, err: d.closeErr}, d.savePath)
}

func (d *fakeDialogs) last() shown {
	if len(d.shown) == 0 {
		return shown{}
	}
	return d.shown[len(d.shown)-1]
}

type bufferCloser struct {
	*bytes.Buffer
	err error
}

func (b *bufferCloser) Close() error { return b.err }

var fixedNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.Local)

func newTestShell(t *testing.T, opts Options) (*Shell, *fakeDialogs, string) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	dir := filepath.Join(t.TempDir(), "qr_codes")
	st := store.New(dir)
	st.Now = func() time.Time { return fixedNow }

	d := &fakeDialogs{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewShell(opts, st, d, log)
	s.Content()
	return s, d, dir
}

func TestGenerate_EmptyInput(t *testing.T) {
	s, d, dir := newTestShell(t, Options{AutoSave: true})

	for _, in := range []string{"", "   "} {
		s.entry.SetText(in)
		test.Tap(s.generateBtn)

		if got := d.last(); got.kind != "warn" {
			t.Fatalf("input %q: expected warning, got %+v", in, got)
		}
	}

	if s.full != nil {
		t.Error("no image should be generated")
	}
	if !s.saveBtn.Disabled() {
		t.Error("save must stay disabled")
	}
	if _, err := os.Stat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output dir should not exist, stat err = %v", err)
	}
}

func TestGenerate_AutoSaves(t *testing.T) {
	s, d, dir := newTestShell(t, Options{AutoSave: true})

	test.Type(s.entry, "example.com")
	test.Tap(s.generateBtn)

	want := filepath.Join(dir, "example.com_20261019_143000.png")
	got := d.last()
	if got.kind != "info" || !strings.Contains(got.message, want) {
		t.Fatalf("expected success naming %s, got %+v", want, got)
	}

	if s.saveBtn.Disabled() {
		t.Error("save should be enabled after generation")
	}
	if !s.preview.Visible() || s.placeholder.Visible() {
		t.Error("preview should replace the placeholder")
	}
	if b := s.preview.Image.Bounds(); b.Dx() > qr.DefaultPreviewSize || b.Dy() > qr.DefaultPreviewSize {
		t.Errorf("preview is %dx%d", b.Dx(), b.Dy())
	}

	payload, err := qr.ScanFile(want)
	if err != nil {
		t.Fatalf("ScanFile() error: %v", err)
	}
	if payload != "https://example.com" {
		t.Errorf("saved payload = %q", payload)
	}
}

func TestGenerate_EnterKey(t *testing.T) {
	s, d, _ := newTestShell(t, Options{})

	s.entry.SetText("http://already-has-scheme.test")
	s.entry.TypedKey(&fyne.KeyEvent{Name: fyne.KeyReturn})

	if got := d.last(); got.kind != "info" || got.message != "QR code generated!" {
		t.Fatalf("unexpected dialog: %+v", got)
	}

	payload, err := qr.Decode(s.full)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if payload != "http://already-has-scheme.test" {
		t.Errorf("payload = %q", payload)
	}
}

func TestGenerate_AutoSaveFailureStillSucceeds(t *testing.T) {
	s, d, dir := newTestShell(t, Options{AutoSave: true})
	if err := os.WriteFile(dir, []byte("blocker"), 0o644); err != nil {
		t.Fatal(err)
	}

	s.entry.SetText("example.com")
	s.Generate()

	if got := d.last(); got.kind != "info" || got.message != "QR code generated!" {
		t.Fatalf("expected plain success, got %+v", got)
	}
	if s.saveBtn.Disabled() {
		t.Error("save should be enabled")
	}
}

func TestGenerate_EncodeFailureKeepsState(t *testing.T) {
	s, d, _ := newTestShell(t, Options{})

	s.entry.SetText("example.com")
	s.Generate()
	before := s.full
	beforePreview := s.preview.Image

	s.entry.SetText(strings.Repeat("x", 4000))
	s.Generate()

	if got := d.last(); got.kind != "error" {
		t.Fatalf("expected error dialog, got %+v", got)
	}
	if s.full != before || s.preview.Image != beforePreview {
		t.Error("failed generation must not replace the image")
	}
	if s.saveBtn.Disabled() {
		t.Error("failed generation must not disable save")
	}
}

func TestSave_DisabledBeforeGeneration(t *testing.T) {
	s, d, _ := newTestShell(t, Options{})
	d.savePath = "/tmp/never.png"

	test.Tap(s.saveBtn)

	if len(d.shown) != 0 || len(d.askedNames) != 0 {
		t.Errorf("disabled save must do nothing, got %+v", d.shown)
	}

	s.Save()
	if got := d.last(); got.kind != "warn" {
		t.Errorf("expected warning without a generated code, got %+v", got)
	}
}

func TestSave_ReencodesCurrentInput(t *testing.T) {
	s, d, _ := newTestShell(t, Options{})

	s.entry.SetText("example.com")
	s.Generate()

	s.entry.SetText("  example.org  ")
	d.savePath = "/chosen/code.png"
	test.Tap(s.saveBtn)

	if got := d.last(); got.kind != "info" || !strings.Contains(got.message, "/chosen/code.png") {
		t.Fatalf("unexpected dialog: %+v", got)
	}
	if len(d.askedNames) != 1 || d.askedNames[0] != "example.org_20261019_143000.png" {
		t.Errorf("default names = %v", d.askedNames)
	}

	img, err := png.Decode(&d.saved)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	payload, err := qr.Decode(img)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if payload != "https://example.org" {
		t.Errorf("saved payload = %q", payload)
	}
}

func TestSave_Cancelled(t *testing.T) {
	s, d, _ := newTestShell(t, Options{})

	s.entry.SetText("example.com")
	s.Generate()
	n := len(d.shown)

	s.Save()

	if len(d.shown) != n {
		t.Errorf("cancel should show nothing, got %+v", d.shown[n:])
	}
	if d.saved.Len() != 0 {
		t.Error("nothing should be written")
	}
}

func TestSave_WriteFailure(t *testing.T) {
	s, d, _ := newTestShell(t, Options{})

	s.entry.SetText("example.com")
	s.Generate()

	d.savePath = "/chosen/code.png"
	d.closeErr = errors.New("disk full")
	s.Save()

	got := d.last()
	if got.kind != "error" || !strings.Contains(got.message, "disk full") {
		t.Fatalf("expected error dialog, got %+v", got)
	}
	if s.saveBtn.Disabled() {
		t.Error("save should stay enabled")
	}
}

func TestSave_EmptyInputAfterGeneration(t *testing.T) {
	s, d, _ := newTestShell(t, Options{})

	s.entry.SetText("example.com")
	s.Generate()

	s.entry.SetText("")
	d.savePath = "/chosen/code.png"
	s.Save()

	if got := d.last(); got.kind != "warn" {
		t.Fatalf("expected warning, got %+v", got)
	}
	if len(d.askedNames) != 0 {
		t.Error("save dialog should not open for empty input")
	}
}
