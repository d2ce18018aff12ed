// Package ui is the desktop front end: an address entry, a generate button,
// the QR preview and a save button.
package ui

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/openclaw/webqr/qr"
	"github.com/openclaw/webqr/store"
)

// Title is used for the window and the heading.
const Title = "Web Address QR Code Generator"

// Options controls the shell's behavior.
type Options struct {
	PreviewSize int
	AutoSave    bool
}

// Shell owns the widgets and the current QR code. All methods run on the
// fyne event thread.
type Shell struct {
	opts    Options
	store   *store.Store
	dialogs Dialogs
	log     *slog.Logger

	entry       *widget.Entry
	generateBtn *widget.Button
	saveBtn     *widget.Button
	preview     *canvas.Image
	placeholder *widget.Label

	// full is the last successfully generated image at full resolution.
	full image.Image
}

// NewShell builds the widgets. The save button starts disabled.
func NewShell(opts Options, st *store.Store, dialogs Dialogs, log *slog.Logger) *Shell {
	if opts.PreviewSize <= 0 {
		opts.PreviewSize = qr.DefaultPreviewSize
	}

	s := &Shell{
		opts:    opts,
		store:   st,
		dialogs: dialogs,
		log:     log,
	}

	s.entry = widget.NewEntry()
	s.entry.SetPlaceHolder("example.com")
	s.entry.OnSubmitted = func(string) { s.Generate() }

	s.generateBtn = widget.NewButtonWithIcon("Generate QR code", theme.ConfirmIcon(), s.Generate)
	s.generateBtn.Importance = widget.HighImportance

	s.saveBtn = widget.NewButtonWithIcon("Save QR code", theme.DocumentSaveIcon(), s.Save)
	s.saveBtn.Disable()

	s.preview = canvas.NewImageFromImage(nil)
	s.preview.FillMode = canvas.ImageFillContain
	s.preview.Hide()

	s.placeholder = widget.NewLabel("The QR code will appear here")
	s.placeholder.Alignment = fyne.TextAlignCenter

	return s
}

// Content lays out the window body.
func (s *Shell) Content() fyne.CanvasObject {
	heading := widget.NewLabelWithStyle(Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	top := container.NewVBox(
		heading,
		widget.NewLabel("Web address:"),
		s.entry,
		container.NewCenter(s.generateBtn),
	)

	size := float32(s.opts.PreviewSize)
	bg := canvas.NewRectangle(color.White)
	bg.SetMinSize(fyne.NewSize(size, size))
	region := container.NewStack(bg, container.NewCenter(s.placeholder), container.NewCenter(s.preview))

	return container.NewPadded(container.NewBorder(top, container.NewCenter(s.saveBtn), nil, nil, region))
}

// Generate reads the entry, encodes it, shows the preview and saves a copy
// to the output directory. A failed encode leaves the previous preview and
// the save button untouched.
func (s *Shell) Generate() {
	payload, err := qr.Normalize(s.entry.Text)
	if err != nil {
		s.warnInput(err)
		return
	}

	img, err := qr.Encode(payload)
	if err != nil {
		s.log.Error("qr generation failed", "payload", payload, "error", err)
		s.dialogs.Error(fmt.Errorf("generating QR code: %w", err))
		return
	}

	s.show(img)
	s.saveBtn.Enable()
	s.log.Info("qr code generated", "payload", payload)

	if path := s.autoSave(img, payload); path != "" {
		s.dialogs.Info("Success", fmt.Sprintf("QR code generated and saved!\n\nLocation:\n%s", path))
		return
	}
	s.dialogs.Info("Success", "QR code generated!")
}

// autoSave returns the saved path, or "" when saving is off or failed.
// Failures are only logged.
func (s *Shell) autoSave(img image.Image, payload string) string {
	if !s.opts.AutoSave {
		return ""
	}
	path, err := s.store.AutoSave(img, payload)
	if err != nil {
		s.log.Warn("auto save failed", "dir", s.store.Dir, "error", err)
		return ""
	}
	s.log.Info("qr code saved", "path", path)
	return path
}

// Save encodes the current entry again and writes it to a file the user
// picks.
func (s *Shell) Save() {
	if s.full == nil {
		s.dialogs.Warn("Warning", "Generate a QR code first.")
		return
	}

	payload, err := qr.Normalize(s.entry.Text)
	if err != nil {
		s.warnInput(err)
		return
	}

	img, err := qr.Encode(payload)
	if err != nil {
		s.log.Error("qr save failed", "payload", payload, "error", err)
		s.dialogs.Error(fmt.Errorf("saving QR code: %w", err))
		return
	}

	s.dialogs.SaveFile(s.store.FileNameFor(payload), func(w io.WriteCloser, path string) {
		err := store.WritePNG(w, img)
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			s.log.Error("qr save failed", "path", path, "error", err)
			s.dialogs.Error(fmt.Errorf("saving QR code: %w", err))
			return
		}
		s.log.Info("qr code saved", "path", path)
		s.dialogs.Info("Success", fmt.Sprintf("QR code saved:\n%s", path))
	})
}

func (s *Shell) show(img image.Image) {
	s.full = img

	p := qr.Preview(img, s.opts.PreviewSize)
	b := p.Bounds()
	s.preview.Image = p
	s.preview.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	s.placeholder.Hide()
	s.preview.Show()
	s.preview.Refresh()
}

func (s *Shell) warnInput(err error) {
	if errors.Is(err, qr.ErrEmptyInput) {
		s.dialogs.Warn("Warning", "Please enter a web address.")
		return
	}
	s.dialogs.Warn("Warning", err.Error())
}
