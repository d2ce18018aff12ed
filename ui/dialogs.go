package ui

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const pngExt = ".png"

// Dialogs is everything the shell needs to talk back to the user.
type Dialogs interface {
	Info(title, message string)
	Warn(title, message string)
	Error(err error)
	// SaveFile asks for a destination. onChosen is not called when the user
	// cancels.
	SaveFile(defaultName string, onChosen func(w io.WriteCloser, path string))
}

// WindowDialogs shows fyne dialogs on top of a window.
type WindowDialogs struct {
	win fyne.Window
}

// NewWindowDialogs returns Dialogs bound to win.
func NewWindowDialogs(win fyne.Window) *WindowDialogs {
	return &WindowDialogs{win: win}
}

func (d *WindowDialogs) Info(title, message string) {
	dialog.ShowInformation(title, message, d.win)
}

func (d *WindowDialogs) Warn(title, message string) {
	content := container.NewHBox(widget.NewIcon(theme.WarningIcon()), widget.NewLabel(message))
	dialog.ShowCustom(title, "OK", content, d.win)
}

func (d *WindowDialogs) Error(err error) {
	dialog.ShowError(err, d.win)
}

func (d *WindowDialogs) SaveFile(defaultName string, onChosen func(w io.WriteCloser, path string)) {
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, d.win)
			return
		}
		if wc == nil {
			return
		}
		wc, err = ensurePNG(wc)
		if err != nil {
			dialog.ShowError(err, d.win)
			return
		}
		onChosen(wc, wc.URI().Path())
	}, d.win)
	fd.SetFileName(defaultName)
	fd.Show()
}

// ensurePNG reopens wc under a ".png" name when the chosen name has no
// extension, removing the empty file the dialog already created.
func ensurePNG(wc fyne.URIWriteCloser) (fyne.URIWriteCloser, error) {
	u, changed, err := withPNGExtension(wc.URI())
	if err != nil || !changed {
		return wc, err
	}

	old := wc.URI()
	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", old.Path(), err)
	}
	if err := storage.Delete(old); err != nil {
		return nil, fmt.Errorf("remove %s: %w", old.Path(), err)
	}

	nw, err := storage.Writer(u)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", u.Path(), err)
	}
	return nw, nil
}

// withPNGExtension returns u with ".png" appended when its name has no
// extension. Names that carry any extension are left alone.
func withPNGExtension(u fyne.URI) (fyne.URI, bool, error) {
	if u.Extension() != "" {
		return u, false, nil
	}
	if u.Scheme() == "file" {
		return storage.NewFileURI(u.Path() + pngExt), true, nil
	}
	nu, err := storage.ParseURI(u.String() + pngExt)
	if err != nil {
		return nil, false, fmt.Errorf("add %s extension: %w", pngExt, err)
	}
	return nu, true, nil
}
