package dialogs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// FyneDialogs shows dialogs over a fyne window. Methods may be called from
// any goroutine except the UI goroutine, which they would block.
type FyneDialogs struct {
	window fyne.Window
}

func NewFyneDialogs(window fyne.Window) *FyneDialogs {
	return &FyneDialogs{window: window}
}

type modal interface {
	Show()
	Hide()
}

// present builds and shows a dialog on the UI goroutine, then waits for
// the dialog to call done or for ctx to end.
func (d *FyneDialogs) present(ctx context.Context, build func(done func()) modal) error {
	closed := make(chan struct{})
	var once sync.Once
	done := func() { once.Do(func() { close(closed) }) }

	shown := make(chan modal, 1)
	fyne.Do(func() {
		m := build(done)
		m.Show()
		shown <- m
	})

	select {
	case <-closed:
		return nil
	case <-ctx.Done():
		go func() {
			m := <-shown
			fyne.Do(m.Hide)
		}()
		return ctx.Err()
	}
}

func (d *FyneDialogs) Message(ctx context.Context, opts MessageOptions) error {
	return d.present(ctx, func(done func()) modal {
		content := container.NewHBox(
			widget.NewIcon(kindIcon(opts.Kind)),
			widget.NewLabel(opts.Message),
		)
		dlg := dialog.NewCustom(opts.Title, labelOr(opts.OkLabel, "OK"), content, d.window)
		dlg.SetOnClosed(done)
		return dlg
	})
}

func (d *FyneDialogs) Ask(ctx context.Context, opts AskOptions) (bool, error) {
	return d.question(ctx, opts, "Yes", "No")
}

func (d *FyneDialogs) Confirm(ctx context.Context, opts AskOptions) (bool, error) {
	return d.question(ctx, opts, "OK", "Cancel")
}

func (d *FyneDialogs) question(ctx context.Context, opts AskOptions, ok, cancel string) (bool, error) {
	// buffered so a callback arriving after ctx ended never blocks or races
	answer := make(chan bool, 1)
	err := d.present(ctx, func(done func()) modal {
		content := container.NewHBox(
			widget.NewIcon(kindIcon(opts.Kind)),
			widget.NewLabel(opts.Message),
		)
		dlg := dialog.NewCustomConfirm(opts.Title,
			labelOr(opts.OkLabel, ok),
			labelOr(opts.CancelLabel, cancel),
			content,
			func(confirmed bool) {
				answer <- confirmed
				done()
			},
			d.window)
		return dlg
	})
	if err != nil {
		return false, err
	}
	return <-answer, nil
}

func (d *FyneDialogs) Open(ctx context.Context, opts OpenOptions) (string, error) {
	var (
		path    string
		pickErr error
	)

	err := d.present(ctx, func(done func()) modal {
		if opts.Directory {
			dlg := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
				if uri != nil {
					path = uri.Path()
				}
				pickErr = err
				done()
			}, d.window)
			startIn(dlg, opts.DefaultPath)
			return dlg
		}

		dlg := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if r != nil {
				path = r.URI().Path()
				r.Close()
			}
			pickErr = err
			done()
		}, d.window)
		if exts := extensions(opts.Filters); len(exts) > 0 {
			dlg.SetFilter(storage.NewExtensionFileFilter(exts))
		}
		startIn(dlg, opts.DefaultPath)
		return dlg
	})
	if err != nil {
		return "", err
	}
	return path, pickErr
}

// Save returns the chosen path. The toolkit creates the file when the
// user confirms, so an empty file exists at the returned path.
func (d *FyneDialogs) Save(ctx context.Context, opts SaveOptions) (string, error) {
	var (
		path    string
		pickErr error
	)

	err := d.present(ctx, func(done func()) modal {
		dlg := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			if w != nil {
				path = w.URI().Path()
				w.Close()
			}
			pickErr = err
			done()
		}, d.window)
		if exts := extensions(opts.Filters); len(exts) > 0 {
			dlg.SetFilter(storage.NewExtensionFileFilter(exts))
		}
		if opts.DefaultPath != "" && !isDir(opts.DefaultPath) {
			dlg.SetFileName(filepath.Base(opts.DefaultPath))
		}
		startIn(dlg, opts.DefaultPath)
		return dlg
	})
	if err != nil {
		return "", err
	}
	return path, pickErr
}

// startIn points a picker at defaultPath, or at its directory when it
// names a file. Unusable paths are ignored.
func startIn(dlg *dialog.FileDialog, defaultPath string) {
	if defaultPath == "" {
		return
	}
	dir := defaultPath
	if !isDir(dir) {
		dir = filepath.Dir(dir)
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return
	}
	dlg.SetLocation(lister)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func kindIcon(kind MessageKind) fyne.Resource {
	switch kind {
	case KindWarning:
		return theme.WarningIcon()
	case KindError:
		return theme.ErrorIcon()
	default:
		return theme.InfoIcon()
	}
}

// ErrNoWindow is returned by the plugin when no window is available.
var ErrNoWindow = errors.New("dialogs need a window")
