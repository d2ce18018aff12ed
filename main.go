package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/openclaw/webqr/config"
	"github.com/openclaw/webqr/qr"
	"github.com/openclaw/webqr/store"
	"github.com/openclaw/webqr/ui"
)

var version = "v0.1.0"

const appID = "io.openclaw.webqr"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, envFile string

	root := &cobra.Command{
		Use:   "webqr",
		Short: "Turn a web address into a QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(configPath, envFile)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "webqr.yaml", "Path to config file")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a dotenv file")

	// --- generate command ----------------------------------------------------
	var output string
	var quiet bool
	generateCmd := &cobra.Command{
		Use:   "generate [address]",
		Short: "Generate a QR code without opening a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var term io.Writer = cmd.OutOrStdout()
			if quiet {
				term = nil
			}
			return runGenerate(configPath, envFile, args[0], output, term, cmd.OutOrStdout())
		},
	}
	generateCmd.Flags().StringVarP(&output, "output", "o", "", "Write the PNG here instead of the output directory")
	generateCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not draw the QR code in the terminal")
	root.AddCommand(generateCmd)

	// --- scan command --------------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "scan [file]",
		Short: "Print the text stored in a QR code image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := qr.ScanFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	})

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "webqr %s\n", version)
		},
	})

	return root
}

// setup loads config and builds the logger shared by every command.
func setup(configPath, envFile string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, newLogger(cfg.LogLevel, os.Stderr), nil
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// runWindow opens the desktop window and blocks until it is closed.
func runWindow(configPath, envFile string) error {
	cfg, log, err := setup(configPath, envFile)
	if err != nil {
		return err
	}
	slog.SetDefault(log)
	log.Info("starting webqr", "version", version, "output_dir", cfg.OutputDir, "auto_save", cfg.AutoSave)

	a := app.NewWithID(appID)
	win := a.NewWindow(ui.Title)

	shell := ui.NewShell(
		ui.Options{PreviewSize: cfg.PreviewSize, AutoSave: cfg.AutoSave},
		store.New(cfg.OutputDir),
		ui.NewWindowDialogs(win),
		log,
	)
	win.SetContent(shell.Content())
	win.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	win.SetFixedSize(true)
	win.CenterOnScreen()
	win.ShowAndRun()

	log.Info("goodbye")
	return nil
}

// runGenerate is the headless version of the Generate button. term receives
// the terminal rendering and may be nil; out receives the saved path.
func runGenerate(configPath, envFile, address, output string, term, out io.Writer) error {
	cfg, log, err := setup(configPath, envFile)
	if err != nil {
		return err
	}
	return generate(cfg, log, address, output, term, out)
}

func generate(cfg *config.Config, log *slog.Logger, address, output string, term, out io.Writer) error {
	payload, err := qr.Normalize(address)
	if err != nil {
		return err
	}

	img, err := qr.Encode(payload)
	if err != nil {
		return err
	}
	log.Debug("qr code generated", "payload", payload)

	if term != nil {
		qr.WriteTerminal(term, payload)
	}

	path := output
	if path != "" {
		if err := store.SaveFile(path, img); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	} else {
		path, err = store.New(cfg.OutputDir).AutoSave(img, payload)
		if err != nil {
			return err
		}
	}

	log.Info("qr code saved", "path", path)
	fmt.Fprintln(out, path)
	return nil
}
