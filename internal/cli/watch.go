package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/M1tsumi/ZeroProto/internal/hash"
	"github.com/M1tsumi/ZeroProto/internal/logging"
)

type watchFlags struct {
	input   string
	output  string
	pkg     string
	include []string
	exclude []string
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch schema files and recompile on change",
		Long: `Watch a schema directory and recompile changed .zp files.

An initial compile runs over the whole schema set, then the watcher
recompiles individual files as they change. Saves that do not change the
schema content are skipped via source fingerprints. The loop runs until
interrupted.

Examples:
  zeroproto watch -i schemas/ -o generated/
  zeroproto watch -i schemas/ -o generated/ --exclude "drafts/**"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, flags)
		},
	}

	addSchemaFlags(cmd, &flags.input, &flags.include, &flags.exclude)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "generated", "output directory for generated code")
	cmd.Flags().StringVar(&flags.pkg, "package", "", "package name for generated code (default: output directory name)")

	return cmd
}

func runWatch(cmd *cobra.Command, flags *watchFlags) error {
	logger := logging.Default()

	filters := Filters{Include: flags.include, Exclude: flags.exclude}
	if err := filters.Validate(); err != nil {
		return err
	}

	info, err := os.Stat(flags.input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: watch input must be a directory", ErrUsage)
	}

	renderer := NewRenderer(shouldColor(cmd))
	loop := &watchLoop{
		cmd:          cmd,
		renderer:     renderer,
		input:        flags.input,
		output:       flags.output,
		pkg:          flags.pkg,
		filters:      filters,
		fingerprints: make(map[string]uint64),
	}

	// Initial compile. Validation failures are reported but do not stop the
	// watch; the loop picks the file up again on the next save.
	included, _, err := DiscoverSchemas(flags.input, filters)
	if err != nil {
		return err
	}
	for _, path := range included {
		loop.compile(path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchRecursive(watcher, flags.input); err != nil {
		return err
	}

	logger.Info("watching for schema changes", logging.FieldInput, flags.input)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return loop.run(ctx, watcher)
}

// watchLoop carries the state of one watch session: the compile target and
// the last-seen fingerprint per schema path.
type watchLoop struct {
	cmd          *cobra.Command
	renderer     *Renderer
	input        string
	output       string
	pkg          string
	filters      Filters
	fingerprints map[string]uint64
}

func (w *watchLoop) run(ctx context.Context, watcher *fsnotify.Watcher) error {
	logger := logging.Default()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", logging.FieldError, err)
		}
	}
}

func (w *watchLoop) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	// New directories need their own watch so nested schemas are seen.
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Op.Has(fsnotify.Create) {
			_ = watchRecursive(watcher, event.Name)
		}

		return
	}

	if !strings.HasSuffix(event.Name, schemaExt) {
		return
	}

	rel, err := filepath.Rel(w.input, event.Name)
	if err != nil {
		rel = event.Name
	}
	if !w.filters.Match(rel) {
		return
	}

	w.compile(event.Name)
}

// compile recompiles one schema path, skipping content that has not changed
// since the last successful compile in this session.
func (w *watchLoop) compile(path string) {
	logger := logging.Default()

	src, err := os.ReadFile(path)
	if err != nil {
		// Editors often rename-and-replace; the follow-up event carries the
		// readable file.
		logger.Debug("schema unreadable", logging.FieldPath, path, logging.FieldError, err)

		return
	}

	fingerprint := hash.Fingerprint(src)
	if last, ok := w.fingerprints[path]; ok && last == fingerprint {
		logger.Debug("schema content unchanged", logging.FieldPath, path)

		return
	}

	if err := compileOne(w.cmd, w.renderer, path, w.output, w.pkg); err != nil {
		return
	}

	w.fingerprints[path] = fingerprint
}

// watchRecursive registers dir and every directory below it.
func watchRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}

		return nil
	})
}
