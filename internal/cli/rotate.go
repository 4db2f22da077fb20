package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/philipp01105/nlogconf/appender/fileappender"
)

type rotateOptions struct {
	prefix    string
	extension string
	maxFiles  int
	dryRun    bool
}

func newRotateCommand() *cobra.Command {
	opts := rotateOptions{}

	cmd := &cobra.Command{
		Use:   "rotate dir",
		Short: "Run one rotation pass over a log directory",
		Long: `Run the rotation a file appender performs on start: files beyond
max-files are deleted oldest first, the rest move up one index and a fresh
empty current file is created.

With --dry-run the pass runs against an in-memory copy of the directory
listing and only the resulting layout is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRotate(cmd.OutOrStdout(), afero.NewOsFs(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.prefix, "prefix", fileappender.DefaultPrefix, "file name prefix")
	cmd.Flags().StringVar(&opts.extension, "extension", fileappender.DefaultExtension, "file name extension")
	cmd.Flags().IntVarP(&opts.maxFiles, "max-files", "n", fileappender.DefaultMaxFiles, "files kept after rotation")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show the result without touching the directory")
	return cmd
}

func runRotate(out io.Writer, fs afero.Fs, dir string, opts rotateOptions) error {
	ext := fileappender.NormalizeExtension(opts.extension)

	target := fs
	if opts.dryRun {
		mem, err := mirror(fs, dir, opts.prefix, ext)
		if err != nil {
			return err
		}
		target = mem
	}

	if err := fileappender.Rotate(target, dir, opts.prefix, ext, opts.maxFiles); err != nil {
		return err
	}

	files, err := fileappender.ListNumbered(target, dir, opts.prefix, ext)
	if err != nil {
		return err
	}
	// oldest first, print newest first
	for i := len(files) - 1; i >= 0; i-- {
		fmt.Fprintln(out, filepath.Join(dir, files[i].Name))
	}
	return nil
}

// mirror copies the rotation set of dir into an in-memory file system as
// empty files.
func mirror(fs afero.Fs, dir, prefix, ext string) (afero.Fs, error) {
	files, err := fileappender.ListNumbered(fs, dir, prefix, ext)
	if err != nil {
		return nil, err
	}
	mem := afero.NewMemMapFs()
	if err := mem.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := afero.WriteFile(mem, filepath.Join(dir, f.Name), nil, 0644); err != nil {
			return nil, err
		}
	}
	return mem, nil
}
