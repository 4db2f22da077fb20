package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/nlogconf/appender/fileappender"
	"github.com/philipp01105/nlogconf/appender/platformappender"
	"github.com/philipp01105/nlogconf/config"
	"github.com/philipp01105/nlogconf/internal/status"
)

func newValidateCommand(v *viper.Viper) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Parse a configuration document and list its loggers",
		Long: `Parse a configuration document and print every logger with its
level and appender references.

Appenders are built against an in-memory file system, so file appenders
create nothing on disk. Diagnostics such as skipped elements or dropped
references are printed to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				s, err := settings(v)
				if err != nil {
					return err
				}
				path = s.ConfigFile
			}
			level := zapcore.InfoLevel
			if quiet {
				level = zapcore.ErrorLevel
			}
			return runValidate(cmd.OutOrStdout(), cmd.ErrOrStderr(), afero.NewOsFs(), path, level)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print errors on stderr")
	return cmd
}

func runValidate(out, diag io.Writer, fs afero.Fs, path string, level zapcore.Level) error {
	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	env := config.Env{
		Stdout:   io.Discard,
		Stderr:   io.Discard,
		Fs:       afero.NewMemMapFs(),
		Resolver: fileappender.StaticResolver("/storage"),
		Platform: platformappender.LogFunc(func(platformappender.Priority, string, string) {}),
	}
	set, err := config.Parse(f, config.WithEnv(env), config.WithStatusLogger(status.New(diag, level)))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer set.Close()

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOGGER\tLEVEL\tAPPENDERS")
	for _, name := range names {
		c := set[name]
		refs := strings.Join(c.AppenderNames(), ", ")
		if refs == "" {
			refs = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, c.Level, refs)
	}
	return tw.Flush()
}
