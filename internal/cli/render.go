package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipp01105/nlogconf/core"
	"github.com/philipp01105/nlogconf/formatter"
	"github.com/philipp01105/nlogconf/logger"
)

func newRenderCommand() *cobra.Command {
	var (
		pattern   string
		level     string
		name      string
		markers   []string
		errText   string
		timestamp int64
		utc       bool
	)

	cmd := &cobra.Command{
		Use:   "render message [args...]",
		Short: "Render a pattern against a sample event",
		Long: `Render a pattern against an event built from the message and
arguments, the way an appender with that encoder would write it.

Examples:
  nlogctl render --pattern '%level %logger: %message' 'user {} signed in' alice
  nlogctl render --timestamp 1700000000000 --utc --marker AUDIT 'done'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, ok := core.ParseLevel(level)
			if !ok {
				return fmt.Errorf("unknown level %q", level)
			}

			t := time.Now()
			if cmd.Flags().Changed("timestamp") {
				t = time.UnixMilli(timestamp)
			}
			cfg := formatter.Config{}
			if utc {
				cfg.Location = time.UTC
			}

			var ms []*core.Marker
			for _, m := range markers {
				ms = append(ms, core.GetMarker(m))
			}
			var err error
			if errText != "" {
				err = errors.New(errText)
			}
			eventArgs := make([]any, 0, len(args)-1)
			for _, a := range args[1:] {
				eventArgs = append(eventArgs, a)
			}

			e := core.NewEvent(t, l, name, args[0], eventArgs, ms, err)
			line, ferr := formatter.NewPatternFormatter(pattern, cfg).Format(e)
			if ferr != nil {
				return ferr
			}
			_, werr := fmt.Fprintln(cmd.OutOrStdout(), string(line))
			return werr
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", logger.FallbackPattern, "pattern to render")
	cmd.Flags().StringVarP(&level, "level", "l", "INFO", "event level")
	cmd.Flags().StringVar(&name, "logger", "root", "logger name")
	cmd.Flags().StringSliceVarP(&markers, "marker", "m", nil, "marker names (repeatable)")
	cmd.Flags().StringVarP(&errText, "error", "e", "", "attach an error with this text")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "event time as Unix milliseconds (default now)")
	cmd.Flags().BoolVar(&utc, "utc", false, "render %date in UTC instead of local time")
	return cmd
}
