package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"storj.io/common/cfgstruct"

	"github.com/opdss/nbkit/logger"
	"github.com/opdss/nbkit/process"
	"github.com/opdss/nbkit/storage"
	"github.com/opdss/nbkit/tabular"
)

// Config is everything the commands can be configured with.
type Config struct {
	Log     logger.Config
	Storage storage.LocalConfig
	Tabular tabular.Config
}

var (
	config Config

	rootCmd = &cobra.Command{
		Use:           "nbkit",
		Short:         "Convert and inspect JSON, CSV and xlsx tables",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	convertCmd = &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Load src and save it to dst, the format follows each file's extension",
		Args:  cobra.ExactArgs(2),
		RunE:  cmdConvert,
	}
	inspectCmd = &cobra.Command{
		Use:   "inspect <src>",
		Short: "Print the columns and row count of a tabular file",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdInspect,
	}
)

func init() {
	rootCmd.PersistentFlags().String("config-dir", "", "directory containing "+process.DefaultCfgFilename)
	rootCmd.AddCommand(convertCmd, inspectCmd)
	process.Bind(convertCmd, &config, cfgstruct.UseReleaseDefaults())
	process.Bind(inspectCmd, &config, cfgstruct.UseReleaseDefaults())
}

func main() {
	process.ExecWithOptions(rootCmd, process.ExecOptions{
		LoadConfig: process.LoadConfig,
		LoggerFactory: func() (*zap.Logger, error) {
			return logger.New(config.Log)
		},
	})
}

func newManager() *tabular.Manager {
	return tabular.NewManager(zap.L(), storage.NewLocal(config.Storage), config.Tabular.Options()...)
}

func cmdConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	m := newManager()

	t, err := m.Open(ctx, args[0])
	if err != nil {
		return err
	}
	if t == nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: unrecognized format, nothing written\n", args[0])
		return nil
	}
	path, err := m.Save(ctx, t, args[1])
	if err != nil {
		return err
	}
	if path == "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: unrecognized format, nothing written\n", args[1])
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func cmdInspect(cmd *cobra.Command, args []string) error {
	t, err := newManager().Open(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if t == nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: unrecognized format\n", args[0])
		return nil
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "rows: %d\ncolumns: %d\n", t.Len(), t.Width())
	for _, c := range t.Columns() {
		_, _ = fmt.Fprintf(out, "  %s\n", c)
	}
	return nil
}
