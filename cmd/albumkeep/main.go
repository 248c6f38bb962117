package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/albumkeep/albumkeep"
	"github.com/albumkeep/albumkeep/internal/cliconfig"
)

const helpDescription = `
File incoming photos and videos into timeline-organized album repositories.

Every album under the root declares autoadd boundary timestamps; a file is
routed to the album whose most recent boundary is not later than the file's
own creation time. Writes are batched per album and committed at the end of
each import sweep.

Highlights:
  - Recognizes albums by a directory-name suffix, however deep they nest.
  - Reads creation timestamps from EXIF and MP4 metadata.
  - One-shot sweeps by default; --watch keeps importing as files arrive.
  - Configure via file, environment (ALBUMKEEP_*), or flags.
`

var exampleUsage = strings.TrimSpace(`
  albumkeep --root ~/albums --inbox ~/camera-upload
  albumkeep --root ~/albums --inbox ~/camera-upload --watch --remove-after-import
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := albumkeep.Logger()

	root := &cobra.Command{
		Use:     "albumkeep",
		Short:   "File incoming media into timeline-organized album repositories",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default ~/.albumkeep/config.toml),
			// then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			log.Info().Interface("config", cfg).Msg("configuration")

			libCfg := albumkeep.Config{
				RootDir:           cfg.RootDir,
				InboxDir:          cfg.InboxDir,
				MarkerSuffix:      cfg.MarkerSuffix,
				AllowedTypes:      cfg.AllowedTypes,
				Location:          loc,
				Watch:             cfg.Watch,
				Debounce:          cfg.Debounce,
				RemoveAfterImport: cfg.RemoveAfterImport,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := albumkeep.Run(ctx, libCfg); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.albumkeep/config.toml)")
	root.Flags().StringVar(&cfg.RootDir, "root", cfg.RootDir, "root directory scanned for album repositories")
	root.Flags().StringVar(&cfg.InboxDir, "inbox", cfg.InboxDir, "directory holding incoming media files")
	root.Flags().StringVar(&cfg.MarkerSuffix, "marker-suffix", cfg.MarkerSuffix, "directory-name suffix denoting an album repository")
	root.Flags().StringSliceVar(&cfg.AllowedTypes, "allowed-types", cfg.AllowedTypes, "content types accepted for import")
	root.Flags().StringVar(&cfg.TimeZone, "time-zone", cfg.TimeZone, "time zone for filename prefixes (IANA name or \"Local\")")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "keep watching the inbox and import new files as they settle")
	root.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "quiet period after inbox activity before a sweep starts")
	root.Flags().BoolVar(&cfg.RemoveAfterImport, "remove-after-import", cfg.RemoveAfterImport, "delete inbox files whose import was committed")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("albumkeep")
		os.Exit(1)
	}
}
