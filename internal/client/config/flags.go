package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/filedrop/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-s string   file-drop server base URL
//	-d string   directory downloads are saved to
//	-db string  path of the local preference database
//	-p string   page opened at start (/upload, /pickup, /manage/{id})
//	-l string   log level (debug, info, warn, error)
//
// Arguments are filtered with flagx.FilterArgs so flags owned by other
// loaders (-c, -config) do not cause parse errors.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-s", "-d", "-db", "-p", "-l"})

	fs := flag.NewFlagSet("filedrop", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "file-drop server base URL")
	fs.StringVar(&cfg.DownloadDir, "d", cfg.DownloadDir, "download directory")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "local preference database path")
	fs.StringVar(&cfg.StartPage, "p", cfg.StartPage, "start page")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
