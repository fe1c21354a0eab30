// seehuhn.de/go/assemble - split and merge PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Pdf-assemble splits, merges and previews PDF files.
//
// Usage:
//
//	pdf-assemble [global options] extract [-o dir|file.zip] [--parts k | --each | --pages list] file.pdf [range...]
//	pdf-assemble [global options] merge -o out.pdf [--bookmarks] [--metadata] [--interleave] a.pdf b.pdf ...
//	pdf-assemble [global options] thumbs [-o dir] [--max n] [--scale s] [--max-width w] file.pdf
//	pdf-assemble [global options] info file.pdf
//
// Settings can also be given in the environment, or in a file ".env" in the
// current directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"seehuhn.de/go/assemble/tools/internal/buildinfo"
	"seehuhn.de/go/assemble/tools/internal/profile"
)

const toolName = "pdf-assemble"

func main() {
	envErr := godotenv.Load()

	a := newApp()
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		a.log.WithError(envErr).Warn("cannot read .env file")
	}

	err := a.command().Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds the state shared by all sub-commands.
type app struct {
	log   *logrus.Logger
	force bool
	stop  func()
}

func newApp() *app {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &app{log: log}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:    toolName,
		Usage:   "split, merge and preview PDF files",
		Version: buildinfo.Version(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warning",
				Usage:   "minimum severity of log messages (debug, info, warning, error)",
				Sources: cli.EnvVars("PDF_ASSEMBLE_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "overwrite output files if they exist",
			},
			&cli.StringFlag{
				Name:  "cpuprofile",
				Usage: "write cpu profile to `FILE`",
			},
			&cli.StringFlag{
				Name:  "memprofile",
				Usage: "write memory profile to `FILE`",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			a.extractCommand(),
			a.mergeCommand(),
			a.thumbsCommand(),
			a.infoCommand(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := logrus.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, err
	}
	a.log.SetLevel(level)
	a.force = cmd.Bool("force")

	a.stop, err = profile.Start(cmd.String("cpuprofile"), cmd.String("memprofile"), a.log)
	if err != nil {
		return ctx, err
	}
	a.log.Debug(buildinfo.Short(toolName))
	return ctx, nil
}

func (a *app) after(ctx context.Context, cmd *cli.Command) error {
	if a.stop != nil {
		a.stop()
	}
	return nil
}
