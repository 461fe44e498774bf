// Copyright 2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package tiler slices a large raster into a multi-resolution tile
// pyramid by running gdal_retile (or a compatible command) as a
// blocking subprocess.
package tiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options describes the pyramid to build.
type Options struct {
	// Levels is the number of pyramid levels below full
	// resolution.
	Levels int `mapstructure:"levels"`

	// BlockWidth is the tile width in pixels.
	BlockWidth int `mapstructure:"block_width"`

	// BlockHeight is the tile height in pixels.
	BlockHeight int `mapstructure:"block_height"`

	// Command is the program to run plus any leading arguments,
	// for instance {"python3", "/usr/bin/gdal_retile.py"}.
	Command []string `mapstructure:"command"`
}

// DefaultOptions returns four levels of 2048x2048 tiles built with
// gdal_retile.py from the search path.
func DefaultOptions() Options {
	return Options{
		Levels:      4,
		BlockWidth:  2048,
		BlockHeight: 2048,
		Command:     []string{"gdal_retile.py"},
	}
}

func (o *Options) setDefaults() {
	defaults := DefaultOptions()
	if o.Levels <= 0 {
		o.Levels = defaults.Levels
	}
	if o.BlockWidth <= 0 {
		o.BlockWidth = defaults.BlockWidth
	}
	if o.BlockHeight <= 0 {
		o.BlockHeight = defaults.BlockHeight
	}
	if len(o.Command) == 0 {
		o.Command = defaults.Command
	}
}

// ErrRetileFailed is returned when the tiling command could not be
// started or exited unsuccessfully.
type ErrRetileFailed struct {
	// ExitCode is the process exit status, or -1 if the process
	// never ran to completion.
	ExitCode int

	// Stderr is whatever the process wrote to standard error.
	Stderr string

	// Err is the underlying error from os/exec.
	Err error
}

func (err ErrRetileFailed) Error() string {
	msg := fmt.Sprintf("retile failed with exit code %d", err.ExitCode)
	if stderr := strings.TrimSpace(err.Stderr); stderr != "" {
		msg += ": " + stderr
	} else if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err ErrRetileFailed) Unwrap() error {
	return err.Err
}

// Tiler runs the tiling command.  The zero value uses DefaultOptions
// and the standard logger.
type Tiler struct {
	Options

	// Log receives the command line and its outcome.
	Log *logrus.Entry
}

// New creates a Tiler with the given options; unset fields take
// their defaults.
func New(opts Options) *Tiler {
	opts.setDefaults()
	return &Tiler{Options: opts}
}

func (t *Tiler) logger() *logrus.Entry {
	if t.Log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return t.Log
}

// Args returns the complete command line for tiling input into
// outDir, including the command itself.
func (t *Tiler) Args(input, outDir string) []string {
	opts := t.Options
	opts.setDefaults()
	args := append([]string{}, opts.Command...)
	return append(args,
		"-v",
		"-r", "bilinear",
		"-ot", "BYTE",
		"-levels", strconv.Itoa(opts.Levels),
		"-ps", strconv.Itoa(opts.BlockWidth), strconv.Itoa(opts.BlockHeight),
		"-co", "ALPHA=YES",
		"-targetDir", outDir,
		input,
	)
}

// Retile runs the tiling command and waits for it to finish.  A
// non-zero exit or failure to start returns ErrRetileFailed.
// Cancelling ctx kills the process.
func (t *Tiler) Retile(ctx context.Context, input, outDir string) error {
	args := t.Args(input, outDir)
	log := t.logger().WithFields(logrus.Fields{
		"input":  input,
		"outDir": outDir,
	})
	log.WithField("cmd", strings.Join(args, " ")).Debug("running retile")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		code := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
		log.WithFields(logrus.Fields{
			"exit": code,
			"err":  err,
		}).Warn("retile failed")
		return ErrRetileFailed{ExitCode: code, Stderr: stderr.String(), Err: err}
	}
	log.WithField("output", stdout.Len()).Info("retile complete")
	return nil
}

// PrepareDir removes dir and everything in it, then recreates it
// empty.
func PrepareDir(dir string) error {
	if dir == "" || dir == "/" {
		return fmt.Errorf("refusing to clear directory %q", dir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
