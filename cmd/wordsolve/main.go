// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordsolve command line tool.

wordsolve suggests Wordle guesses. A dataset is compiled once from a pool of
allowed guesses and a list of possible answers; every later run loads it and
picks guesses from precomputed patterns only.

# Usage

Compile the dataset from the default word lists with the minimax strategy:

	wordsolve build

Or choose the lists and the strategy (0 = minimax, 1 = entropy). "d" keeps
the default for an argument:

	wordsolve build words/all.txt d 1

Solve a game interactively, typing the colors Wordle shows as B, Y and G:

	wordsolve solve

Play every answer and report guess counts and timings:

	wordsolve test

Serve sessions over msgpack on stdin/stdout for editor and bot integration:

	wordsolve serve

Inspect the compiled dataset or the active configuration:

	wordsolve info
	wordsolve config

# Configuration

Paths and defaults come from wordsolve.toml in the user config dir, created
with defaults on first run:

	[paths]
	pool = "input/pool.txt"
	targets = "input/targets.txt"
	data = "saved/data.bin"

	[solver]
	strategy = "minimax"
	workers = 0

	[test]
	max_guesses = 250
	workers = 0

	[server]
	max_sessions = 64

Relative paths are looked up in the working directory first and next to the
executable second.

# Flags

	-d, --debug     Toggle debug logging
	--config PATH   Use a specific config file
	--data PATH     Override the dataset path
*/
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordsolve/pkg/builder"
	"github.com/bastiangx/wordsolve/pkg/environment"
)

const (
	Version = "0.3.0"
	AppName = "wordsolve"
	gh      = "https://github.com/bastiangx/wordsolve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

var (
	errArgCount  = errors.New("incorrect number of arguments")
	errSolverArg = errors.New("expected integer solver ID")
)

// describe turns a command error into the message shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, errArgCount):
		return "Incorrect number of arguments."
	case errors.Is(err, errSolverArg):
		return "Expected integer solver ID."
	case errors.Is(err, builder.ErrPoolRead):
		return "Failed to read words file."
	case errors.Is(err, builder.ErrTargetsRead):
		return "Failed to read targets file."
	case errors.Is(err, builder.ErrPoolFormat):
		return "Words file formatted incorrectly."
	case errors.Is(err, builder.ErrTargetsFormat):
		return "Targets file formatted incorrectly."
	case errors.Is(err, builder.ErrPoolLength):
		return "Words file too long."
	case errors.Is(err, builder.ErrSolverID):
		return "Invalid solver ID."
	case errors.Is(err, builder.ErrDataWrite):
		return "Failed to write data file."
	case errors.Is(err, environment.ErrDataRead):
		return "Data file missing or corrupted. Please build."
	}
	return err.Error()
}
