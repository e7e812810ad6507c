package main

/* Tim Henderson (tadh@case.edu)
*
* Copyright (c) 2015, Tim Henderson, Case Western Reserve University
* Cleveland, Ohio 44106. All Rights Reserved.
*
* This library is free software; you can redistribute it and/or modify
* it under the terms of the GNU General Public License as published by
* the Free Software Foundation; either version 3 of the License, or (at
* your option) any later version.
*
* This library is distributed in the hope that it will be useful, but
* WITHOUT ANY WARRANTY; without even the implied warranty of
* MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
* General Public License for more details.
*
* You should have received a copy of the GNU General Public License
* along with this library; if not, write to the Free Software
* Foundation, Inc.,
*   51 Franklin Street, Fifth Floor,
*   Boston, MA  02110-1301
*   USA
 */

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
)

import (
	"github.com/timtadh/data-structures/errors"
	"github.com/timtadh/getopt"
)

import (
	"github.com/timtadh/cfistream/cmd"
	"github.com/timtadh/cfistream/config"
	"github.com/timtadh/cfistream/diu"
	"github.com/timtadh/cfistream/mfci"
	"github.com/timtadh/cfistream/streamfci"
	"github.com/timtadh/cfistream/verify"
	"github.com/timtadh/cfistream/window"
)

func init() {
	cmd.UsageMessage = "cfistream --help"
	cmd.ExtendedMessage = `
cfistream - mine closed frequent itemsets from a transaction stream under a
            sliding window

$ cfistream -o <path> --window=<int> --support=<int> [Global Options] \
    <engine> [Engine Options] <input-path> \
    [<reporter> [Reporter Options]]

Note: You must supply [Global Options] then <engine> [Engine Options] and
      finally <input-path>. Changes in ordering are not supported.

Note: You may either supply the <input-path> as a regular file or a gzipped
      file. If supplying a gzip file the file extension must be '.gz'.

Note: If you don't supply a reporter by default it will use 'chain log file'.
      See the documentation for Reporters for details.


Global Options
    -h, --help                view this message
    --engines                 show the available engines
    --reporters               show the available reporters
    -o, --output=<path>       path to output directory (required)
                              NB: will overwrite contents of dir
    -c, --cache=<path>        path to cache directory (optional)
                              NB: will overwrite contents of dir
    --window=<int>            size of the sliding window (required)
    --support=<int>           minimum support of reported patterns
    -l, --loader=<name>       the loader to use (default int)
    --skip-log=<level>        don't output the given log level.

Developer Options
    --cpu-profile=<path>      write a cpu-profile to this location

Loaders
   int                        each line is a transaction
                              the items are integers
                              the items are space separated

   int Example file:
        10 1 5 7
        213 2 5 1
        23 1 4 5 7
        3 4 1

   csv                        each line is a transaction
                              the items are integers
                              the items are comma separated

Engines
    diu                       the CFI-Stream direct update tree.
    mfci                      the MFCI closed itemset table.
    streamfci                 the StreamFCI dynamic frequent pattern tree.
    check                     runs diu and mfci in lockstep and fails loudly
                              if they ever disagree.

    Example
        $ cfistream -o /tmp/cfistream --window=250 --support=10 \
            mfci ./data/transactions.dat.gz \
            chain log file

Reporters
    chain                     chain several reporters together (end the chain
                              with endchain)
    log                       log the patterns
    file                      write the patterns to a file in the output dir
    count                     write the number of patterns to a file
    unique                    takes an "inner reporter" but only passes the
                              unique patterns to the inner reporter

    log Options
        -l, level=<string>    log level the logger should use
        -p, prefix=<string>   a prefix to put before the log line

    file Options
        -p, patterns=<name>   the prefix of the name of the file in the
                              output directory to write the patterns

    count Options
        -f, filename=<name>   the name of the file in the output directory
                              to write the count

    unique Options
        --histogram=<name>    if set unique will write the histogram of how
                              many times each pattern was reported

    Examples

        $ cfistream -o <path> --window=500 --support=5 \
            diu ./transactions.dat \
            chain log file

        $ cfistream --skip-log=DEBUG -o /tmp/cfistream --window=100 --support=2 \
            -l csv check ./transactions.csv \
            chain log \
                unique \
                    chain \
                        log -p unique \
                        file -p unique-patterns \
                    endchain \
                file -p all-patterns
`
}

func diuMode(argv []string, conf *config.Config) (window.Algorithm[int32], []string) {
	args, optargs, err := getopt.GetOpt(
		argv,
		"h",
		[]string{
			"help",
		},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		cmd.Usage(cmd.ErrorCodes["opts"])
	}
	for _, oa := range optargs {
		switch oa.Opt() {
		case "-h", "--help":
			cmd.Usage(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag '%v'\n", oa.Opt())
			cmd.Usage(cmd.ErrorCodes["opts"])
		}
	}
	return diu.NewTree[int32](), args
}

func mfciMode(argv []string, conf *config.Config) (window.Algorithm[int32], []string) {
	args, optargs, err := getopt.GetOpt(
		argv,
		"h",
		[]string{
			"help",
		},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		cmd.Usage(cmd.ErrorCodes["opts"])
	}
	for _, oa := range optargs {
		switch oa.Opt() {
		case "-h", "--help":
			cmd.Usage(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag '%v'\n", oa.Opt())
			cmd.Usage(cmd.ErrorCodes["opts"])
		}
	}
	return mfci.New[int32](), args
}

func streamfciMode(argv []string, conf *config.Config) (window.Algorithm[int32], []string) {
	args, optargs, err := getopt.GetOpt(
		argv,
		"h",
		[]string{
			"help",
		},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		cmd.Usage(cmd.ErrorCodes["opts"])
	}
	for _, oa := range optargs {
		switch oa.Opt() {
		case "-h", "--help":
			cmd.Usage(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag '%v'\n", oa.Opt())
			cmd.Usage(cmd.ErrorCodes["opts"])
		}
	}
	return streamfci.New[int32](), args
}

func checkMode(argv []string, conf *config.Config) (window.Algorithm[int32], []string) {
	args, optargs, err := getopt.GetOpt(
		argv,
		"h",
		[]string{
			"help",
		},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		cmd.Usage(cmd.ErrorCodes["opts"])
	}
	for _, oa := range optargs {
		switch oa.Opt() {
		case "-h", "--help":
			cmd.Usage(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag '%v'\n", oa.Opt())
			cmd.Usage(cmd.ErrorCodes["opts"])
		}
	}
	return verify.New[int32](diu.NewTree[int32](), mfci.New[int32]()), args
}

func main() {
	os.Exit(run())
}

func run() int {
	modes := map[string]cmd.Mode{
		"diu":       diuMode,
		"mfci":      mfciMode,
		"streamfci": streamfciMode,
		"check":     checkMode,
	}

	args, optargs, err := getopt.GetOpt(
		os.Args[1:],
		"ho:c:l:",
		[]string{
			"help",
			"output=", "cache=",
			"engines", "reporters",
			"window=",
			"support=",
			"loader=",
			"skip-log=",
			"cpu-profile=",
		},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "could not process your arguments (perhaps you forgot an engine?) try:")
		fmt.Fprintf(os.Stderr, "$ %v mfci %v\n", os.Args[0], strings.Join(os.Args[1:], " "))
		cmd.Usage(cmd.ErrorCodes["opts"])
	}

	output := ""
	cache := ""
	windowSize := 0
	support := 0
	loader := "int"
	cpuProfile := ""
	for _, oa := range optargs {
		switch oa.Opt() {
		case "-h", "--help":
			cmd.Usage(0)
		case "-o", "--output":
			output = cmd.EmptyDir(oa.Arg())
		case "-c", "--cache":
			cache = cmd.EmptyDir(oa.Arg())
		case "--window":
			windowSize = cmd.ParseInt(oa.Arg())
		case "--support":
			support = cmd.ParseInt(oa.Arg())
		case "-l", "--loader":
			loader = oa.Arg()
		case "--engines":
			fmt.Fprintln(os.Stderr, "Engines:")
			for k := range modes {
				fmt.Fprintln(os.Stderr, "  ", k)
			}
			os.Exit(0)
		case "--reporters":
			fmt.Fprintln(os.Stderr, "Reporters:")
			for k := range cmd.Reporters {
				fmt.Fprintln(os.Stderr, "  ", k)
			}
			os.Exit(0)
		case "--skip-log":
			level := oa.Arg()
			errors.Logf("INFO", "not logging level %v", level)
			errors.SkipLogging[level] = true
		case "--cpu-profile":
			cpuProfile = cmd.AssertFile(oa.Arg())
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag '%v'\n", oa.Opt())
			cmd.Usage(cmd.ErrorCodes["opts"])
		}
	}

	if windowSize <= 0 {
		fmt.Fprintf(os.Stderr, "Window <= 0, must be > 0\n")
		cmd.Usage(cmd.ErrorCodes["opts"])
	}

	if support < 0 {
		fmt.Fprintf(os.Stderr, "Support < 0, must be >= 0\n")
		cmd.Usage(cmd.ErrorCodes["opts"])
	}

	if output == "" {
		fmt.Fprintf(os.Stderr, "You must supply an output dir (-o)\n")
		cmd.Usage(cmd.ErrorCodes["opts"])
	}

	if cpuProfile != "" {
		errors.Logf("DEBUG", "starting cpu profile: %v", cpuProfile)
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			errors.Logf("DEBUG", "closing cpu profile")
			pprof.StopCPUProfile()
			err := f.Close()
			errors.Logf("DEBUG", "closed cpu profile, err: %v", err)
		}()
	}

	conf := &config.Config{
		Cache:   cache,
		Output:  output,
		Window:  windowSize,
		Support: support,
		Loader:  loader,
	}
	return cmd.Main(args, conf, modes)
}
