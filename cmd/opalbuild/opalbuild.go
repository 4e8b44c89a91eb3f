// Copyright 2025 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

var (
	version   string
	buildDate string
	gitCommit string
)

func main() {
	runCmd := flag.NewFlagSet("run a dataset variant build", flag.ExitOnError)
	confgenCmd := flag.NewFlagSet("generate a variant config template", flag.ExitOnError)
	versionCmd := flag.NewFlagSet("show version", flag.ExitOnError)

	runCmd.Usage = func() {
		fmt.Fprintf(os.Stderr, "opalbuild\n\nUsage:\n\t%s [options] run [config.json] [variant]\n\n", filepath.Base(os.Args[0]))
		runCmd.PrintDefaults()
	}
	confgenCmd.Usage = func() {
		fmt.Fprintf(os.Stderr, "\n\t%s [options] confgen [srcLang] [tgtLang]\n\n", filepath.Base(os.Args[0]))
		confgenCmd.PrintDefaults()
	}
	versionCmd.Usage = func() {
		fmt.Fprintf(os.Stderr, "\n\t%s version\n", filepath.Base(os.Args[0]))
		versionCmd.PrintDefaults()
	}

	generalUsage := func() {
		fmt.Fprintf(os.Stderr, "opalbuild - build parallel-text dataset variants out of OPUS sub-corpora\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\t%s [options] run [config.json] [variant]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "\t%s [options] confgen [srcLang] [tgtLang]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "\t%s help [command]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "\t%s version\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}

	var action string
	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	switch action {
	case "run":
		runCmd.Parse(os.Args[2:])
		run(runCmd.Arg(0), runCmd.Arg(1))
	case "confgen":
		confgenCmd.Parse(os.Args[2:])
		generateConf(confgenCmd.Arg(0), confgenCmd.Arg(1))
	case "version":
		fmt.Printf("opalbuild %s\nbuild date: %s\nlast commit: %s\n", version, buildDate, gitCommit)
	case "help":
		if len(os.Args) > 2 {
			helpCmd := os.Args[2]
			switch helpCmd {
			case "run":
				runCmd.Usage()
			case "confgen":
				confgenCmd.Usage()
			case "version":
				versionCmd.Usage()
			default:
				fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", helpCmd)
				generalUsage()
			}
		} else {
			generalUsage()
		}
	default:
		generalUsage()
	}
}
