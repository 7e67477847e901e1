package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	flag "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/rkorte/rticonnextdds-logparser/devices"
)

// BuildID is set by the build pipeline
var BuildID string

// internal version identifier
var version string

// GlobalOptions has all the top level CLI flags that logparser supports
type GlobalOptions struct {
	ConfigFile string `short:"c" long:"config" description:"Config file for logparser in INI format." no-ini:"true"`

	Verbose []bool `short:"v" long:"verbose" description:"Show more events. Repeat (-vv) to include discovery-protocol chatter."`
	Debug   bool   `long:"debug" description:"Print debugging output"`

	Output    string `short:"o" long:"output" description:"Write the event stream to this file instead of stdout"`
	Overwrite bool   `long:"overwrite" description:"Overwrite the output file instead of appending to it"`

	ShowProgress bool `long:"progress" description:"Show a progress bar (file input) or elapsed time (console input)"`
	ShowLines    bool `long:"show-lines" description:"Prefix every message with its input/output line numbers"`
	Colors       bool `long:"colors" description:"Colorize messages by their semantic kind"`

	Highlight string `long:"highlight" description:"Regex; matching messages are tagged IMPORTANT"`
	OnlyIf    string `long:"only" description:"Regex; show only messages with a matching field"`

	NoInline  bool `long:"no-inline" description:"Do not stream warnings and errors inline, only count them for the summary"`
	NoNetwork bool `long:"no-network" description:"Ignore packet-level network events"`
	NoSummary bool `long:"no-summary" description:"Skip the end-of-run summary report"`

	UnmatchedFile string `long:"unmatched" description:"Archive unrecognized log lines verbatim into this file"`

	Follow bool                `long:"follow" description:"Keep reading as the log file grows (tail -F), surviving rotation"`
	Tail   devices.TailOptions `group:"Tail Options" namespace:"tail"`

	Reqs  RequiredOptions `group:"Input Options"`
	Modes OtherModes      `group:"Other Modes"`
}

type RequiredOptions struct {
	LogFile string `short:"f" long:"file" description:"Log file to parse. Use '-' for STDIN." default:"-"`
}

type OtherModes struct {
	Help    bool `short:"h" long:"help" description:"Show this help message"`
	Version bool `short:"V" long:"version" description:"Show version"`

	WriteDefaultConfig bool `long:"write_default_config" description:"Write a default config file to STDOUT" no-ini:"true"`
	WriteCurrentConfig bool `long:"write_current_config" description:"Write out the current config to STDOUT" no-ini:"true"`
}

func main() {
	var options GlobalOptions
	flagParser := flag.NewParser(&options, flag.PrintErrors)
	flagParser.Usage = "[-f </path/to/logfile>] [optional arguments]"

	if extraArgs, err := flagParser.Parse(); err != nil || len(extraArgs) != 0 {
		fmt.Println("Error: failed to parse the command line.")
		if err != nil {
			fmt.Printf("\t%s\n", err)
		} else {
			fmt.Printf("\tUnexpected extra arguments: %s\n", strings.Join(extraArgs, " "))
		}
		usage()
		os.Exit(1)
	}
	// read the config file if present
	if options.ConfigFile != "" {
		ini := flag.NewIniParser(flagParser)
		ini.ParseAsDefaults = true
		if err := ini.ParseFile(options.ConfigFile); err != nil {
			fmt.Printf("Error: failed to parse the config file %s\n", options.ConfigFile)
			fmt.Printf("\t%s\n", err)
			usage()
			os.Exit(1)
		}
	}

	if options.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	setVersion()
	handleOtherModes(flagParser, options.Modes)
	sanityCheckOptions(&options)

	run(options)
}

// setVersion sets the internal version ID
func setVersion() {
	if BuildID == "" {
		version = "dev"
	} else {
		version = BuildID
	}
}

// handleOtherModes takes care of all flags that say we should just do
// something and exit rather than actually parsing logs
func handleOtherModes(fp *flag.Parser, modes OtherModes) {
	if modes.Version {
		fmt.Println("logparser version", version)
		os.Exit(0)
	}
	if modes.Help {
		fp.WriteHelp(os.Stdout)
		fmt.Println("")
		os.Exit(0)
	}
	if modes.WriteDefaultConfig {
		ip := flag.NewIniParser(fp)
		ip.Write(os.Stdout, flag.IniIncludeDefaults|flag.IniCommentDefaults|flag.IniIncludeComments)
		os.Exit(0)
	}
	if modes.WriteCurrentConfig {
		ip := flag.NewIniParser(fp)
		ip.Write(os.Stdout, flag.IniIncludeComments)
		os.Exit(0)
	}
}

func sanityCheckOptions(options *GlobalOptions) {
	switch {
	case options.Reqs.LogFile == "":
		fmt.Println("Log file name or '-' required.")
		usage()
		os.Exit(1)
	case options.Follow && options.Reqs.LogFile == "-":
		fmt.Println("--follow needs a real file, not STDIN.")
		usage()
		os.Exit(1)
	case options.Overwrite && options.Output == "":
		fmt.Println("--overwrite only makes sense together with --output.")
		usage()
		os.Exit(1)
	}

	for flagName, pattern := range map[string]string{
		"highlight": options.Highlight,
		"only":      options.OnlyIf,
	} {
		if pattern == "" {
			continue
		}
		if _, err := regexp.Compile(pattern); err != nil {
			fmt.Printf("--%s regex %s doesn't compile: error %s\n", flagName, pattern, err)
			usage()
			os.Exit(1)
		}
	}

	// Make sure the input file exists
	if f := options.Reqs.LogFile; f != "-" {
		if _, err := os.Stat(f); err != nil {
			fmt.Printf("Log file specified by --file=%s not found!\n", f)
			usage()
			os.Exit(1)
		}
	}
}

func usage() {
	fmt.Print(`
Usage: logparser -f </path/to/logfile> [optional arguments]

For even more detail on required and optional parameters, run
logparser --help
`)
}
