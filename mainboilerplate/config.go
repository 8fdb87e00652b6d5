// Package mainboilerplate contains shared boilerplate of topicpurge programs:
// option parsing, logging, diagnostics and HTTP client configuration.
package mainboilerplate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/pulsar-ops/topicpurge/failure"
	log "github.com/sirupsen/logrus"
)

// MustParseConfig requires that the Parser parse from the combination of an
// optional INI file, configured environment bindings, and explicit flags.
// The first INI file named |configName| within configDirs is used.
func MustParseConfig(parser *flags.Parser, configName string) {
	if path, err := parseIniFile(parser, configName); err != nil {
		log.WithFields(log.Fields{"err": err, "path": path}).Fatal("failed to parse config file")
		return
	}
	MustParseArgs(parser)
}

// configDirs are searched, in order, for an INI file of topicpurge options:
// the working directory, then ~/.config/topicpurge under $HOME or %UserProfile%.
func configDirs() []string {
	var dirs = []string{"."}
	for _, home := range []string{os.Getenv("HOME"), os.Getenv("UserProfile")} {
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".config", "topicpurge"))
		}
	}
	return dirs
}

// parseIniFile applies the first INI file named |configName| of configDirs
// to |parser|. It returns the file's path, which is empty if none exists.
func parseIniFile(parser *flags.Parser, configName string) (string, error) {
	// The file may carry options of sub-commands other than the invoked one.
	var origOptions = parser.Options
	parser.Options |= flags.IgnoreUnknown
	defer func() { parser.Options = origOptions }()

	var ini = flags.NewIniParser(parser)

	for _, dir := range configDirs() {
		var path = filepath.Join(dir, configName)

		var err = ini.ParseFile(path)
		if os.IsNotExist(err) {
			continue
		}
		return path, err
	}
	return "", nil
}

// MustParseArgs requires that Parser be able to ParseArgs without error.
// Each error is printed once: go-flags itself prints nothing, input errors
// are printed with usage, and an error returned by an executed command is
// logged as fatal along with its failure.Kind.
func MustParseArgs(parser *flags.Parser) {
	parser.Options &^= flags.PrintErrors

	var _, err = parser.ParseArgs(os.Args[1:])
	if err == nil {
		return
	}

	var flagErr, ok = err.(*flags.Error)
	if !ok {
		log.WithFields(log.Fields{
			"err":  err,
			"kind": failure.KindOf(err),
		}).Fatal("command failed")
		return
	}

	switch flagErr.Type {
	case flags.ErrDuplicatedFlag, flags.ErrTag, flags.ErrInvalidTag, flags.ErrShortNameTooLong, flags.ErrMarshal:
		// A malformed options struct, rather than malformed input.
		panic(err)

	case flags.ErrHelp:
		// The message of ErrHelp is the requested usage.
		fmt.Fprintln(os.Stdout, err)
		writeVersion(os.Stdout)
		os.Exit(0)

	case flags.ErrCommandRequired:
		fmt.Fprintf(os.Stderr, "%s\n\n", err)
		parser.WriteHelp(os.Stderr)
		writeVersion(os.Stderr)
		os.Exit(1)

	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeVersion(w io.Writer) {
	fmt.Fprintf(w, "\nVersion %s, built at %s.\n", Version, BuildDate)
}

// AddPrintConfigCmd to the Parser. The "print-config" command helps users test
// whether their invocations are correctly configured, by exporting all runtime
// configuration in INI format.
func AddPrintConfigCmd(parser *flags.Parser, configName string) {
	_, err := parser.AddCommand("print-config", "Print combined configuration and exit", `
print-config parses the combined configuration from `+configName+`, flags,
and environment variables, and then writes the configuration to stdout in INI format.
`, &printConfig{parser})
	Must(err, "failed to add print-config command")
}

type printConfig struct {
	*flags.Parser `no-flag:"t"`
}

func (p printConfig) Execute([]string) error {
	var ini = flags.NewIniParser(p.Parser)
	ini.Write(os.Stdout, flags.IniIncludeComments|flags.IniCommentDefaults|flags.IniIncludeDefaults)
	return nil
}
