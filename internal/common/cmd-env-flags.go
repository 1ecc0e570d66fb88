// This module provides integration of the flag package with environment variables.
// The purpose to launch either `replay-server -log-filename fn.log` or `COMPREPLAY_LOG_FILENAME=fn.log replay-server`.
// A command-line flag wins over an env var, an env var wins over the default.
// See usages of CmdEnvString and others.

package common

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const envPrefix = "COMPREPLAY_"

type cmdLineArg interface {
	flag.Value
	isFlagSet() bool
	getCmdName() string
	getEnvName() string
	getDescription() string
}

var allCmdLineArgs []cmdLineArg

type cmdLineArgString struct {
	cmdName string
	envName string
	usage   string

	isSet bool
	value string
}

func (s *cmdLineArgString) String() string {
	return s.value
}

func (s *cmdLineArgString) Set(v string) error {
	s.isSet = true
	s.value = v
	return nil
}

func (s *cmdLineArgString) getDescription() string { return s.usage }
func (s *cmdLineArgString) isFlagSet() bool        { return s.isSet }
func (s *cmdLineArgString) getCmdName() string     { return s.cmdName }
func (s *cmdLineArgString) getEnvName() string     { return s.envName }

type cmdLineArgBool struct {
	cmdName string
	envName string
	usage   string

	isSet bool
	value bool
}

func (s *cmdLineArgBool) String() string {
	return strconv.FormatBool(s.value)
}

func (s *cmdLineArgBool) Set(v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	s.isSet = true
	s.value = b
	return nil
}

func (s *cmdLineArgBool) IsBoolFlag() bool {
	return true
}

func (s *cmdLineArgBool) getDescription() string { return s.usage }
func (s *cmdLineArgBool) isFlagSet() bool        { return s.isSet }
func (s *cmdLineArgBool) getCmdName() string     { return s.cmdName }
func (s *cmdLineArgBool) getEnvName() string     { return s.envName }

type cmdLineArgInt struct {
	cmdName string
	envName string
	usage   string

	isSet bool
	value int64
}

func (s *cmdLineArgInt) String() string {
	return strconv.FormatInt(s.value, 10)
}

func (s *cmdLineArgInt) Set(v string) error {
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	s.isSet = true
	s.value = i
	return nil
}

func (s *cmdLineArgInt) getDescription() string { return s.usage }
func (s *cmdLineArgInt) isFlagSet() bool        { return s.isSet }
func (s *cmdLineArgInt) getCmdName() string     { return s.cmdName }
func (s *cmdLineArgInt) getEnvName() string     { return s.envName }

func envNameForFlag(cmdName string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(cmdName, "-", "_"))
}

func initCmdFlag(s cmdLineArg, cmdName string, usage string) {
	if cmdName != "" { // only env var makes sense
		flag.Var(s, cmdName, usage)
	}
}

func customPrintUsage() {
	fmt.Printf("Usage of %s:\n\n", os.Args[0])
	for _, f := range allCmdLineArgs {
		if f.getCmdName() == "v" { // don't print "-v" (shortcut for -version)
			continue
		}

		valueHint := ""
		if f.getCmdName() == "version" {
			valueHint = " / -v"
		}
		if f.getCmdName() != "" {
			fmt.Printf("  -%s%s\n", f.getCmdName(), valueHint)
		}
		if f.getEnvName() != "" {
			fmt.Printf("  %s\n", f.getEnvName())
		}
		fmt.Print("    \t")
		fmt.Print(strings.ReplaceAll(f.getDescription(), "\n", "\n    \t"))
		fmt.Print("\n\n")
	}
}

func CmdEnvString(usage string, def string, cmdFlagName string) *string {
	var sf = &cmdLineArgString{cmdFlagName, envNameForFlag(cmdFlagName), usage, false, def}
	allCmdLineArgs = append(allCmdLineArgs, sf)
	initCmdFlag(sf, cmdFlagName, usage)
	return &sf.value
}

func CmdEnvBool(usage string, def bool, cmdFlagName string) *bool {
	var sf = &cmdLineArgBool{cmdFlagName, envNameForFlag(cmdFlagName), usage, false, def}
	allCmdLineArgs = append(allCmdLineArgs, sf)
	initCmdFlag(sf, cmdFlagName, usage)
	return &sf.value
}

func CmdEnvInt(usage string, def int64, cmdFlagName string) *int64 {
	var sf = &cmdLineArgInt{cmdFlagName, envNameForFlag(cmdFlagName), usage, false, def}
	allCmdLineArgs = append(allCmdLineArgs, sf)
	initCmdFlag(sf, cmdFlagName, usage)
	return &sf.value
}

// IsCmdFlagSet reports whether a flag was given on the command line or via its env var.
// It's used to let such values override a configuration file.
func IsCmdFlagSet(cmdFlagName string) bool {
	for _, f := range allCmdLineArgs {
		if f.getCmdName() == cmdFlagName {
			return f.isFlagSet()
		}
	}
	return false
}

// ParseCmdFlagsCombiningWithEnv parses os.Args and then fills every flag not given on the command line
// from its COMPREPLAY_* env var, if present.
func ParseCmdFlagsCombiningWithEnv() error {
	flag.Usage = customPrintUsage
	flag.Parse()

	for _, f := range allCmdLineArgs {
		if f.isFlagSet() {
			continue
		}
		if envValue, ok := os.LookupEnv(f.getEnvName()); ok {
			if err := f.Set(envValue); err != nil {
				return fmt.Errorf("invalid value %q for %s: %w", envValue, f.getEnvName(), err)
			}
		}
	}
	return nil
}
