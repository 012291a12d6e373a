package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/dudk/flute/log"
)

type config struct {
	args []string
	out  io.Writer
	log  *logrus.Logger
}

type command interface {
	Name() string
	Help() string
	Run(context.Context, *config) error
	Register(*flag.FlagSet)
}

// configurable commands can load their settings from yaml file. Flags
// provided explicitly take precedence over the file.
type configurable interface {
	configFile() string
	load(path string) error
}

func (config *config) run(ctx context.Context) int {
	cmdName, args := parseArgs(config.args)
	if cmdName == "" {
		config.printUsage()
		return errorExitCode
	}

	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}
		flags := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		flags.SetOutput(config.out)
		cmd.Register(flags)
		if err := flags.Parse(args); err != nil {
			return errorExitCode
		}
		if c, ok := cmd.(configurable); ok && c.configFile() != "" {
			if err := c.load(c.configFile()); err != nil {
				config.log.Errorf("Config failed: %v", err)
				return errorExitCode
			}
			// apply explicit flags on top of the file
			if err := flags.Parse(args); err != nil {
				return errorExitCode
			}
		}
		if err := cmd.Run(ctx, config); err != nil {
			config.log.Errorf("Command failed: %v", err)
			return errorExitCode
		}
		return successExitCode
	}

	config.printUsage()
	return errorExitCode
}

var (
	successExitCode = 0
	errorExitCode   = 1
	commands        = []command{
		&renderCommand{},
		&playCommand{},
		&scoreCommand{},
	}
)

func main() {
	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	c := config{
		args: os.Args,
		out:  os.Stdout,
		log:  log.GetLogger(),
	}
	code := c.run(ctx)
	stop()
	os.Exit(code)
}

func parseArgs(args []string) (string, []string) {
	if len(args) < 2 {
		return "", nil
	}
	return args[1], args[2:]
}

func (config *config) printUsage() {
	fmt.Fprintln(config.out, "Flute is a CLI flute synthesizer")
	fmt.Fprintln(config.out)
	fmt.Fprintln(config.out, "Usage: flute <command> [flags]")
	fmt.Fprintln(config.out)
	fmt.Fprintln(config.out, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(config.out, "\t%s\t%s\n", cmd.Name(), cmd.Help())
	}
}
