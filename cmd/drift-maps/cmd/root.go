// Package cmd implements the drift-maps CLI commands.
//
// The root command dispatches to subcommands (check, demo) registered from
// their own files.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(env *Env, args []string) error
}

// Env carries the global flags and output streams into a command.
type Env struct {
	// Dir is the project directory; empty means search upwards from the
	// working directory.
	Dir     string
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

var rootCmd = &Command{
	Name:  "drift-maps",
	Short: "drift-maps - map overlays for drift apps",
	Long: `drift-maps checks the map configuration of a drift project and can run a
headless advanced marker scenario against a logging engine bridge.

Use "drift-maps <command> --help" for more information about a command.`,
	Usage: "drift-maps <command> [flags]",
}

// Commands registered with the CLI, in registration order.
var (
	commands    = make(map[string]*Command)
	commandList []*Command
)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	commandList = append(commandList, cmd)
}

// Execute runs the CLI with the given arguments (without the program name).
func Execute(args []string) error {
	return execute(&Env{Stdout: os.Stdout, Stderr: os.Stderr}, args)
}

func execute(env *Env, args []string) error {
	if len(args) == 0 {
		printHelp(env.Stdout)
		return nil
	}

	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(env.Stdout)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Fprintf(env.Stdout, "drift-maps version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--verbose":
			env.Verbose = true
		case "--dir":
			if i+1 >= len(args) {
				return fmt.Errorf("--dir requires a directory path")
			}
			env.Dir = args[i+1]
			i++
		default:
			if strings.HasPrefix(arg, "--dir=") {
				env.Dir = strings.TrimPrefix(arg, "--dir=")
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(env.Stdout)
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(env.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(env.Stderr)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(env.Stdout, cmd)
			return nil
		}
	}

	return cmd.Run(env, cmdArgs)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, rootCmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", rootCmd.Usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, sub := range commandList {
		fmt.Fprintf(w, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -h, --help           Show help for a command")
	fmt.Fprintln(w, "  -v, --version        Show version information")
	fmt.Fprintln(w, "  --dir DIR            Project directory (default: nearest drift_maps.yaml or go.mod)")
	fmt.Fprintln(w, "  --verbose            Debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  drift-maps check           Validate drift_maps.yaml")
	fmt.Fprintln(w, "  drift-maps demo            Run the headless marker scenario")
}

func printCommandHelp(w io.Writer, cmd *Command) {
	fmt.Fprintln(w, cmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", cmd.Usage)
}
