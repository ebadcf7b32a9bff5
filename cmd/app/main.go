package main

import (
	"flag"
	"fmt"
	"log/slog"
	"lox/internal/evaluator"
	"lox/internal/lexer"
	"lox/internal/object"
	"lox/internal/parser"
	"lox/internal/repl"
	"lox/internal/transform"
	"lox/internal/util"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	DefaultConfigPath = "lox.toml"

	// sysexits-style codes: data error for bad source, software error for a
	// failure surfaced while running it.
	ExitUsage   = 64
	ExitDataErr = 65
	ExitSwErr   = 70
)

var (
	// Version is stamped by the build; "dev" marks a local build.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configPath string
	debugAST   bool
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// parser config
	flag.BoolVar(&debugAST, "debug-ast", false, "Print the rebuilt syntax tree to stderr before evaluating")
	// config file
	flag.StringVar(&configPath, "config", DefaultConfigPath, "Path to a TOML configuration file")
	// log config
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {

	// .env values feed flag defaults through the environment; a missing file
	// is the normal case.
	_ = godotenv.Load()

	flag.Parse()

	config := util.Configuration{
		Version:   Version,
		BuildDate: BuildDate,
		Commit:    Commit,
		RootPath:  ".",
		LogLevel:  logLevel,
		LogFile:   logFile,
		DebugAST:  debugAST,
	}
	if err := config.LoadFile(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config file '%s': %v\n", configPath, err)
		os.Exit(ExitUsage)
	}

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
	defaultLogger := slog.New(slog.NewJSONHandler(logWriter, loggerOptions))
	slog.SetDefault(defaultLogger)

	if version {
		printVersion()
		return
	}

	if help {
		printHelp()
		return
	}

	if filename := flag.Arg(0); filename != "" {
		os.Exit(runFile(filename, config))
	}

	fmt.Printf("lox v%s\n", Version)
	repl.Start(os.Stdin, os.Stdout)
}

// runFile executes a source file and maps failures to exit codes: bad source
// (lexing, parsing, tree building) is a data error, anything raised while the
// program runs is a software error.
func runFile(filename string, config util.Configuration) int {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read '%s': %v\n", filename, err)
		return ExitUsage
	}

	l := lexer.New(string(source))
	p := parser.New(l)
	tree := p.ParseProgram()
	if len(p.Errors()) != 0 {
		for _, msg := range p.Errors() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", filename, msg)
		}
		return ExitDataErr
	}

	program, err := transform.New().Program(tree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		return ExitDataErr
	}

	if config.DebugAST {
		fmt.Fprintln(os.Stderr, program.String())
	}

	env := object.NewEnvironment()
	result := evaluator.New(env, os.Stdout).Eval(program)
	if errObj, ok := result.(*object.Error); ok {
		fmt.Fprintf(os.Stderr, "%s\n", errObj.Inspect())
		return ExitSwErr
	}
	return 0
}

func configureLogWriter(logFile string) *os.File {
	var logWriter *os.File
	var err error
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
			return os.Stderr
		}
		logWriter, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
			logWriter = os.Stderr
		}
	} else {
		logWriter = os.Stderr
	}
	return logWriter
}

func printVersion() {
	fmt.Printf("lox version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: lox [options] [filename]

Options:
  -config <path>     Path to a TOML configuration file. Default is 'lox.toml'.
  -debug-ast         Print the rebuilt syntax tree to stderr before evaluating.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
Runs a Lox source file, or starts an interactive session when no filename is
given.

Examples:
  lox -log-level=debug          Start the REPL with debug logging enabled
  lox myfile.lox                Execute the provided source file

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
