// ==============================================================================================
// FILE: repl/repl.go
// ==============================================================================================
// PACKAGE: repl
// PURPOSE: The Read-Eval-Print Loop interface.
//          It connects the user input stream to the compiler pipeline (lexer -> parser ->
//          evaluator, via interp.Interpreter) and manages the persistent session state.
// ==============================================================================================

package repl

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/amoghasbhardwaj/lumen/evalerror"
	"github.com/amoghasbhardwaj/lumen/interp"
	"github.com/amoghasbhardwaj/lumen/object"
)

// ----------------------------------------------------------------------------
// UI CONSTANTS & CONFIGURATION
// ----------------------------------------------------------------------------

const (
	PROMPT = ">> "
	LOGO   = `
┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
┃  _                                                 ┃
┃ | |_   _ _ __ ___   ___ _ __                       ┃
┃ | | | | | '_ ` + "`" + ` _ \ / _ \ '_ \                      ┃
┃ | | |_| | | | | | |  __/ | | |                     ┃
┃ |_|\__,_|_| |_| |_|\___|_| |_|                     ┃
┃                                                     ┃
┃ The lumen language, a source-mapped Scheme dialect  ┃
┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
`
)

// ANSI color codes for terminal output.
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	Gray   = "\033[37m"
	Bold   = "\033[1m"
)

// Options configures a session, set from cobra flags in main.go.
type Options struct {
	MaxStackSize int
	Tracing      bool
	HistoryFile  string
}

// Start launches the read-eval-print loop over readline, evaluating every
// line against a single persistent interp.Interpreter (the session's
// variables and closures live for as long as the process does).
func Start(out io.Writer, opts Options) error {
	it := interp.New()
	if opts.MaxStackSize > 0 {
		it.SetMaxStackSize(opts.MaxStackSize)
	}
	it.SetTracing(opts.Tracing)
	it.StartTrackingStats()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Cyan + PROMPT + Reset,
		HistoryFile:     opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return errors.Wrap(err, "starting readline session")
	}
	defer rl.Close()

	fmt.Fprint(out, LOGO)
	printHelp(out)

	exprNum := 0
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out, Yellow+"Goodbye!"+Reset)
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading input")
		}
		if line == "" {
			continue
		}

		if handled, exit := runCommand(out, it, line); handled {
			if exit {
				return nil
			}
			continue
		}

		exprNum++
		sourceID := it.RegisterSource(fmt.Sprintf("<repl:%d>", exprNum), line)
		value, evalErr := it.Evaluate(sourceID)
		if evalErr != nil {
			printEvalError(out, it, evalErr)
			continue
		}
		printResult(out, it, value)
	}
}

// runCommand handles a leading-dot REPL command. handled reports whether
// line was a command at all; exit reports whether Start should return.
func runCommand(out io.Writer, it *interp.Interpreter, line string) (handled, exit bool) {
	switch line {
	case ".exit":
		fmt.Fprintln(out, Yellow+"Goodbye!"+Reset)
		return true, true
	case ".help":
		printHelp(out)
		return true, false
	case ".trace":
		logrus.Info("enabling combination/tail-call tracing")
		it.SetTracing(true)
		fmt.Fprintln(out, Gray+"Tracing ENABLED."+Reset)
		return true, false
	case ".gc":
		n := it.GC(true)
		fmt.Fprintf(out, Gray+"gc: reclaimed %d objects\n"+Reset, n)
		return true, false
	case ".stats":
		stats := it.TakeTrackedStats()
		it.StartTrackingStats()
		fmt.Fprintf(out, Gray+"max depth observed: %d\n"+Reset, stats.MaxDepth)
		return true, false
	}
	return false, false
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, Gray+"Commands:")
	fmt.Fprintln(out, "  .exit   Quit the REPL")
	fmt.Fprintln(out, "  .trace  Enable combination/tail-call tracing")
	fmt.Fprintln(out, "  .gc     Run the cycle collector now")
	fmt.Fprintln(out, "  .stats  Print tracked call-depth stats")
	fmt.Fprintln(out, "  .help   Show this message"+Reset)
	fmt.Fprintln(out)
}

// printResult renders a value in surface syntax; Undefined prints nothing,
// matching lambda/define/set!'s "no useful value" results.
func printResult(out io.Writer, it *interp.Interpreter, value object.Node) {
	if value.Value.Kind == object.KindUndefined {
		return
	}
	fmt.Fprintf(out, Green+"%s\n"+Reset, it.Render(value))
}

func printEvalError(out io.Writer, it *interp.Interpreter, err *evalerror.Error) {
	fmt.Fprintln(out, Red+Bold+it.DescribeError(err)+Reset)
	fmt.Fprintln(out, Gray+it.Traceback()+Reset)
}
