package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownCommand is returned for commands the current page does not know.
var ErrUnknownCommand = errors.New("unknown command")

// usageError reports malformed command arguments.
type usageError struct {
	usage string
}

func (e *usageError) Error() string { return "usage: " + e.usage }

func usage(u string) error { return &usageError{usage: u} }

// execIface is the command surface the REPL drives. App satisfies it; tests
// provide a lightweight stub.
type execIface interface {
	prompt() string
	help() string
	Go(ctx context.Context, path string) error
	Exec(ctx context.Context, cmd string, args []string) error
	Prefs(ctx context.Context, args []string) error
}

type printer interface {
	Printf(format string, args ...any)
	Println(args ...any)
}

// runREPL reads commands from lines and dispatches them to a until lines is
// closed, ctx is done, or the user types "exit" or "quit".
//
// Global commands:
//
//	help                    show the commands of the current page
//	go <path>               open /upload, /pickup or /manage/{id}
//	upload | pickup         shortcuts for go /upload and go /pickup
//	manage <id>             shortcut for go /manage/{id}
//	prefs [unset <key>]     list or remove stored preferences
//	exit | quit             leave the program
//
// Everything else is a page command. Coordinator failures are already
// alerted on screen, so only usage errors and unknown commands are reported
// here.
func runREPL(ctx context.Context, a execIface, lines <-chan string, out printer) {
	for {
		out.Printf("%s", a.prompt())

		var line string
		select {
		case <-ctx.Done():
			out.Println()
			return
		case l, ok := <-lines:
			if !ok {
				out.Println()
				return
			}
			line = l
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help", "?":
			out.Println(a.help())
		case "go":
			if len(args) != 1 {
				err = usage("go <path>")
				break
			}
			err = a.Go(ctx, args[0])
		case "upload", "pickup":
			err = a.Go(ctx, "/"+cmd)
		case "manage":
			if len(args) != 1 {
				err = usage("manage <file-group-id>")
				break
			}
			err = a.Go(ctx, "/manage/"+args[0])
		case "prefs":
			err = a.Prefs(ctx, args)
		case "exit", "quit":
			out.Println("Bye!")
			return
		default:
			err = a.Exec(ctx, cmd, args)
		}

		var ue *usageError
		switch {
		case errors.As(err, &ue):
			out.Println(ue.Error())
		case errors.Is(err, ErrUnknownCommand):
			out.Println("Unknown command:", cmd, "(type 'help')")
		case errors.Is(err, ErrUnknownPage):
			out.Println(err)
		}
	}
}

func sortRows(rows [][]string) {
	slices.SortFunc(rows, func(x, y []string) int { return strings.Compare(x[0], y[0]) })
}

func unknown(cmd string) error {
	return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
}
