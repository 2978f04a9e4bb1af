package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

// ErrWriteLineFailed is returned by Shell when a reply cannot be written
// back to the terminal.
var ErrWriteLineFailed = errors.New("write line failed")

const shellHelp = `commands:
  post [n]   increment the semaphore n times (default 1)
  wait [n]   decrement the semaphore n times, blocking while it is zero
  help       show this text
  exit       leave the shell`

// Exec runs one shell line against h. It returns the text to print and
// whether the shell should stop.
func Exec(ctx context.Context, line string, h Handle, retryInterrupted bool) (string, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false, nil
	}

	count := 1
	if len(fields) > 2 {
		return "", false, fmt.Errorf("%s: too many arguments", fields[0])
	}
	if len(fields) == 2 {
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return "", false, fmt.Errorf("%s: invalid count %q", fields[0], fields[1])
		}
		count = n
	}

	switch fields[0] {
	case "post":
		if err := Post(ctx, h, count); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("posted %d", count), false, nil
	case "wait":
		if err := Wait(ctx, h, count, retryInterrupted); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("acquired %d", count), false, nil
	case "help":
		return shellHelp, false, nil
	case "exit", "quit":
		return "", true, nil
	default:
		return "", false, fmt.Errorf("unknown command %q, try help", fields[0])
	}
}

// Shell reads commands from rl until exit, EOF, an interrupt on an
// empty line, or cancellation of ctx.
func Shell(ctx context.Context, rl *readline.Instance, h Handle, retryInterrupted bool) error {
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		reply, quit, err := Exec(ctx, line, h, retryInterrupted)
		if quit {
			return nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			reply = "error: " + err.Error()
		}
		if reply == "" {
			continue
		}
		if _, err = rl.Write([]byte(reply + "\n")); err != nil {
			return errors.Join(ErrWriteLineFailed, err)
		}
	}
}
