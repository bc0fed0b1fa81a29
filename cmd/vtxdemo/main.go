// Command vtxdemo drives a github.com/vtx/vtx engine against a real
// child shell and repaints it onto the caller's own controlling
// terminal. It exists purely as ambient host tooling to exercise the
// engine end-to-end; argument parsing and the host event loop are
// explicitly out of scope for THE CORE itself (spec.md §1).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vtx/vtx"
	"github.com/vtx/vtx/internal/hostshim"
	"github.com/vtx/vtx/parser"
	"github.com/vtx/vtx/ptybridge"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vtxdemo [-- command [args...]]",
		Short: "Run a child shell under the vtx terminal engine",
		Long: `vtxdemo forks the given command (default: $SHELL) behind a
pseudo-terminal, drives a vtx.Screen from its output through the
escape-sequence parser, and repaints the result onto the caller's own
terminal via a small ANSI renderer.`,
		RunE: runDemo,
	}
	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	command, cmdArgs := "", []string{}
	if len(args) > 0 {
		command, cmdArgs = args[0], args[1:]
	} else if shell := os.Getenv("SHELL"); shell != "" {
		command = shell
	} else {
		command = "/bin/sh"
	}

	host, err := hostshim.Open(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	defer host.Close()

	cols, rows, err := host.Size()
	if err != nil {
		cols, rows = 80, 24
	}

	renderer := newAnsiRenderer(os.Stdout)
	screen := vtx.New(cols, rows, vtx.WithRenderer(renderer))
	p := parser.New(screen)

	bridge, err := ptybridge.StartPTY(command, cmdArgs, cols, rows, 0)
	if err != nil {
		return err
	}
	screen.SetResponseWriter(bridge.AsReadWriter())

	host.WatchResize(func(c, r int) {
		screen.Lock()
		screen.Resize(c, r)
		screen.Unlock()
		bridge.Resize(c, r, 0, 0)
	})

	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				bridge.WritePTY(buf[:n], 5*time.Second)
			}
			if err != nil {
				return
			}
		}
	}()

	err = bridge.PipeOutput(func(chunk []byte) {
		screen.Lock()
		p.Feed(chunk)
		screen.Update(vtx.UpdateOptions{ScrollType: vtx.ScrollNever})
		screen.Unlock()
	})

	<-bridge.Done()
	return err
}
