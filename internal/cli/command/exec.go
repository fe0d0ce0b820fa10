package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// ExecCommand returns the exec command.
func ExecCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Aliases:   []string{"x"},
		Usage:     "Send one command and print the raw response",
		ArgsUsage: "<command...>",
		Action:    execAction,
	}
}

func execAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("usage: prefixkv-cli exec <command...>")
	}

	line := strings.Join(c.Args().Slice(), " ")
	resp, err := newClient(c).Exec(c.Context, line)
	fmt.Fprint(c.App.Writer, resp)
	return err
}
