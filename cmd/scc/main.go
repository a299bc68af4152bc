package main

import (
	"os"

	"git.home.luguber.info/inful/scc/cmd/scc/commands"
	"git.home.luguber.info/inful/scc/internal/foundation/errors"
)

func main() {
	cli := &commands.CLI{}
	g := commands.NewGlobal()
	parser, err := commands.New(cli, g)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, g.Logger).HandleError(err)
	}
}
