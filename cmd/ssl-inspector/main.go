package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/xlucas/ssl-inspector/commands"
)

// exitInterrupted follows the shell convention for SIGINT.
const exitInterrupted = 130

func main() {
	log.SetFlags(0)

	var command commands.InspectCommand

	// -h is the target host, so go-flags' own help flag is left out.
	parser := flags.NewParser(&command, flags.PassDoubleDash)
	parser.Name = "ssl-inspector"

	args, err := parser.Parse()
	if err != nil {
		log.Fatalln(err)
	}

	if command.Help {
		parser.WriteHelp(os.Stdout)
		return
	}

	err = command.Execute(args)
	if errors.Is(err, context.Canceled) {
		log.Println("scan interrupted")
		os.Exit(exitInterrupted)
	}
	if err != nil {
		log.Fatalln(err)
	}
}
