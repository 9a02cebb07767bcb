// koko is the command line companion to kokorod: one-shot and
// streaming synthesis, voice inspection, and standalone servers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: koko <command> [flags]

commands:
  text       synthesize the given text to a WAV file
  file       synthesize each line of a file to its own WAV
  pipe       read stdin, stream sentences, write one WAV
  stream     read stdin lines, write WAV chunks to stdout as they finish
  voices     list the voices in the configured pack
  openai     serve the OpenAI-compatible HTTP API
  websocket  serve the websocket protocol only

run "koko <command> -h" for command flags
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "text":
		err = cmdText(ctx, os.Args[2:])
	case "file":
		err = cmdFile(ctx, os.Args[2:])
	case "pipe":
		err = cmdPipe(ctx, os.Args[2:])
	case "stream":
		err = cmdStream(ctx, os.Args[2:])
	case "voices":
		err = cmdVoices(os.Args[2:])
	case "openai":
		err = cmdOpenAI(ctx, os.Args[2:])
	case "websocket":
		err = cmdWebsocket(ctx, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "koko: unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "koko: %v\n", err)
		os.Exit(1)
	}
}
