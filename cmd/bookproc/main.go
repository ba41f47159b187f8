package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/bookproc/internal/cli"
	"git.home.luguber.info/inful/bookproc/internal/preprocess"

	// Built-in preprocessors register themselves.
	_ "git.home.luguber.info/inful/bookproc/internal/plugins/fence"
	_ "git.home.luguber.info/inful/bookproc/internal/plugins/noop"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Main(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, preprocess.DefaultRegistry())
	stop()
	os.Exit(code)
}
