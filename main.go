package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/riscvgo/rv32emu/cmd"
)

func main() {
	app := cli.NewApp()
	app.Name = "rv32emu"
	app.Usage = "RV32 user-mode emulator"
	app.Description = "RV32 user-mode emulator with optional M/A/F/C/Zicsr/Zifencei extensions"
	app.Commands = []*cli.Command{
		cmd.RunCommand,
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			<-c
			cancel()
			fmt.Println("\r\nExiting...")
		}
	}()

	if err := app.RunContext(ctx, os.Args); err != nil {
		if errors.Is(err, ctx.Err()) {
			_, _ = fmt.Fprintf(os.Stderr, "command interrupted")
			os.Exit(130)
		}
		_, _ = fmt.Fprintf(os.Stderr, "error: %v", err)
		os.Exit(1)
	}
}
