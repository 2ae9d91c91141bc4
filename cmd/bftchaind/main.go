// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// bftchaind is the standalone execution core: genesis bootstrap,
// apply-block, and a JSON-RPC server driven by the external consensus
// collaborator.
package main

import (
	"fmt"
	"os"

	"github.com/bftchain/core/config"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

const clientIdentifier = "bftchaind"

var app = &cli.App{
	Name:    clientIdentifier,
	Usage:   "BFT chain execution core",
	Version: "0.1.0",
}

func init() {
	app.Commands = []*cli.Command{
		initCommand,
		serveCommand,
		statusCommand,
		applyBlockCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		log.SetDefault(log.NewLogger(log.NewTerminalHandler(os.Stderr, true)))
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildConfig assembles the shared Config from this command's pflag set
// bound against the cli.Context's raw arguments.
func buildConfig(ctx *cli.Context) (*config.Config, error) {
	fs := config.BuildFlagSet()
	v, err := config.BuildViper(fs, ctx.Args().Slice())
	if err != nil {
		return nil, err
	}
	return config.BuildConfig(v)
}
