package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"cnft-cli/internal/config"
	"cnft-cli/internal/svc"
	"cnft-cli/pkg/logger"

	"github.com/urfave/cli"
	"github.com/zeromicro/go-zero/core/conf"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "dev"

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	app := cli.NewApp()
	app.Name = "cnft"
	app.Usage = "mint, update and query compressed NFTs"
	app.Version = version

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, f",
			Value: "etc/cnft.yaml",
			Usage: "config `FILE`",
		},
		cli.StringFlag{
			Name:  "rpc, r",
			Usage: "override rpc `ENDPOINT` from the config file",
		},
		cli.StringFlag{
			Name:  "keypair, k",
			Usage: "override authority keypair `FILE` from the config file",
		},
		cli.BoolFlag{
			Name:  "no-log",
			Usage: "do not write result json files",
		},
	}
	app.Commands = commands()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadContext 读配置、初始化日志并装配服务上下文
func loadContext(c *cli.Context) (*svc.ServiceContext, error) {
	var cfg config.Config
	conf.MustLoad(c.GlobalString("config"), &cfg)
	if v := c.GlobalString("rpc"); v != "" {
		cfg.RpcConf.Endpoint = v
	}
	if v := c.GlobalString("keypair"); v != "" {
		cfg.AuthorityKeypair = v
	}
	if err := logger.Init(cfg.LogConf.ToLogOption()); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return svc.NewServiceContext(cfg, !c.GlobalBool("no-log"))
}
