package main

import (
	"log"
	"os"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/auth"
	"github.com/LithiumValproate/Freshman-3rd/core/session"
	logsvc "github.com/LithiumValproate/Freshman-3rd/services/logger"
	"github.com/LithiumValproate/Freshman-3rd/storage"
	"github.com/LithiumValproate/Freshman-3rd/storage/boltkv"
	"github.com/LithiumValproate/Freshman-3rd/storage/inmemkv"
	"github.com/LithiumValproate/Freshman-3rd/storage/redikv"
)

func main() {
	defer os.Exit(0)

	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.LoadConfig()
	errAndDie(std, err)

	var store storage.KV
	if conf.Redis.Addr != "" {
		store, err = redikv.Open(conf)
	} else {
		store, err = boltkv.Open(conf)
	}
	errAndDie(std, err)
	defer store.Close()

	// start CLI
	cli := commandLine{
		acceptor: auth.NewAcceptor(conf),
		sessSvc:  session.NewService(conf, store, inmemkv.Open(), logsvc.NewConsoleLogger(std)),
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
