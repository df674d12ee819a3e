// Command foldserve serves fold frames, exports and a live fold socket over
// HTTP.
package main

import (
	"flag"
	"log"

	"github.com/chazu/foldnet/pkg/config"
	"github.com/chazu/foldnet/pkg/web"
)

func main() {
	var configPath, addr, webPath string
	flag.StringVar(&configPath, "config", "", "YAML settings file")
	flag.StringVar(&addr, "i", "", "Address of server (overrides server.addr)")
	flag.StringVar(&webPath, "web", "", "Directory of static files to serve at /")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	if err := web.StartServer(addr, cfg, webPath); err != nil {
		log.Fatal(err)
	}
}
