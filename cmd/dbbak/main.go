package main

import (
	"os"

	"github.com/bashhack/dbbak/internal/config"
)

// Version information - injected at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := NewDefaultApp(config.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	app.exit(app.Execute(os.Args[1:]))
}
