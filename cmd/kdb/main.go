package main

import (
	"kdb-scraper/cmd/kdb/commands"
	"kdb-scraper/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
