package kdb

import (
	"kdb-scraper/lib/restyutil"
	"kdb-scraper/lib/telemetry"
)

var tracer = telemetry.Tracer("kdb.lib.scrapers.kdb")
var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes every client created afterwards dump its
// http messages to out while debug logging is enabled.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
