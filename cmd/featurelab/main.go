// Command featurelab builds leakage-free rolling team features from NBA
// team game logs.
//
// Subcommands:
//
//	build    load game logs, run the pipeline, write features and RUN_REPORT.md
//	teams    write the static team lookup table, optionally into the source store
//	migrate  apply Postgres, ClickHouse or SQLite migrations
//	import   copy a CSV game log directory into the SQL source store
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
