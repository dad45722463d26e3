// Package client provides the `tablo` command-line interface.
//
// Every command loads the catalog, opens the configured ledger, runs one
// operation and prints the result as indented JSON on stdout. Logs go to
// stderr.
//
// Configuration is layered: built-in defaults, then the --config file
// (.json or .yaml), then TABLO_* environment variables, then flags.
//
// Usage
//
//	tablo restaurants list --cuisine italian --min-rating 4
//	tablo restaurants list --search downtown
//	tablo restaurants list --where 'rating >= 4.5 && 6 in tables'
//	tablo restaurants show R001
//	tablo cuisines
//	tablo users list
//
//	tablo slots --restaurant R001 --date 2025-06-01
//	tablo tables --restaurant R001 --date 2025-06-01 --time 19:00 --party 4
//
//	# guarded: checks hours, future date and re-checks the table
//	tablo book --user U001 --restaurant R001 --date 2025-06-01 --time 19:00 --party 4
//	# raw: records the given table without checks
//	tablo reserve --user U001 --restaurant R001 --date 2025-06-01 --time 19:00 --party 4 --table T4_1
//
//	tablo cancel --user U001 --booking B1a2b3c4d
//	tablo history --user U001
//	tablo booking show B1a2b3c4d
//
//	# move bookings between backends
//	tablo ledger export --out bookings.csv
//	tablo --backend pebble ledger import --file bookings.csv
//
//	tablo health
package client
