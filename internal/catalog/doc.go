// Package catalog loads restaurant and user reference data from CSV files
// into in-memory maps keyed by identifier.
//
// Files carry a header row; columns are matched by name:
//
//	restaurant_id,name,cuisine_type,rating,location,total_tables,table_configuration,opening_hours,closing_hours
//	user_id,name,email,phone_number
//
// A malformed record (non-numeric rating or total_tables, a bad
// table_configuration token, out-of-range values) aborts the load with a
// *model.ParseError naming the file, line and column. There is no partial
// load.
package catalog
