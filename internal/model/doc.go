// Package model holds the plain records shared by the catalog, the ledger and
// the reservation services: restaurants, users, bookings, table
// configurations and the derived table slots.
//
// Table identity is positional. A restaurant configured as "2:5,4:3" owns
// tables T2_1..T2_5 and T4_1..T4_3; ids are only unique within one
// restaurant.
package model
