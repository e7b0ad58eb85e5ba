// Package dbcapabilities is the static catalog of SQL backends the data
// layer can speak to. It maps arbitrary backend names and aliases to
// canonical identifiers and records per-backend facts the generic layer
// needs: dialect quoting and placeholder conventions, system catalogs,
// default ports, and whether a server-variable namespace exists.
//
// The catalog is deliberately a plain map: the set of supported backends is
// enumerable at compile time and never discovered dynamically.
package dbcapabilities
