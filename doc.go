// Package rdfkit holds the domain types shared by rdfkit components: RDF
// terms, triples, named graphs, and the packed term-kind encoding stored
// alongside every statement row.
//
// Store backends live in subpackages; see store/postgres for the
// PostgreSQL-backed implementation.
package rdfkit
