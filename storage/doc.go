// Package storage defines the score archive interfaces and the wire
// serialization of archived records.
//
// The archive is a secondary, queryable persistence of scored posts next to
// the delimited sink: resumed runs consult it to skip already-scored posts,
// and the export command re-emits it as a delimited file. Backends live in
// subpackages; storage/badger provides the BadgerDB implementation.
package storage
