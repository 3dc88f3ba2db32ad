// Package badger implements the score archive on BadgerDB.
package badger
