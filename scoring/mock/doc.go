// Package mock provides test doubles for the scoring interfaces.
package mock
