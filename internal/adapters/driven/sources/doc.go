// Package sources provides the row source registry.
// Each source type (file, api) lives in its own subpackage and
// knows how to fetch raw rows from one kind of location.
//
// Sources are registered with the Factory at startup.
package sources
