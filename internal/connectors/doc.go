// Package connectors provides implementations of the Connector interface
// for document sources. Each connector knows how to read documents from a
// specific source type and report changes to them.
package connectors
