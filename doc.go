// Package strinject keeps documentation in sync with source code by replacing load tags with excerpts of other
// files.
//
// A document refers to a file, or to a named region of it:
//
//	<load path='src/greet.go' />
//	<load path='src/greet.go' marker='Greet' />
//
// Regions are delimited in the loaded file by lines containing "DOCUSAURUS: Greet start" and
// "DOCUSAURUS: Greet stop", whatever the comment syntax. Injected regions lose their common indentation, and
// marker lines never reach the output.
//
// All tags are attempted; failures are collected in an *InjectError next to the best-effort output.
package strinject
