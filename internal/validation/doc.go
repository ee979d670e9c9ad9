// Package validation provides centralized input validation logic.
// This includes file name/extension checks, the supported content type
// allow-list, and the file size ceiling.
//
// All user inputs are validated here before any network call is made.
package validation
