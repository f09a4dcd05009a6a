// Package codegen builds the DST nodes that fnwrap inserts into function bodies: the wrapper
// closure, the call that captures its results, the final return and trace logging statements.
// It also owns the spacing rules for those nodes so that rewritten functions read like hand
// written code.
//
// Inputs are cloned before they are placed in an output unless a function documents that it takes
// ownership of them. A node that appears twice in a tree makes the restorer panic.
package codegen
