// Package grouping partitions row identifiers by column values.
//
// Every column gets a ReverseIndex (value -> roaring bitmap of rows), built
// lazily and cached by a Grouper. Set-valued columns can plug in their own
// BuildFunc so that a row joins the posting list of each of its labels.
package grouping
