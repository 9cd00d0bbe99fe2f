// Package transform implements the text-level edits applied to docset
// documents:
//  1. Availability filtering: does a page declare one of the requested
//     platforms?
//  2. Type linking: wrap mentions of indexed type names in links to their
//     own pages.
//
// Documents are treated as opaque bytes. Matching is done with regular
// expressions on the raw HTML rather than with an HTML parser.
package transform
