// Package newick provides reading, writing, and relabeling of phylogenetic
// trees in Newick format, plus extraction of trees from Nexus files.
//
// # Format
//
// A tree is a nested parenthesized list of nodes, each with an optional
// name, an optional bracketed comment, and an optional branch length:
//
//	(A:0.1,(B:0.2,C:0.3)internal:0.4)root;
//
// Names containing structural characters are single-quoted with doubled
// quotes as escapes. Comments are carried verbatim without the brackets;
// annotation comments in the wild conventionally start with '&'.
//
// # Parsing
//
// Use [Parse] for a Newick string and [ReadNexus] for a Nexus file; the
// latter extracts the first tree from the TREES block, applying the
// TRANSLATE table when present and dropping the [&R]/[&U] rooting comment.
//
// # Writing
//
// [Write] renders a tree, quoting names only when needed. Options:
//   - [WithBranchLengths]: include branch lengths (default true)
//   - [WithComments]: include node comments (default true)
//
// # Relabeling
//
// [Relabel] rewrites pipe-delimited leaf names of the form
// accession|isolate|subtype|host[|country] into a bare accession name plus
// an annotation comment, the transformation used to prepare trees for
// annotation-aware viewers.
package newick
