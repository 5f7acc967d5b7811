// JXC is a structured data interchange format: a strict superset of JSON
// with typed annotations, numeric unit suffixes, multiple string flavors
// (quoted, raw-heredoc, base64 byte strings, datetime strings), comments,
// and a parenthesized expression value whose body is a stream of tokens
// rather than a parsed value.
//
// This package implements the parsing and serialization core: a lexer, a
// streaming element parser, a value constructor, and a serializer.
//
//	val, err := jxc.Loads(`{name: "jxc", version: 1}`)
//	if err != nil {
//	    panic(err)
//	}
//	out, err := jxc.DumpsWithOptions(val, jxc.DumpOptions{Pretty: true})
package jxc
