// Package formatter provides the text sink generated code is written to.
//
// Emitters write whole statements with embedded newlines; the Formatter
// prefixes each line with the current indentation. Indent and Unindent must
// balance with the braces the emitter writes; Block does both for the common
// case:
//
//	out := formatter.New(&buf)
//	out.Print("for (size_t i = 0; i < n; ++i) ")
//	err := out.Block(func() error {
//		out.Print("consume(i);\n")
//		return nil
//	})
package formatter
