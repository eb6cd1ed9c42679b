// Package xslt compiles XSLT stylesheets from XML documents and applies them
// to other documents, synchronously or on a background pool, on top of
// libxml2 and libxslt.
//
// # Ownership
//
// Every native tree has exactly one owner: a Document, a Stylesheet, a
// detached Tree, or an in-flight task. Compiling consumes the document's tree
// (the document is left valid but empty), and applying in document mode
// replaces the content of a caller-supplied result Document:
//
//	sheetDoc, _ := xslt.ReadXMLFile("style.xsl", xslt.ParseOptions{})
//	ss, err := xslt.CompileStylesheet(sheetDoc) // sheetDoc is now empty
//	if err != nil {
//	    return err
//	}
//	defer ss.Close()
//
//	src, _ := xslt.ReadXMLFile("input.xml", xslt.ParseOptions{})
//	out, err := xslt.ApplyStylesheet(ss, src, []xslt.Param{xslt.StringParam("who", "O'Brien")}, true, nil)
//
// # Background execution
//
// A Library owns a worker pool. The async variants return an async.Future
// and invoke an optional callback exactly once. Native work runs on the pool
// while every wrapper it reads is pinned; wrappers are only mutated in the
// completion, which runs on the library's completion loop:
//
//	lib, _ := xslt.Open(xslt.Config{Workers: 4})
//	defer lib.Close()
//
//	result, _ := xslt.NewDocument()
//	f := lib.ApplyStylesheetAsync(ss, src, nil, false, result, nil)
//	if _, err := f.Wait(ctx); err != nil {
//	    return err
//	}
//
// Without cgo the package still compiles, and every operation reports
// ErrNotBuilt.
package xslt
