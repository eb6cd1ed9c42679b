package xslt

import (
	"fmt"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/internal/backend"
)

// ParseOptions selects libxml2 parser behaviour. Each field maps to one
// XML_PARSE_* flag.
type ParseOptions struct {
	Recover    bool `yaml:"recover" json:"recover"`
	NoEnt      bool `yaml:"noent" json:"noent"`
	DTDLoad    bool `yaml:"dtdload" json:"dtdload"`
	DTDAttr    bool `yaml:"dtdattr" json:"dtdattr"`
	DTDValid   bool `yaml:"dtdvalid" json:"dtdvalid"`
	NoError    bool `yaml:"noerror" json:"noerror"`
	NoWarning  bool `yaml:"nowarning" json:"nowarning"`
	Pedantic   bool `yaml:"pedantic" json:"pedantic"`
	NoBlanks   bool `yaml:"noblanks" json:"noblanks"`
	SAX1       bool `yaml:"sax1" json:"sax1"`
	XInclude   bool `yaml:"xinclude" json:"xinclude"`
	NoNet      bool `yaml:"nonet" json:"nonet"`
	NoDict     bool `yaml:"nodict" json:"nodict"`
	NSClean    bool `yaml:"nsclean" json:"nsclean"`
	NoCDATA    bool `yaml:"nocdata" json:"nocdata"`
	NoXIncNode bool `yaml:"noxincnode" json:"noxincnode"`
	Compact    bool `yaml:"compact" json:"compact"`
	Old10      bool `yaml:"old10" json:"old10"`
	NoBaseFix  bool `yaml:"nobasefix" json:"nobasefix"`
	Huge       bool `yaml:"huge" json:"huge"`
	OldSAX     bool `yaml:"oldsax" json:"oldsax"`
	IgnoreEnc  bool `yaml:"ignore_enc" json:"ignore_enc"`
	BigLines   bool `yaml:"big_lines" json:"big_lines"`
}

type parserOption struct {
	name  string
	flag  int
	field func(*ParseOptions) *bool
}

var parserOptions = []parserOption{
	{"recover", 1 << 0, func(o *ParseOptions) *bool { return &o.Recover }},
	{"noent", 1 << 1, func(o *ParseOptions) *bool { return &o.NoEnt }},
	{"dtdload", 1 << 2, func(o *ParseOptions) *bool { return &o.DTDLoad }},
	{"dtdattr", 1 << 3, func(o *ParseOptions) *bool { return &o.DTDAttr }},
	{"dtdvalid", 1 << 4, func(o *ParseOptions) *bool { return &o.DTDValid }},
	{"noerror", 1 << 5, func(o *ParseOptions) *bool { return &o.NoError }},
	{"nowarning", 1 << 6, func(o *ParseOptions) *bool { return &o.NoWarning }},
	{"pedantic", 1 << 7, func(o *ParseOptions) *bool { return &o.Pedantic }},
	{"noblanks", 1 << 8, func(o *ParseOptions) *bool { return &o.NoBlanks }},
	{"sax1", 1 << 9, func(o *ParseOptions) *bool { return &o.SAX1 }},
	{"xinclude", 1 << 10, func(o *ParseOptions) *bool { return &o.XInclude }},
	{"nonet", 1 << 11, func(o *ParseOptions) *bool { return &o.NoNet }},
	{"nodict", 1 << 12, func(o *ParseOptions) *bool { return &o.NoDict }},
	{"nsclean", 1 << 13, func(o *ParseOptions) *bool { return &o.NSClean }},
	{"nocdata", 1 << 14, func(o *ParseOptions) *bool { return &o.NoCDATA }},
	{"noxincnode", 1 << 15, func(o *ParseOptions) *bool { return &o.NoXIncNode }},
	{"compact", 1 << 16, func(o *ParseOptions) *bool { return &o.Compact }},
	{"old10", 1 << 17, func(o *ParseOptions) *bool { return &o.Old10 }},
	{"nobasefix", 1 << 18, func(o *ParseOptions) *bool { return &o.NoBaseFix }},
	{"huge", 1 << 19, func(o *ParseOptions) *bool { return &o.Huge }},
	{"oldsax", 1 << 20, func(o *ParseOptions) *bool { return &o.OldSAX }},
	{"ignore_enc", 1 << 21, func(o *ParseOptions) *bool { return &o.IgnoreEnc }},
	{"big_lines", 1 << 22, func(o *ParseOptions) *bool { return &o.BigLines }},
}

// Flags returns the libxml2 option mask for o.
func (o ParseOptions) Flags() int {
	var flags int
	for _, opt := range parserOptions {
		if *opt.field(&o) {
			flags |= opt.flag
		}
	}
	return flags
}

// ParseOptionsFromMap builds options from names such as "recover" or
// "big_lines". Unknown names fail with ErrUnknownOption.
func ParseOptionsFromMap(m map[string]bool) (ParseOptions, error) {
	var o ParseOptions
	for name, on := range m {
		opt, ok := lookupOption(name)
		if !ok {
			return ParseOptions{}, fmt.Errorf("%w: %q", ErrUnknownOption, name)
		}
		*opt.field(&o) = on
	}
	return o, nil
}

// OptionNames lists every recognized parser option name in flag order.
func OptionNames() []string {
	names := make([]string, len(parserOptions))
	for i, opt := range parserOptions {
		names[i] = opt.name
	}
	return names
}

func lookupOption(name string) (parserOption, bool) {
	for _, opt := range parserOptions {
		if opt.name == name {
			return opt, true
		}
	}
	return parserOption{}, false
}

// ReadXMLFile parses the file at path. A parse that produces no document
// fails with *ParseError; a document without a root element fails with
// *StructuralError. Recovered diagnostics are available from
// Document.Errors.
func ReadXMLFile(path string, opts ParseOptions) (*Document, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return parse(path, func() backend.Doc {
		return backend.ReadFile(path, opts.Flags())
	})
}

// ParseXML parses data. url names the document in diagnostics and is used
// as its base URI; it may be empty.
func ParseXML(data []byte, url string, opts ParseOptions) (*Document, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return parse(url, func() backend.Doc {
		return backend.ReadMemory(data, url, opts.Flags())
	})
}

func parse(source string, read func() backend.Doc) (*Document, error) {
	var nd backend.Doc
	diags, last := backend.Collect(func() {
		nd = read()
	})

	if nd == nil {
		if last != nil {
			return nil, &ParseError{ErrorRecord: recordFromDiag(*last)}
		}
		if n := len(diags); n > 0 {
			return nil, &ParseError{ErrorRecord: recordFromDiag(diags[n-1])}
		}
		return nil, fmt.Errorf("%w: %s", ErrParse, source)
	}
	if !backend.HasRoot(nd) {
		backend.FreeDoc(nd)
		return nil, &StructuralError{Source: source}
	}
	return newDocument(nd, recordsFromDiags(diags)), nil
}
