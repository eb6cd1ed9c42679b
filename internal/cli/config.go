package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt"
)

// FileConfig is the YAML configuration accepted by --config.
//
//	library:
//	  workers: 4
//	  register_extensions: true
//	parse:
//	  nonet: true
//	  big_lines: true
//	params:
//	  title: Quarterly report
//	xpath_params:
//	  limit: "10"
//	log_level: debug
type FileConfig struct {
	Library     xslt.Config       `yaml:"library"`
	Parse       xslt.ParseOptions `yaml:"parse"`
	Params      ParamList         `yaml:"params"`
	XPathParams ParamList         `yaml:"xpath_params"`
	LogLevel    string            `yaml:"log_level"`
}

// LoadConfig reads path. An empty path yields the zero configuration.
func LoadConfig(path string) (*FileConfig, error) {
	cfg := &FileConfig{}
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.LogLevel != "" {
		if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("config %s: unknown log_level %q", path, cfg.LogLevel)
		}
	}
	return cfg, nil
}

// ParamList is a YAML mapping of parameter names to unquoted values, kept in
// document order.
type ParamList []xslt.Param

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *ParamList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: parameters must be a mapping", node.Line)
	}
	out := make(ParamList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name, value string
		if err := node.Content[i].Decode(&name); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&value); err != nil {
			return err
		}
		out = append(out, xslt.Param{Name: name, Value: value})
	}
	*l = out
	return nil
}

// Literal quotes every value as an XPath string literal.
func (l ParamList) Literal() []xslt.Param {
	out := make([]xslt.Param, len(l))
	for i, p := range l {
		out[i] = xslt.StringParam(p.Name, p.Value)
	}
	return out
}

// LoadParamsFile reads a YAML mapping of parameter names to literal string
// values.
func LoadParamsFile(path string) ([]xslt.Param, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("read params file: %w", err)
	}
	var l ParamList
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode params file %s: %w", path, err)
	}
	return l.Literal(), nil
}

// ParseParamFlags turns name=value pairs into parameters. Values are quoted
// as string literals unless xpath is set.
func ParseParamFlags(pairs []string, xpath bool) ([]xslt.Param, error) {
	params := make([]xslt.Param, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q: want name=value", pair)
		}
		if xpath {
			params = append(params, xslt.Param{Name: name, Value: value})
		} else {
			params = append(params, xslt.StringParam(name, value))
		}
	}
	return params, nil
}

// ParseOptionFlags merges option names from --option into base.
func ParseOptionFlags(base xslt.ParseOptions, names []string) (xslt.ParseOptions, error) {
	if len(names) == 0 {
		return base, nil
	}
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	extra, err := xslt.ParseOptionsFromMap(m)
	if err != nil {
		return base, err
	}
	return mergeOptions(base, extra), nil
}

func mergeOptions(a, b xslt.ParseOptions) xslt.ParseOptions {
	names := xslt.OptionNames()
	m := make(map[string]bool, len(names))
	flags := a.Flags() | b.Flags()
	for i, n := range names {
		if flags&(1<<i) != 0 {
			m[n] = true
		}
	}
	// Every name comes from OptionNames, so this cannot fail.
	merged, _ := xslt.ParseOptionsFromMap(m)
	return merged
}
