// Package fixture loads expected rows and candidate tables from YAML.
//
// A fixture looks like:
//
//	expected:
//	  - {name__contains: Markel, age: 50}
//	tables:
//	  - name: people
//	    rows:
//	      - {name: Markel Smith, age: 50}
//
// Columns keep the order they are written in.
package fixture

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stepcheck/tablematch"
	"gopkg.in/yaml.v3"
)

type Fixture struct {
	Expected []tablematch.Row
	Tables   []tablematch.Table
}

func Load(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, errors.Wrapf(err, "error reading fixture")
	}
	f, err := Parse(data)
	if err != nil {
		return Fixture{}, errors.Wrapf(err, "error parsing fixture %s", path)
	}
	return f, nil
}

func Parse(data []byte) (Fixture, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Fixture{}, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return Fixture{}, errors.New("empty fixture")
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return Fixture{}, nodeErrorf(root, "expected a mapping at the top level")
	}

	var f Fixture
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], resolve(root.Content[i+1])
		switch key.Value {
		case "expected":
			rows, err := parseRows(val)
			if err != nil {
				return Fixture{}, errors.Wrapf(err, "expected")
			}
			f.Expected = rows
		case "tables":
			if val.Kind != yaml.SequenceNode {
				return Fixture{}, nodeErrorf(val, "tables must be a list")
			}
			for ti, tn := range val.Content {
				t, err := parseTable(resolve(tn), ti)
				if err != nil {
					return Fixture{}, errors.Wrapf(err, "tables[%d]", ti)
				}
				f.Tables = append(f.Tables, t)
			}
		default:
			return Fixture{}, nodeErrorf(key, "unknown key %q", key.Value)
		}
	}
	return f, nil
}

func parseTable(n *yaml.Node, idx int) (tablematch.Table, error) {
	if n.Kind != yaml.MappingNode {
		return tablematch.Table{}, nodeErrorf(n, "table must be a mapping")
	}
	t := tablematch.Table{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], resolve(n.Content[i+1])
		switch key.Value {
		case "name":
			t.Name = val.Value
		case "rows":
			rows, err := parseRows(val)
			if err != nil {
				return tablematch.Table{}, err
			}
			t.Rows = rows
		default:
			return tablematch.Table{}, nodeErrorf(key, "unknown table key %q", key.Value)
		}
	}
	if t.Name == "" {
		t.Name = fmt.Sprintf("table %d", idx+1)
	}
	return t, nil
}

func parseRows(n *yaml.Node) ([]tablematch.Row, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeErrorf(n, "rows must be a list")
	}
	rows := make([]tablematch.Row, 0, len(n.Content))
	for _, rn := range n.Content {
		rn = resolve(rn)
		if rn.Kind != yaml.MappingNode {
			return nil, nodeErrorf(rn, "row must be a mapping")
		}
		row := make(tablematch.Row, 0, len(rn.Content)/2)
		for i := 0; i+1 < len(rn.Content); i += 2 {
			key, val := rn.Content[i], resolve(rn.Content[i+1])
			if key.Kind != yaml.ScalarNode {
				return nil, nodeErrorf(key, "column name must be a scalar")
			}
			v, err := scalarValue(val)
			if err != nil {
				return nil, err
			}
			row = append(row, tablematch.Cell{Column: key.Value, Value: v})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func scalarValue(n *yaml.Node) (tablematch.Value, error) {
	if n.Kind != yaml.ScalarNode {
		return tablematch.Value{}, nodeErrorf(n, "cell value must be a scalar")
	}
	switch n.ShortTag() {
	case "!!null":
		return tablematch.NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return tablematch.Value{}, err
		}
		return tablematch.BoolValue(b), nil
	case "!!int":
		// Base 0 accepts the 0x, 0o and 0b prefixes and underscores YAML allows.
		i, ok := new(big.Int).SetString(n.Value, 0)
		if !ok {
			return tablematch.Value{}, nodeErrorf(n, "invalid integer %q", n.Value)
		}
		return tablematch.ParseNumber(i.String())
	case "!!float":
		v, err := tablematch.ParseNumber(floatLiteral(n.Value))
		if err != nil {
			return tablematch.Value{}, nodeErrorf(n, "%v", err)
		}
		return v, nil
	}
	return tablematch.StringValue(n.Value), nil
}

// floatLiteral rewrites the YAML spellings of infinity and NaN into the
// ones apd understands.
func floatLiteral(s string) string {
	switch strings.ToLower(s) {
	case ".inf", "+.inf":
		return "Infinity"
	case "-.inf":
		return "-Infinity"
	case ".nan":
		return "NaN"
	}
	return s
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func nodeErrorf(n *yaml.Node, format string, args ...interface{}) error {
	return errors.Wrapf(errors.Newf(format, args...), "line %d", n.Line)
}
